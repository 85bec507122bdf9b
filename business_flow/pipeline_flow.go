package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/amirphl/card-transactions-generator/app/services"
	"github.com/amirphl/card-transactions-generator/config"
	"github.com/amirphl/card-transactions-generator/encoder"
	"github.com/amirphl/card-transactions-generator/generator"
	"github.com/amirphl/card-transactions-generator/schema"
	"golang.org/x/sync/errgroup"
)

// ThreadInput is everything one worker thread needs
type ThreadInput struct {
	Job            generator.JobMeta
	ProcessDate    time.Time
	ChargebackRate float64
}

// ThreadResult summarizes a thread that finished, successfully or not
type ThreadResult struct {
	ThreadID      int
	Rows          map[schema.TableName]int
	Chargebacks   int
	SyntheticRefs int
	Uploads       []services.UploadRecord
}

// PipelineFlow generates, encodes and uploads the tables of one thread
type PipelineFlow interface {
	RunThread(ctx context.Context, in ThreadInput) (*ThreadResult, error)
}

// PipelineFlowImpl implements PipelineFlow
type PipelineFlowImpl struct {
	schemas  map[schema.TableName]*schema.TableSchema
	builder  *generator.TableBuilder
	encoder  encoder.Encoder
	uploader UploadFlow
	pool     services.ReferencePoolService
	storage  config.StorageConfig
	tracker  *Tracker
	logger   *log.Logger
}

// NewPipelineFlow creates a new pipeline flow. tracker may be nil.
func NewPipelineFlow(
	schemas map[schema.TableName]*schema.TableSchema,
	builder *generator.TableBuilder,
	enc encoder.Encoder,
	uploader UploadFlow,
	pool services.ReferencePoolService,
	storage config.StorageConfig,
	tracker *Tracker,
	logger *log.Logger,
) PipelineFlow {
	return &PipelineFlowImpl{
		schemas:  schemas,
		builder:  builder,
		encoder:  enc,
		uploader: uploader,
		pool:     pool,
		storage:  storage,
		tracker:  tracker,
		logger:   logger,
	}
}

// ObjectKey is the partition-aware key of one table file of one thread
func ObjectKey(table schema.TableName, date time.Time, jobIndex, threadID int, ext string) string {
	return fmt.Sprintf("%s/%04d/%02d/%02d/job_%d_thread_%d.%s",
		table, date.Year(), int(date.Month()), date.Day(), jobIndex, threadID, ext)
}

type encodedTable struct {
	name schema.TableName
	rows int
	body []byte
}

// RunThread executes the steps of one thread in order: reference pool,
// chargeback selection, parallel table generation and encoding, then the
// dual-destination uploads. It fails if any upload fails.
func (f *PipelineFlowImpl) RunThread(ctx context.Context, in ThreadInput) (*ThreadResult, error) {
	threadsInProgress.Inc()
	defer threadsInProgress.Dec()

	job := in.Job
	result := &ThreadResult{ThreadID: job.ThreadID, Rows: make(map[schema.TableName]int)}
	fail := func(err error) (*ThreadResult, error) {
		f.tracker.ThreadFailed(job.ThreadID, err)
		return result, NewBusinessErrorf("THREAD_FAILED", "Thread %d of job %d failed", errors.Join(ErrThreadFailed, err), job.ThreadID, job.JobIndex)
	}

	f.tracker.SetThreadPhase(job.ThreadID, ThreadPhaseReferencePool)
	pool, err := f.pool.Draw(ctx, job.JobIndex, job.ThreadID)
	if err != nil {
		return fail(err)
	}
	result.SyntheticRefs = pool.Synthetic
	referencePoolSyntheticTotal.Add(float64(pool.Synthetic))

	seeds := generator.RowSeeds(job.JobIndex, job.ThreadID, job.RowsPerThread)
	chargebacks := generator.SelectChargebackSeeds(seeds, in.ChargebackRate, job.JobIndex, job.ThreadID)
	result.Chargebacks = len(chargebacks)
	f.tracker.SetThreadRows(job.ThreadID, len(seeds), len(chargebacks))
	f.logger.Printf("pipeline: job %d thread %d: %d rows, %d chargebacks, %d synthetic references",
		job.JobIndex, job.ThreadID, len(seeds), len(chargebacks), pool.Synthetic)

	tables := append([]schema.TableName{}, schema.BaseTables...)
	if len(chargebacks) > 0 {
		tables = append(tables, schema.ChargebackTables...)
	}

	f.tracker.SetThreadPhase(job.ThreadID, ThreadPhaseGenerating)
	encoded := make([]encodedTable, len(tables))
	g := new(errgroup.Group)
	for i, name := range tables {
		g.Go(func() error {
			et, err := f.buildTable(name, seeds, chargebacks, pool.Values, in)
			if err != nil {
				return err
			}
			encoded[i] = et
			f.tracker.TableBuilt(job.ThreadID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fail(err)
	}
	for _, et := range encoded {
		result.Rows[et.name] = et.rows
	}

	f.tracker.SetThreadPhase(job.ThreadID, ThreadPhaseUploading)
	if err := f.uploadAll(ctx, encoded, in, result); err != nil {
		return fail(err)
	}

	f.tracker.SetThreadPhase(job.ThreadID, ThreadPhaseSucceeded)
	return result, nil
}

func (f *PipelineFlowImpl) buildTable(name schema.TableName, seeds []uint64, chargebacks generator.ChargebackSet, pool []string, in ThreadInput) (encodedTable, error) {
	start := time.Now()

	s, ok := f.schemas[name]
	if !ok {
		return encodedTable{}, NewBusinessErrorf("TABLE_SCHEMA_MISSING", "No schema loaded for table %s", ErrTableGeneration, name)
	}

	batch := generator.BatchInput{
		Schema:        s,
		Seeds:         seeds,
		Job:           in.Job,
		Chargebacks:   chargebacks,
		ProcessDate:   in.ProcessDate,
		ReferencePool: pool,
	}
	if name.IsChargeback() {
		batch.Seeds = chargebacks.Seeds()
		batch.IsChargebackTable = true
	}

	table := f.builder.Build(batch)
	body, err := f.encoder.Encode(table)
	if err != nil {
		return encodedTable{}, NewBusinessErrorf("TABLE_ENCODE_FAILED", "Failed to encode table %s", errors.Join(ErrTableGeneration, err), name)
	}

	rowsGeneratedTotal.WithLabelValues(string(name)).Add(float64(table.NumRows))
	tableBuildDuration.WithLabelValues(string(name)).Observe(time.Since(start).Seconds())
	return encodedTable{name: name, rows: table.NumRows, body: body}, nil
}

// uploadAll sends every table to the shared payment-data bucket and to its
// family bucket concurrently. The first terminal failure cancels the rest.
func (f *PipelineFlowImpl) uploadAll(ctx context.Context, encoded []encodedTable, in ThreadInput, result *ThreadResult) error {
	job := in.Job
	var tasks []*UploadTask
	for _, et := range encoded {
		key := ObjectKey(et.name, in.ProcessDate, job.JobIndex, job.ThreadID, f.encoder.Extension())
		for _, bucket := range []string{f.storage.PaymentDataBucket, f.storage.BucketFor(et.name.Family())} {
			tasks = append(tasks, &UploadTask{
				Table:    string(et.name),
				ThreadID: job.ThreadID,
				Bucket:   bucket,
				Key:      key,
				Rows:     et.rows,
				Body:     et.body,
			})
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			err := f.uploader.Upload(gctx, task)
			f.tracker.UploadFinished(job.ThreadID, err == nil)
			mu.Lock()
			result.Uploads = append(result.Uploads, task.Record())
			mu.Unlock()
			return err
		})
	}
	return g.Wait()
}

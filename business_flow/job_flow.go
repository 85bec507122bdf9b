package businessflow

import (
	"context"
	"log"
	"time"

	"github.com/amirphl/card-transactions-generator/app/services"
	"github.com/amirphl/card-transactions-generator/config"
	"github.com/amirphl/card-transactions-generator/generator"
	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/utils"
	"golang.org/x/sync/errgroup"
)

// JobResult is the outcome of one job, complete or not
type JobResult struct {
	RunID          string
	JobID          string
	JobIndex       int
	PartitionDate  time.Time
	PartitionOrder int64
	Threads        []*ThreadResult
	StartedAt      time.Time
	FinishedAt     time.Time
	Succeeded      bool
}

// Summary converts the result into the report header
func (r *JobResult) Summary(cfg config.JobConfig) services.JobSummary {
	s := services.JobSummary{
		RunID:          r.RunID,
		JobID:          r.JobID,
		JobIndex:       r.JobIndex,
		PartitionDate:  r.PartitionDate.Format(models.PartitionDateLayout),
		PartitionOrder: r.PartitionOrder,
		Threads:        cfg.Threads,
		RowsPerThread:  cfg.RowsPerThread,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Succeeded:      r.Succeeded,
	}
	for _, t := range r.Threads {
		if t != nil {
			s.Chargebacks += t.Chargebacks
		}
	}
	return s
}

// Uploads flattens the upload records of every thread
func (r *JobResult) Uploads() []services.UploadRecord {
	var out []services.UploadRecord
	for _, t := range r.Threads {
		if t != nil {
			out = append(out, t.Uploads...)
		}
	}
	return out
}

// JobFlow runs one array job end to end
type JobFlow interface {
	Run(ctx context.Context) (*JobResult, error)
}

// JobFlowImpl implements JobFlow
type JobFlowImpl struct {
	cfg        config.JobConfig
	runID      string
	partitions PartitionFlow
	pipeline   PipelineFlow
	tracker    *Tracker
	logger     *log.Logger
	today      func() time.Time
}

// NewJobFlow creates a job flow. A nil today uses the UTC wall clock.
func NewJobFlow(cfg config.JobConfig, runID string, partitions PartitionFlow, pipeline PipelineFlow, tracker *Tracker, logger *log.Logger, today func() time.Time) JobFlow {
	if today == nil {
		today = utils.UTCNow
	}
	return &JobFlowImpl{
		cfg:        cfg,
		runID:      runID,
		partitions: partitions,
		pipeline:   pipeline,
		tracker:    tracker,
		logger:     logger,
		today:      today,
	}
}

// Run assigns the partition order, runs every thread concurrently and marks
// the job complete only after every upload of every thread succeeded. On
// failure the active entry stays in place so a retry reuses the same order.
func (f *JobFlowImpl) Run(ctx context.Context) (*JobResult, error) {
	jobIndex := f.cfg.JobIndex()
	jobID := f.cfg.JobID()
	date := generator.PartitionDate(f.cfg.InitialLoad, jobIndex, f.cfg.ArrayIndex, f.today())
	dateKey := date.Format(models.PartitionDateLayout)

	result := &JobResult{
		RunID:         f.runID,
		JobID:         jobID,
		JobIndex:      jobIndex,
		PartitionDate: date,
		StartedAt:     utils.UTCNow(),
		Threads:       make([]*ThreadResult, f.cfg.Threads),
	}
	finish := func(err error) (*JobResult, error) {
		result.FinishedAt = utils.UTCNow()
		result.Succeeded = err == nil
		if err != nil {
			f.tracker.SetState(JobStateFailed, err)
			f.logger.Printf("job: %s (index %d) failed after %s: %v", jobID, jobIndex, result.FinishedAt.Sub(result.StartedAt), err)
		} else {
			f.tracker.SetState(JobStateCompleted, nil)
			f.logger.Printf("job: %s (index %d) completed %d threads in %s", jobID, jobIndex, f.cfg.Threads, result.FinishedAt.Sub(result.StartedAt))
		}
		return result, err
	}

	f.logger.Printf("job: %s (index %d) partition date %s, %d threads x %d rows, chargeback rate %.4f%%",
		jobID, jobIndex, dateKey, f.cfg.Threads, f.cfg.RowsPerThread, f.cfg.ChargebackRate*100)

	order, err := f.partitions.Assign(ctx, dateKey, jobID)
	if err != nil {
		return finish(err)
	}
	result.PartitionOrder = order
	f.tracker.SetPartition(dateKey, order)
	f.tracker.SetState(JobStateGenerating, nil)

	g, gctx := errgroup.WithContext(ctx)
	for i := range f.cfg.Threads {
		threadID := i + 1
		g.Go(func() error {
			tr, err := f.pipeline.RunThread(gctx, ThreadInput{
				Job: generator.JobMeta{
					JobIndex:       jobIndex,
					ThreadID:       threadID,
					NumThreads:     f.cfg.Threads,
					RowsPerThread:  f.cfg.RowsPerThread,
					PartitionOrder: order,
					CardBrand:      f.cfg.CardBrand,
					NetworkBrand:   f.cfg.NetworkBrand,
				},
				ProcessDate:    date,
				ChargebackRate: f.cfg.ChargebackRate,
			})
			result.Threads[i] = tr
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return finish(err)
	}

	if err := f.partitions.Complete(ctx, dateKey, jobID); err != nil {
		return finish(err)
	}
	return finish(nil)
}

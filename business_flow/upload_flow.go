package businessflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/amirphl/card-transactions-generator/app/services"
)

// UploadStatus is a state of the upload state machine
type UploadStatus int

const (
	UploadPending UploadStatus = iota
	UploadUploading
	UploadSucceeded
	UploadFailed
)

func (s UploadStatus) String() string {
	switch s {
	case UploadPending:
		return "pending"
	case UploadUploading:
		return "uploading"
	case UploadSucceeded:
		return "succeeded"
	case UploadFailed:
		return "failed"
	}
	return fmt.Sprintf("UploadStatus(%d)", int(s))
}

// Terminal reports whether no further transition is possible
func (s UploadStatus) Terminal() bool {
	return s == UploadSucceeded || s == UploadFailed
}

var uploadTransitions = map[UploadStatus][]UploadStatus{
	UploadPending:   {UploadUploading, UploadFailed}, // failed only when cancelled during backoff
	UploadUploading: {UploadSucceeded, UploadPending, UploadFailed},
}

const parquetContentType = "application/vnd.apache.parquet"

// UploadTask is one payload bound for one bucket
type UploadTask struct {
	Table    string
	ThreadID int
	Bucket   string
	Key      string
	Rows     int
	Body     []byte

	Status   UploadStatus
	Attempts int
	LastErr  error
	Duration time.Duration
}

func (t *UploadTask) transition(to UploadStatus) error {
	if t.Status.Terminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, t.Status)
	}
	for _, allowed := range uploadTransitions[t.Status] {
		if allowed == to {
			t.Status = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, t.Status, to)
}

// Record converts the task into a report row
func (t *UploadTask) Record() services.UploadRecord {
	r := services.UploadRecord{
		Table:    t.Table,
		ThreadID: t.ThreadID,
		Bucket:   t.Bucket,
		Key:      t.Key,
		Rows:     t.Rows,
		Bytes:    len(t.Body),
		Attempts: t.Attempts,
		Status:   t.Status.String(),
		Duration: t.Duration,
	}
	if t.LastErr != nil && t.Status != UploadSucceeded {
		r.Error = t.LastErr.Error()
	}
	return r
}

// UploadFlow drives one task to a terminal state
type UploadFlow interface {
	Upload(ctx context.Context, task *UploadTask) error
}

// UploadFlowImpl retries failed uploads with exponential backoff
type UploadFlowImpl struct {
	storage     services.ObjectStorage
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
	logger      *log.Logger
}

// NewUploadFlow creates an upload flow. A nil sleep waits on the real clock.
func NewUploadFlow(storage services.ObjectStorage, maxAttempts int, baseDelay time.Duration, sleep SleepFunc, logger *log.Logger) UploadFlow {
	if sleep == nil {
		sleep = contextSleep
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &UploadFlowImpl{
		storage:     storage,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       sleep,
		logger:      logger,
	}
}

// Upload attempts the task up to maxAttempts times. Attempt n (0-based) that
// fails is followed by a wait of baseDelay*2^n before the next one.
func (f *UploadFlowImpl) Upload(ctx context.Context, task *UploadTask) error {
	start := time.Now()
	defer func() {
		task.Duration = time.Since(start)
		uploadsTotal.WithLabelValues(task.Table, task.Status.String()).Inc()
	}()

	for attempt := 0; ; attempt++ {
		if err := task.transition(UploadUploading); err != nil {
			return err
		}
		task.Attempts++
		uploadAttemptsTotal.WithLabelValues(task.Table).Inc()

		err := f.storage.PutObject(ctx, task.Bucket, task.Key, task.Body, parquetContentType)
		if err == nil {
			uploadedBytesTotal.WithLabelValues(task.Table).Add(float64(len(task.Body)))
			return task.transition(UploadSucceeded)
		}
		task.LastErr = err

		if attempt+1 >= f.maxAttempts || ctx.Err() != nil {
			return f.fail(task, err)
		}

		delay := f.baseDelay << attempt
		f.logger.Printf("upload: s3://%s/%s attempt %d/%d failed, retrying in %s: %v",
			task.Bucket, task.Key, task.Attempts, f.maxAttempts, delay, err)
		if err := task.transition(UploadPending); err != nil {
			return err
		}
		if err := f.sleep(ctx, delay); err != nil {
			return f.fail(task, err)
		}
	}
}

func (f *UploadFlowImpl) fail(task *UploadTask, cause error) error {
	if err := task.transition(UploadFailed); err != nil {
		return err
	}
	f.logger.Printf("upload: s3://%s/%s failed after %d attempts: %v", task.Bucket, task.Key, task.Attempts, cause)
	return NewBusinessErrorf("UPLOAD_FAILED", "Failed to upload s3://%s/%s", errors.Join(ErrUploadExhausted, cause), task.Bucket, task.Key)
}

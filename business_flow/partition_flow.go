package businessflow

import (
	"context"
	"errors"
	"log"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/repository"
)

// PartitionFlow hands out exclusive orders inside a date partition
type PartitionFlow interface {
	// Assign returns jobID's order for date, reusing it when the job restarts.
	Assign(ctx context.Context, date, jobID string) (int64, error)
	// Complete releases jobID from the active set of date.
	Complete(ctx context.Context, date, jobID string) error
	// Show returns the current counter record of date.
	Show(ctx context.Context, date string) (*models.PartitionSnapshot, error)
}

// PartitionFlowImpl implements PartitionFlow on a PartitionStore
type PartitionFlowImpl struct {
	store  repository.PartitionStore
	logger *log.Logger
}

// NewPartitionFlow creates a new partition flow
func NewPartitionFlow(store repository.PartitionStore, logger *log.Logger) PartitionFlow {
	return &PartitionFlowImpl{store: store, logger: logger}
}

func coordinationError(code, message string, err error) error {
	return NewBusinessError(code, message, errors.Join(ErrPartitionCoordination, err))
}

// Assign runs the three-step protocol: reuse an active entry, otherwise take
// the next counter value and record it. Orders are counter-1, so the first
// job of a date gets 0. If the job dies between the increment and the record
// its counter value is skipped and the next restart takes a fresh one.
func (f *PartitionFlowImpl) Assign(ctx context.Context, date, jobID string) (int64, error) {
	order, ok, err := f.store.ActiveOrder(ctx, date, jobID)
	if err != nil {
		return 0, coordinationError("PARTITION_READ_FAILED", "Failed to read active jobs", err)
	}
	if ok {
		partitionAssignmentsTotal.WithLabelValues("reused").Inc()
		f.logger.Printf("partition: job %s restarted, reusing order %d for %s", jobID, order, date)
		return order, nil
	}

	counter, err := f.store.IncrementCounter(ctx, date)
	if err != nil {
		return 0, coordinationError("PARTITION_INCREMENT_FAILED", "Failed to increment job counter", err)
	}
	order = counter - 1

	err = f.store.SetActiveOrder(ctx, date, jobID, order)
	if errors.Is(err, repository.ErrActiveJobsMissing) {
		if err := f.store.CreateActiveJobs(ctx, date); err != nil {
			return 0, coordinationError("PARTITION_CREATE_FAILED", "Failed to create active jobs", err)
		}
		partitionAssignmentsTotal.WithLabelValues("map_created").Inc()
		err = f.store.SetActiveOrder(ctx, date, jobID, order)
	}
	if err != nil {
		return 0, coordinationError("PARTITION_ASSIGN_FAILED", "Failed to record active job", err)
	}

	partitionAssignmentsTotal.WithLabelValues("assigned").Inc()
	f.logger.Printf("partition: job %s assigned order %d for %s", jobID, order, date)
	return order, nil
}

// Complete removes the active entry. It is idempotent.
func (f *PartitionFlowImpl) Complete(ctx context.Context, date, jobID string) error {
	if err := f.store.RemoveActiveOrder(ctx, date, jobID); err != nil {
		return coordinationError("PARTITION_COMPLETE_FAILED", "Failed to remove active job", err)
	}
	f.logger.Printf("partition: job %s completed and removed from active jobs of %s", jobID, date)
	return nil
}

func (f *PartitionFlowImpl) Show(ctx context.Context, date string) (*models.PartitionSnapshot, error) {
	snap, err := f.store.Snapshot(ctx, date)
	if err != nil {
		return nil, coordinationError("PARTITION_READ_FAILED", "Failed to read partition counter", err)
	}
	if snap == nil {
		return nil, NewBusinessErrorf("PARTITION_NOT_FOUND", "No partition counter for %s", ErrPartitionNotFound, date)
	}
	return snap, nil
}

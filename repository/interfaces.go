// Package repository provides data access layer implementations and interfaces for the generator's coordination and reference data
package repository

import (
	"context"
	"errors"

	"github.com/amirphl/card-transactions-generator/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// ErrActiveJobsMissing is returned by SetActiveOrder when the partition has no
// active_jobs container yet. Callers create it with CreateActiveJobs and retry.
var ErrActiveJobsMissing = errors.New("active_jobs map does not exist")

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// PartitionStore is the per-date coordination record shared by every job
// writing into the same partition. Each method is a single atomic operation
// on the backing store; composing them into an assignment protocol is the
// caller's job.
type PartitionStore interface {
	// ActiveOrder returns the order recorded for jobID, if any.
	ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error)
	// IncrementCounter atomically bumps job_counter, creating the record at 1.
	IncrementCounter(ctx context.Context, date string) (int64, error)
	// SetActiveOrder records active_jobs[jobID] = order.
	SetActiveOrder(ctx context.Context, date, jobID string, order int64) error
	// CreateActiveJobs creates an empty active_jobs map unless one exists.
	CreateActiveJobs(ctx context.Context, date string) error
	// RemoveActiveOrder deletes active_jobs[jobID]. Removing an absent job is not an error.
	RemoveActiveOrder(ctx context.Context, date, jobID string) error
	// Snapshot returns the whole record, or nil when the date was never touched.
	Snapshot(ctx context.Context, date string) (*models.PartitionSnapshot, error)
}

// HashPanReader resolves reference ids to tokenized card numbers
type HashPanReader interface {
	// ByIDs returns the hash_pan of every id that exists. Missing ids are absent from the map.
	ByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// HashPanRepository defines operations on the Postgres reference table
type HashPanRepository interface {
	Repository[models.HashPan, models.HashPanFilter]
	HashPanReader
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirphl/card-transactions-generator/models"
	"gorm.io/gorm"
)

// PartitionCounterFilter represents filter criteria for partition counter queries
type PartitionCounterFilter struct {
	PartitionDate *string
}

// PartitionCounterRepository implements PartitionStore on a Postgres jsonb column
type PartitionCounterRepository struct {
	*BaseRepository[models.PartitionCounter, PartitionCounterFilter]
}

// NewPartitionCounterRepository creates a new partition counter repository
func NewPartitionCounterRepository(db *gorm.DB, table string) PartitionStore {
	return &PartitionCounterRepository{
		BaseRepository: NewBaseRepository[models.PartitionCounter, PartitionCounterFilter](db, table),
	}
}

func (r *PartitionCounterRepository) rawDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(TxContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return r.DB.WithContext(ctx)
}

// ActiveOrder reads active_jobs[jobID]
func (r *PartitionCounterRepository) ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error) {
	var row struct {
		JobOrder *string
	}
	query := fmt.Sprintf(`SELECT active_jobs ->> ? AS job_order FROM %s WHERE partition_date = ?`, r.quotedTable())
	if err := r.rawDB(ctx).Raw(query, jobID, date).Scan(&row).Error; err != nil {
		return 0, false, fmt.Errorf("failed to read active job %s for %s: %w", jobID, date, err)
	}
	if row.JobOrder == nil {
		return 0, false, nil
	}

	order, err := strconv.ParseInt(*row.JobOrder, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("active job %s for %s has non-numeric order %q: %w", jobID, date, *row.JobOrder, err)
	}
	return order, true, nil
}

// IncrementCounter upserts the row and returns the incremented job_counter
func (r *PartitionCounterRepository) IncrementCounter(ctx context.Context, date string) (int64, error) {
	table := r.quotedTable()
	query := fmt.Sprintf(`INSERT INTO %[1]s (partition_date, job_counter, created_at, updated_at)
VALUES (?, 1, NOW(), NOW())
ON CONFLICT (partition_date) DO UPDATE SET job_counter = %[1]s.job_counter + 1, updated_at = NOW()
RETURNING job_counter`, table)

	var counter int64
	if err := r.rawDB(ctx).Raw(query, date).Scan(&counter).Error; err != nil {
		return 0, fmt.Errorf("failed to increment job counter for %s: %w", date, err)
	}
	return counter, nil
}

// SetActiveOrder writes active_jobs[jobID] = order, only if the map exists
func (r *PartitionCounterRepository) SetActiveOrder(ctx context.Context, date, jobID string, order int64) error {
	query := fmt.Sprintf(`UPDATE %s
SET active_jobs = jsonb_set(active_jobs, ARRAY[?]::text[], to_jsonb(?::bigint)), updated_at = NOW()
WHERE partition_date = ? AND active_jobs IS NOT NULL`, r.quotedTable())

	result := r.rawDB(ctx).Exec(query, jobID, order, date)
	if result.Error != nil {
		return fmt.Errorf("failed to set active job %s for %s: %w", jobID, date, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrActiveJobsMissing
	}
	return nil
}

// CreateActiveJobs sets active_jobs to an empty object when it is NULL
func (r *PartitionCounterRepository) CreateActiveJobs(ctx context.Context, date string) error {
	table := r.quotedTable()
	query := fmt.Sprintf(`INSERT INTO %[1]s (partition_date, job_counter, active_jobs, created_at, updated_at)
VALUES (?, 0, '{}'::jsonb, NOW(), NOW())
ON CONFLICT (partition_date) DO UPDATE SET active_jobs = '{}'::jsonb, updated_at = NOW()
WHERE %[1]s.active_jobs IS NULL`, table)

	if err := r.rawDB(ctx).Exec(query, date).Error; err != nil {
		return fmt.Errorf("failed to create active jobs for %s: %w", date, err)
	}
	return nil
}

// RemoveActiveOrder deletes active_jobs[jobID]
func (r *PartitionCounterRepository) RemoveActiveOrder(ctx context.Context, date, jobID string) error {
	query := fmt.Sprintf(`UPDATE %s SET active_jobs = active_jobs - ?::text, updated_at = NOW()
WHERE partition_date = ? AND active_jobs IS NOT NULL`, r.quotedTable())

	if err := r.rawDB(ctx).Exec(query, jobID, date).Error; err != nil {
		return fmt.Errorf("failed to remove active job %s for %s: %w", jobID, date, err)
	}
	return nil
}

// Snapshot loads the whole record for date
func (r *PartitionCounterRepository) Snapshot(ctx context.Context, date string) (*models.PartitionSnapshot, error) {
	var counter models.PartitionCounter
	err := r.getDB(ctx).Where("partition_date = ?", date).Take(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load partition counter for %s: %w", date, err)
	}
	return counter.Snapshot()
}

package testing

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/amirphl/card-transactions-generator/repository"
)

// ErrNoTestDB marks a test database that could not be provisioned
var ErrNoTestDB = errors.New("test database unavailable")

// TestFixtures provides helper methods for seeding test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// HashPanValue is the deterministic value seeded for reference id.
func HashPanValue(id int64) string {
	return fmt.Sprintf("fixture_hash_pan_%06d", id)
}

// CreateHashPans seeds ids [0, n) into the reference table
func (tf *TestFixtures) CreateHashPans(ctx context.Context, n int) ([]*models.HashPan, error) {
	rows := make([]*models.HashPan, n)
	for i := range rows {
		rows[i] = &models.HashPan{ID: int64(i), HashPan: HashPanValue(int64(i))}
	}
	repo := repository.NewHashPanRepository(tf.DB.DB, "")
	if err := repo.SaveBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to seed hash_pans: %w", err)
	}
	return rows, nil
}

// CreatePartitionCounter inserts a counter row, optionally without its active_jobs map
func (tf *TestFixtures) CreatePartitionCounter(ctx context.Context, date string, counter int64, active map[string]int64) (*models.PartitionCounter, error) {
	pc := &models.PartitionCounter{PartitionDate: date, JobCounter: counter}
	if active != nil {
		pc.ActiveJobs = make(map[string]any, len(active))
		for job, order := range active {
			pc.ActiveJobs[job] = order
		}
	}
	repo := repository.NewBaseRepository[models.PartitionCounter, repository.PartitionCounterFilter](tf.DB.DB, "")
	err := repository.WithTransaction(ctx, tf.DB.DB, func(txCtx context.Context) error {
		return repo.Save(txCtx, pc)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create partition counter %s: %w", date, err)
	}
	return pc, nil
}

package businessflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/amirphl/card-transactions-generator/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flowDate = "2025-03-10"

// failingStore fails the named operation and delegates everything else.
type failingStore struct {
	repository.PartitionStore
	failOn string
}

var errStoreDown = errors.New("store unavailable")

func (s *failingStore) ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error) {
	if s.failOn == "read" {
		return 0, false, errStoreDown
	}
	return s.PartitionStore.ActiveOrder(ctx, date, jobID)
}

func (s *failingStore) IncrementCounter(ctx context.Context, date string) (int64, error) {
	if s.failOn == "increment" {
		return 0, errStoreDown
	}
	return s.PartitionStore.IncrementCounter(ctx, date)
}

func (s *failingStore) SetActiveOrder(ctx context.Context, date, jobID string, order int64) error {
	if s.failOn == "set" {
		return errStoreDown
	}
	return s.PartitionStore.SetActiveOrder(ctx, date, jobID, order)
}

func (s *failingStore) CreateActiveJobs(ctx context.Context, date string) error {
	if s.failOn == "create" {
		return errStoreDown
	}
	return s.PartitionStore.CreateActiveJobs(ctx, date)
}

func (s *failingStore) RemoveActiveOrder(ctx context.Context, date, jobID string) error {
	if s.failOn == "remove" {
		return errStoreDown
	}
	return s.PartitionStore.RemoveActiveOrder(ctx, date, jobID)
}

func TestAssignIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryPartitionStore()
	flow := NewPartitionFlow(store, discardLogger())

	first, err := flow.Assign(ctx, flowDate, "job_a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), first)

	again, err := flow.Assign(ctx, flowDate, "job_a")
	require.NoError(t, err)
	assert.Equal(t, first, again)

	snap, err := flow.Show(ctx, flowDate)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.JobCounter)

	second, err := flow.Assign(ctx, flowDate, "job_b")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second)
}

func TestConcurrentAssignIsContiguous(t *testing.T) {
	ctx := context.Background()
	flow := NewPartitionFlow(repository.NewMemoryPartitionStore(), discardLogger())

	const jobs = 50
	orders := make([]int64, jobs)
	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order, err := flow.Assign(ctx, flowDate, fmt.Sprintf("job_%d", i))
			assert.NoError(t, err)
			orders[i] = order
		}(i)
	}
	wg.Wait()

	sort.Slice(orders, func(i, j int) bool { return orders[i] < orders[j] })
	for i, order := range orders {
		assert.Equal(t, int64(i), order)
	}

	snap, err := flow.Show(ctx, flowDate)
	require.NoError(t, err)
	assert.Len(t, snap.ActiveJobs, jobs)
}

func TestCompleteReleasesJob(t *testing.T) {
	ctx := context.Background()
	flow := NewPartitionFlow(repository.NewMemoryPartitionStore(), discardLogger())

	order, err := flow.Assign(ctx, flowDate, "job_a")
	require.NoError(t, err)
	require.NoError(t, flow.Complete(ctx, flowDate, "job_a"))
	require.NoError(t, flow.Complete(ctx, flowDate, "job_a"))

	snap, err := flow.Show(ctx, flowDate)
	require.NoError(t, err)
	assert.Empty(t, snap.ActiveJobs)

	// a completed job that runs again takes a fresh order
	next, err := flow.Assign(ctx, flowDate, "job_a")
	require.NoError(t, err)
	assert.Equal(t, order+1, next)
}

func TestShowUnknownPartition(t *testing.T) {
	flow := NewPartitionFlow(repository.NewMemoryPartitionStore(), discardLogger())
	_, err := flow.Show(context.Background(), "1999-01-01")
	require.Error(t, err)
	assert.True(t, IsPartitionNotFound(err))
	assert.Equal(t, "PARTITION_NOT_FOUND", ErrorCode(err))
}

func TestAssignCoordinationFailures(t *testing.T) {
	tests := []struct {
		name     string
		failOn   string
		wantCode string
	}{
		{name: "read", failOn: "read", wantCode: "PARTITION_READ_FAILED"},
		{name: "increment", failOn: "increment", wantCode: "PARTITION_INCREMENT_FAILED"},
		{name: "set", failOn: "set", wantCode: "PARTITION_ASSIGN_FAILED"},
		{name: "create", failOn: "create", wantCode: "PARTITION_CREATE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &failingStore{PartitionStore: repository.NewMemoryPartitionStore(), failOn: tt.failOn}
			_, err := NewPartitionFlow(store, discardLogger()).Assign(context.Background(), flowDate, "job_a")
			require.Error(t, err)
			assert.True(t, IsPartitionCoordination(err))
			assert.ErrorIs(t, err, errStoreDown)
			assert.Equal(t, tt.wantCode, ErrorCode(err))
		})
	}
}

func TestCompleteCoordinationFailure(t *testing.T) {
	store := &failingStore{PartitionStore: repository.NewMemoryPartitionStore(), failOn: "remove"}
	err := NewPartitionFlow(store, discardLogger()).Complete(context.Background(), flowDate, "job_a")
	assert.True(t, IsPartitionCoordination(err))
}

var _ repository.PartitionStore = (*failingStore)(nil)

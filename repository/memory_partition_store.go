package repository

import (
	"context"
	"maps"
	"sync"

	"github.com/amirphl/card-transactions-generator/models"
)

type memoryPartition struct {
	counter int64
	active  map[string]int64 // nil until CreateActiveJobs
}

// MemoryPartitionStore is a process-local PartitionStore for dry runs and tests.
// It reproduces the missing-map behaviour of the document stores.
type MemoryPartitionStore struct {
	mu         sync.Mutex
	partitions map[string]*memoryPartition
}

// NewMemoryPartitionStore creates an empty in-memory store
func NewMemoryPartitionStore() *MemoryPartitionStore {
	return &MemoryPartitionStore{partitions: make(map[string]*memoryPartition)}
}

func (s *MemoryPartitionStore) partition(date string) *memoryPartition {
	p, ok := s.partitions[date]
	if !ok {
		p = &memoryPartition{}
		s.partitions[date] = p
	}
	return p
}

func (s *MemoryPartitionStore) ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partitions[date]
	if !ok || p.active == nil {
		return 0, false, nil
	}
	order, ok := p.active[jobID]
	return order, ok, nil
}

func (s *MemoryPartitionStore) IncrementCounter(ctx context.Context, date string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partition(date)
	p.counter++
	return p.counter, nil
}

func (s *MemoryPartitionStore) SetActiveOrder(ctx context.Context, date, jobID string, order int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partition(date)
	if p.active == nil {
		return ErrActiveJobsMissing
	}
	p.active[jobID] = order
	return nil
}

func (s *MemoryPartitionStore) CreateActiveJobs(ctx context.Context, date string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.partition(date)
	if p.active == nil {
		p.active = make(map[string]int64)
	}
	return nil
}

func (s *MemoryPartitionStore) RemoveActiveOrder(ctx context.Context, date, jobID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.partitions[date]; ok && p.active != nil {
		delete(p.active, jobID)
	}
	return nil
}

func (s *MemoryPartitionStore) Snapshot(ctx context.Context, date string) (*models.PartitionSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.partitions[date]
	if !ok {
		return nil, nil
	}
	active := make(map[string]int64, len(p.active))
	maps.Copy(active, p.active)
	return &models.PartitionSnapshot{
		PartitionDate: date,
		JobCounter:    p.counter,
		HasActiveJobs: p.active != nil,
		ActiveJobs:    active,
	}, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/amirphl/card-transactions-generator/models"
	"github.com/redis/go-redis/v9"
)

// RedisPartitionStore keeps each partition as a counter key plus an active-jobs hash.
// A Redis hash springs into existence on first write, so the active map is
// never missing and CreateActiveJobs has nothing to do.
type RedisPartitionStore struct {
	rc     redis.Cmdable
	prefix string
}

// NewRedisPartitionStore creates a partition store on rc. Keys are namespaced by prefix.
func NewRedisPartitionStore(rc redis.Cmdable, prefix string) *RedisPartitionStore {
	return &RedisPartitionStore{rc: rc, prefix: prefix}
}

func (s *RedisPartitionStore) counterKey(date string) string {
	return s.prefix + "partition:" + date + ":job_counter"
}

func (s *RedisPartitionStore) activeKey(date string) string {
	return s.prefix + "partition:" + date + ":active_jobs"
}

func (s *RedisPartitionStore) ActiveOrder(ctx context.Context, date, jobID string) (int64, bool, error) {
	order, err := s.rc.HGet(ctx, s.activeKey(date), jobID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read active job %s for %s: %w", jobID, date, err)
	}
	return order, true, nil
}

func (s *RedisPartitionStore) IncrementCounter(ctx context.Context, date string) (int64, error) {
	counter, err := s.rc.Incr(ctx, s.counterKey(date)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment job counter for %s: %w", date, err)
	}
	return counter, nil
}

func (s *RedisPartitionStore) SetActiveOrder(ctx context.Context, date, jobID string, order int64) error {
	if err := s.rc.HSet(ctx, s.activeKey(date), jobID, order).Err(); err != nil {
		return fmt.Errorf("failed to set active job %s for %s: %w", jobID, date, err)
	}
	return nil
}

func (s *RedisPartitionStore) CreateActiveJobs(ctx context.Context, date string) error {
	return nil
}

func (s *RedisPartitionStore) RemoveActiveOrder(ctx context.Context, date, jobID string) error {
	if err := s.rc.HDel(ctx, s.activeKey(date), jobID).Err(); err != nil {
		return fmt.Errorf("failed to remove active job %s for %s: %w", jobID, date, err)
	}
	return nil
}

func (s *RedisPartitionStore) Snapshot(ctx context.Context, date string) (*models.PartitionSnapshot, error) {
	counter, err := s.rc.Get(ctx, s.counterKey(date)).Int64()
	counterMissing := errors.Is(err, redis.Nil)
	if err != nil && !counterMissing {
		return nil, fmt.Errorf("failed to read job counter for %s: %w", date, err)
	}

	active, err := s.rc.HGetAll(ctx, s.activeKey(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read active jobs for %s: %w", date, err)
	}
	if counterMissing && len(active) == 0 {
		return nil, nil
	}

	snap := &models.PartitionSnapshot{
		PartitionDate: date,
		JobCounter:    counter,
		HasActiveJobs: true,
		ActiveJobs:    make(map[string]int64, len(active)),
	}
	for job, v := range active {
		order, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("active job %s for %s has non-numeric order %q: %w", job, date, v, err)
		}
		snap.ActiveJobs[job] = order
	}
	return snap, nil
}

package services

import (
	"context"
	"fmt"
	"log"

	"github.com/amirphl/card-transactions-generator/generator"
	"github.com/amirphl/card-transactions-generator/repository"
)

// poolSalt separates the pool's draws from every other seeded stream of a thread
const poolSalt = 0x706f6f6c

// ReferencePoolService draws the per-thread pool of tokenized card numbers
type ReferencePoolService interface {
	Draw(ctx context.Context, jobIndex, threadID int) (*ReferencePool, error)
}

// ReferencePool is the result of one draw. Synthetic counts the entries that
// fell back to a generated value.
type ReferencePool struct {
	Values    []string
	Synthetic int
}

// ReferencePoolServiceImpl implements ReferencePoolService
type ReferencePoolServiceImpl struct {
	reader      repository.HashPanReader
	size        int
	recordCount int
	logger      *log.Logger
}

// NewReferencePoolService creates a pool drawer. A nil reader yields a fully synthetic pool.
func NewReferencePoolService(reader repository.HashPanReader, size, recordCount int, logger *log.Logger) ReferencePoolService {
	return &ReferencePoolServiceImpl{
		reader:      reader,
		size:        size,
		recordCount: recordCount,
		logger:      logger,
	}
}

// Draw picks size ids from [0, recordCount) with a thread-seeded source and
// looks them up. Lookup failures never fail the thread; missing entries get a
// synthetic value derived from the same seed, so a rerun draws the same pool.
func (s *ReferencePoolServiceImpl) Draw(ctx context.Context, jobIndex, threadID int) (*ReferencePool, error) {
	seed := generator.HashSeed(generator.ThreadSeed(jobIndex, threadID), poolSalt)
	rng := generator.NewRand(seed)

	ids := make([]int64, s.size)
	for i := range ids {
		ids[i] = rng.Int64Range(0, int64(s.recordCount))
	}

	found := map[int64]string{}
	if s.reader != nil {
		var err error
		found, err = s.reader.ByIDs(ctx, ids)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("reference pool lookup cancelled: %w", ctx.Err())
			}
			s.logger.Printf("reference_pool: job %d thread %d lookup failed, using synthetic pool: %v", jobIndex, threadID, err)
			found = map[int64]string{}
		}
	}

	pool := &ReferencePool{Values: make([]string, len(ids))}
	for i, id := range ids {
		if v, ok := found[id]; ok && v != "" {
			pool.Values[i] = v
			continue
		}
		pool.Values[i] = fmt.Sprintf("hash_%016x", generator.HashSeed(seed, uint64(i)))
		pool.Synthetic++
	}

	if pool.Synthetic > 0 && s.reader != nil {
		s.logger.Printf("reference_pool: job %d thread %d: %d of %d entries synthetic", jobIndex, threadID, pool.Synthetic, len(ids))
	}
	return pool, nil
}

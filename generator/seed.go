// Package generator derives synthetic card transactions from integer seeds.
// Every value it produces is a pure function of the row seed and the job
// metadata, except for wall-clock insertion timestamps.
package generator

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// ThreadSeedMultiplier spaces thread seeds of consecutive jobs apart.
	ThreadSeedMultiplier = 1000
	// RowSeedMultiplier spaces row seeds of consecutive threads apart.
	RowSeedMultiplier = 100000

	// MaxJobIndex keeps job_index*1000*100000 well inside uint64.
	MaxJobIndex = 1_000_000
	// MaxThreadID is the largest thread id that cannot overflow into the next job.
	MaxThreadID = ThreadSeedMultiplier - 1
	// MaxRowsPerThread is the largest row count that cannot overflow into the next thread.
	MaxRowsPerThread = RowSeedMultiplier
)

// ErrSeedOutOfBounds is returned when a seed component would collide with a neighbour.
var ErrSeedOutOfBounds = errors.New("seed component out of bounds")

// ValidateSeedBounds checks that (jobIndex, threadID, rowCount) produce seeds
// that are unique across the whole seed space.
func ValidateSeedBounds(jobIndex, threadID, rowCount int) error {
	if jobIndex < 0 || jobIndex >= MaxJobIndex {
		return fmt.Errorf("%w: job index %d not in [0, %d)", ErrSeedOutOfBounds, jobIndex, MaxJobIndex)
	}
	if threadID < 0 || threadID > MaxThreadID {
		return fmt.Errorf("%w: thread id %d not in [0, %d]", ErrSeedOutOfBounds, threadID, MaxThreadID)
	}
	if rowCount < 0 || rowCount > MaxRowsPerThread {
		return fmt.Errorf("%w: row count %d not in [0, %d]", ErrSeedOutOfBounds, rowCount, MaxRowsPerThread)
	}
	return nil
}

// ThreadSeed returns the base seed of one worker thread.
func ThreadSeed(jobIndex, threadID int) uint64 {
	return uint64(jobIndex)*ThreadSeedMultiplier + uint64(threadID)
}

// DeriveRowSeed returns the globally unique seed of one logical transaction.
func DeriveRowSeed(jobIndex, threadID, rowIndex int) uint64 {
	return ThreadSeed(jobIndex, threadID)*RowSeedMultiplier + uint64(rowIndex)
}

// RowSeeds returns the seeds of every row of one worker thread, in row order.
func RowSeeds(jobIndex, threadID, rowCount int) []uint64 {
	seeds := make([]uint64, rowCount)
	for i := range seeds {
		seeds[i] = DeriveRowSeed(jobIndex, threadID, i)
	}
	return seeds
}

// RowIndex recovers the row index a seed was derived from.
func RowIndex(seed uint64) int {
	return int(seed % RowSeedMultiplier)
}

// HashSeed folds integer parts into a single well-mixed seed.
func HashSeed(parts ...uint64) uint64 {
	buf := make([]byte, 8*len(parts))
	for i, p := range parts {
		binary.BigEndian.PutUint64(buf[i*8:], p)
	}
	sum := blake2b.Sum256(buf)
	return binary.LittleEndian.Uint64(sum[:8])
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRowSeed(t *testing.T) {
	tests := []struct {
		name     string
		jobIndex int
		threadID int
		rowIndex int
		expected uint64
	}{
		{name: "origin", jobIndex: 0, threadID: 0, rowIndex: 0, expected: 0},
		{name: "first thread of first job", jobIndex: 0, threadID: 1, rowIndex: 7, expected: 100007},
		{name: "job seven thread two", jobIndex: 7, threadID: 2, rowIndex: 99999, expected: 7002*100000 + 99999},
		{name: "upper bounds", jobIndex: MaxJobIndex - 1, threadID: MaxThreadID, rowIndex: MaxRowsPerThread - 1,
			expected: (uint64(MaxJobIndex-1)*1000+999)*100000 + 99999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := DeriveRowSeed(tt.jobIndex, tt.threadID, tt.rowIndex)
			assert.Equal(t, tt.expected, seed)
			assert.Equal(t, tt.rowIndex, RowIndex(seed))
		})
	}
}

func TestValidateSeedBounds(t *testing.T) {
	tests := []struct {
		name        string
		jobIndex    int
		threadID    int
		rowCount    int
		expectError bool
	}{
		{name: "typical job", jobIndex: 42, threadID: 3, rowCount: 100000},
		{name: "zero rows", jobIndex: 0, threadID: 1, rowCount: 0},
		{name: "negative job index", jobIndex: -1, threadID: 1, rowCount: 10, expectError: true},
		{name: "job index too large", jobIndex: MaxJobIndex, threadID: 1, rowCount: 10, expectError: true},
		{name: "thread id too large", jobIndex: 1, threadID: 1000, rowCount: 10, expectError: true},
		{name: "too many rows", jobIndex: 1, threadID: 1, rowCount: 100001, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeedBounds(tt.jobIndex, tt.threadID, tt.rowCount)
			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrSeedOutOfBounds)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRowSeedsAreUniqueAcrossThreadsAndJobs(t *testing.T) {
	seen := make(map[uint64]bool)
	for job := 0; job < 3; job++ {
		for thread := 1; thread <= 3; thread++ {
			for _, seed := range RowSeeds(job, thread, 500) {
				require.False(t, seen[seed], "seed %d issued twice", seed)
				seen[seed] = true
			}
		}
	}
	assert.Len(t, seen, 3*3*500)
}

func TestHashSeed(t *testing.T) {
	assert.Equal(t, HashSeed(1, 2), HashSeed(1, 2))
	assert.NotEqual(t, HashSeed(1, 2), HashSeed(2, 1))
	assert.NotEqual(t, HashSeed(1), HashSeed(1, 0))
}

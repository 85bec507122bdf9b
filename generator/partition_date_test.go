package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNightlyPartitionDate(t *testing.T) {
	today := time.Date(2025, time.March, 15, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		arrayIndex int
		expected   time.Time
	}{
		{name: "first index is six days ago", arrayIndex: 0, expected: time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC)},
		{name: "last index is today", arrayIndex: 6, expected: time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{name: "wraps every seven", arrayIndex: 8, expected: time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NightlyPartitionDate(tt.arrayIndex, today))
		})
	}
}

func TestInitialLoadPartitionDate(t *testing.T) {
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 8, 0, 0, 0, 0, time.UTC)

	for job := 0; job < 500; job++ {
		d := InitialLoadPartitionDate(job, today)
		assert.False(t, d.Before(InitialLoadStart), "job %d mapped before the window", job)
		assert.False(t, d.After(end), "job %d mapped after the window", job)
		assert.Equal(t, d, InitialLoadPartitionDate(job, today))
	}
}

func TestPartitionDateSelectsMode(t *testing.T) {
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, NightlyPartitionDate(3, today), PartitionDate(false, 100, 3, today))
	assert.Equal(t, InitialLoadPartitionDate(100, today), PartitionDate(true, 100, 3, today))
}

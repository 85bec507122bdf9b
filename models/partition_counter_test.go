package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestPartitionCounterSnapshot(t *testing.T) {
	var active datatypes.JSONMap
	require.NoError(t, json.Unmarshal([]byte(`{"job_a_0": 0, "job_b_1": 4}`), &active))

	p := &PartitionCounter{PartitionDate: "2025-03-09", JobCounter: 5, ActiveJobs: active}
	s, err := p.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "2025-03-09", s.PartitionDate)
	assert.Equal(t, int64(5), s.JobCounter)
	assert.True(t, s.HasActiveJobs)
	assert.Equal(t, map[string]int64{"job_a_0": 0, "job_b_1": 4}, s.ActiveJobs)
}

func TestPartitionCounterSnapshotWithoutActiveJobs(t *testing.T) {
	s, err := (&PartitionCounter{PartitionDate: "2025-03-09", JobCounter: 2}).Snapshot()
	require.NoError(t, err)
	assert.False(t, s.HasActiveJobs)
	assert.Empty(t, s.ActiveJobs)
}

func TestPartitionCounterSnapshotRejectsNonNumericOrder(t *testing.T) {
	p := &PartitionCounter{ActiveJobs: datatypes.JSONMap{"job": "zero"}}
	_, err := p.Snapshot()
	assert.Error(t, err)
}

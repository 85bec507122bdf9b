package businessflow

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerSnapshot(t *testing.T) {
	tr := NewTracker("run-1", "local", 7)
	assert.Equal(t, JobStateStarting, tr.Snapshot().State)

	tr.SetPartition("2025-03-11", 4)
	tr.SetThreadPhase(2, ThreadPhaseGenerating)
	tr.SetThreadRows(1, 100, 3)
	tr.TableBuilt(1)
	tr.UploadFinished(1, true)
	tr.UploadFinished(1, false)
	tr.ThreadFailed(2, errors.New("disk full"))

	s := tr.Snapshot()
	assert.Equal(t, JobStateAssigned, s.State)
	assert.Equal(t, int64(4), s.PartitionOrder)
	require.Len(t, s.Threads, 2)
	assert.Equal(t, ThreadProgress{ThreadID: 1, Phase: ThreadPhasePending, Rows: 100, Chargebacks: 3, TablesBuilt: 1, UploadsDone: 1, UploadsFailed: 1}, s.Threads[0])
	assert.Equal(t, ThreadPhaseFailed, s.Threads[1].Phase)
	assert.Equal(t, "disk full", s.Threads[1].Error)
	assert.False(t, s.UpdatedAt.Before(s.StartedAt))

	// snapshots are copies
	s.Threads[0].Rows = 0
	assert.Equal(t, 100, tr.Snapshot().Threads[0].Rows)
}

func TestTrackerJSON(t *testing.T) {
	tr := NewTracker("run-1", "local", 0)
	tr.SetState(JobStateFailed, errors.New("no credentials"))

	data, err := json.Marshal(tr.Snapshot())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "failed", decoded["state"])
	assert.Equal(t, "no credentials", decoded["error"])
	assert.NotContains(t, decoded, "partition_date")
}

func TestNilTrackerIsNoop(t *testing.T) {
	var tr *Tracker
	assert.NotPanics(t, func() {
		tr.SetPartition("2025-03-11", 1)
		tr.SetState(JobStateGenerating, nil)
		tr.SetThreadPhase(1, ThreadPhaseUploading)
		tr.TableBuilt(1)
		tr.UploadFinished(1, true)
		tr.ThreadFailed(1, errors.New("x"))
	})
}

func TestTrackerConcurrentUpdates(t *testing.T) {
	tr := NewTracker("run-1", "local", 0)
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tr.TableBuilt(i%3 + 1)
			_ = tr.Snapshot()
		}(i)
	}
	wg.Wait()

	var total int
	for _, p := range tr.Snapshot().Threads {
		total += p.TablesBuilt
	}
	assert.Equal(t, 100, total)
}

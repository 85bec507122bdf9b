package businessflow

import (
	"sort"
	"sync"
	"time"

	"github.com/amirphl/card-transactions-generator/utils"
)

// Job states reported by the tracker
const (
	JobStateStarting   = "starting"
	JobStateAssigned   = "assigned"
	JobStateGenerating = "generating"
	JobStateCompleted  = "completed"
	JobStateFailed     = "failed"
)

// Thread phases reported by the tracker
const (
	ThreadPhasePending       = "pending"
	ThreadPhaseReferencePool = "reference_pool"
	ThreadPhaseGenerating    = "generating"
	ThreadPhaseUploading     = "uploading"
	ThreadPhaseSucceeded     = "succeeded"
	ThreadPhaseFailed        = "failed"
)

// ThreadProgress is the live state of one worker thread
type ThreadProgress struct {
	ThreadID      int    `json:"thread_id"`
	Phase         string `json:"phase"`
	Rows          int    `json:"rows"`
	Chargebacks   int    `json:"chargebacks"`
	TablesBuilt   int    `json:"tables_built"`
	UploadsDone   int    `json:"uploads_done"`
	UploadsFailed int    `json:"uploads_failed"`
	Error         string `json:"error,omitempty"`
}

// JobStatus is a point-in-time copy of a job's progress
type JobStatus struct {
	RunID          string           `json:"run_id"`
	JobID          string           `json:"job_id"`
	JobIndex       int              `json:"job_index"`
	State          string           `json:"state"`
	PartitionDate  string           `json:"partition_date,omitempty"`
	PartitionOrder int64            `json:"partition_order"`
	StartedAt      time.Time        `json:"started_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Error          string           `json:"error,omitempty"`
	Threads        []ThreadProgress `json:"threads"`
}

// Tracker records job progress for the status endpoint. Safe for concurrent use.
type Tracker struct {
	mu      sync.RWMutex
	status  JobStatus
	threads map[int]*ThreadProgress
}

// NewTracker creates a tracker in the starting state
func NewTracker(runID, jobID string, jobIndex int) *Tracker {
	now := utils.UTCNow()
	return &Tracker{
		status: JobStatus{
			RunID:     runID,
			JobID:     jobID,
			JobIndex:  jobIndex,
			State:     JobStateStarting,
			StartedAt: now,
			UpdatedAt: now,
		},
		threads: make(map[int]*ThreadProgress),
	}
}

func (t *Tracker) update(fn func()) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
	t.status.UpdatedAt = utils.UTCNow()
}

func (t *Tracker) thread(id int) *ThreadProgress {
	p, ok := t.threads[id]
	if !ok {
		p = &ThreadProgress{ThreadID: id, Phase: ThreadPhasePending}
		t.threads[id] = p
	}
	return p
}

func (t *Tracker) SetPartition(date string, order int64) {
	t.update(func() {
		t.status.PartitionDate = date
		t.status.PartitionOrder = order
		t.status.State = JobStateAssigned
	})
}

func (t *Tracker) SetState(state string, err error) {
	t.update(func() {
		t.status.State = state
		if err != nil {
			t.status.Error = err.Error()
		}
	})
}

func (t *Tracker) SetThreadPhase(id int, phase string) {
	t.update(func() { t.thread(id).Phase = phase })
}

func (t *Tracker) SetThreadRows(id, rows, chargebacks int) {
	t.update(func() {
		p := t.thread(id)
		p.Rows = rows
		p.Chargebacks = chargebacks
	})
}

func (t *Tracker) TableBuilt(id int) {
	t.update(func() { t.thread(id).TablesBuilt++ })
}

func (t *Tracker) UploadFinished(id int, ok bool) {
	t.update(func() {
		p := t.thread(id)
		if ok {
			p.UploadsDone++
		} else {
			p.UploadsFailed++
		}
	})
}

func (t *Tracker) ThreadFailed(id int, err error) {
	t.update(func() {
		p := t.thread(id)
		p.Phase = ThreadPhaseFailed
		p.Error = err.Error()
	})
}

// Snapshot returns a copy with threads ordered by id
func (t *Tracker) Snapshot() JobStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := t.status
	s.Threads = make([]ThreadProgress, 0, len(t.threads))
	for _, p := range t.threads {
		s.Threads = append(s.Threads, *p)
	}
	sort.Slice(s.Threads, func(i, j int) bool { return s.Threads[i].ThreadID < s.Threads[j].ThreadID })
	return s
}

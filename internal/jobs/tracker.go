package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle position of a background job
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Job records one fire-and-forget background scan. Completion is not
// awaited by the request that triggered it, but the record stays queryable
// for the life of the process.
type Job struct {
	ID         string     `json:"id"`
	Source     string     `json:"source,omitempty"`
	State      State      `json:"state"`
	Claims     int        `json:"claims"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Tracker holds background job records behind a mutex
type Tracker struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
}

// NewTracker creates an empty job tracker
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*Job)}
}

// Begin registers a new running job and returns its id
func (t *Tracker) Begin(source string) string {
	id := uuid.New().String()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.jobs[id] = &Job{
		ID:        id,
		Source:    source,
		State:     StateRunning,
		StartedAt: time.Now().UTC(),
	}
	t.order = append(t.order, id)
	return id
}

// Finish marks a job done or failed and records how many claims it added
func (t *Tracker) Finish(id string, claims int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	job.FinishedAt = &now
	job.Claims = claims
	if err != nil {
		job.State = StateFailed
		job.Error = err.Error()
	} else {
		job.State = StateDone
	}
}

// Snapshot returns copies of all job records in start order
func (t *Tracker) Snapshot() []Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Job, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.jobs[id])
	}
	return out
}

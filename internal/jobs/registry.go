package jobs

import (
	"fmt"
	"sync"

	"github.com/vibecut/daemon/internal/domain"
)

// Handler is the contract every pipeline stage must implement.
// Type() must exactly match the JobType stored on a job row; Run
// performs the stage's work using only the RunContext it is given to
// report progress, failure, or success.
type Handler interface {
	Type() domain.JobType
	Run(rc *RunContext) error
}

// Registry is the concurrency-safe job_type -> Handler dispatch table.
// It is the only place job_type binds to code: the scheduler never
// imports a pipeline package directly, only the registry.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.JobType]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[domain.JobType]Handler)}
}

// Register adds a handler, failing fast on a nil handler, an empty
// Type(), or a duplicate registration — all of which indicate a
// wiring error, not a runtime condition to tolerate.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("jobs: nil handler")
	}
	t := h.Type()
	if t == "" {
		return fmt.Errorf("jobs: handler Type() is empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[t]; exists {
		return fmt.Errorf("jobs: handler already registered for job_type=%s", t)
	}
	r.handlers[t] = h
	return nil
}

func (r *Registry) Get(jobType domain.JobType) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[jobType]
	return h, ok
}

// Package job persists export job records.
package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kailas-cloud/leadex/internal/domain"
	domjob "github.com/kailas-cloud/leadex/internal/domain/export/job"
)

var errDuplicateJob = errors.New("job already exists")

// MemoryStore keeps jobs in process memory. Records do not survive a restart.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]domjob.Job
	now  func() time.Time
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]domjob.Job), now: time.Now}
}

// Create stores a new job. Reusing an id is an error.
func (s *MemoryStore) Create(_ context.Context, j domjob.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.jobs[j.ID]; dup {
		return fmt.Errorf("create job %s: %w", j.ID, errDuplicateJob)
	}
	s.jobs[j.ID] = j
	return nil
}

// Update applies a patch and returns the updated job.
func (s *MemoryStore) Update(_ context.Context, id string, p domjob.Patch) (domjob.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return domjob.Job{}, domain.ErrJobNotFound
	}
	j = j.Apply(p, s.now())
	s.jobs[id] = j
	return j, nil
}

// Get returns a copy of the job.
func (s *MemoryStore) Get(_ context.Context, id string) (domjob.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return domjob.Job{}, domain.ErrJobNotFound
	}
	return j, nil
}

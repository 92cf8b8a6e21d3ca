package repository

import (
	"context"
	"sync"

	"resume-renderer/internal/domain"

	"github.com/google/uuid"
)

// MemoryRepo keeps render jobs in process. Used when no database is
// configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]domain.RenderJob
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: map[uuid.UUID]domain.RenderJob{}}
}

func (r *MemoryRepo) Save(_ context.Context, j *domain.RenderJob) error {
	cp := *j
	cp.Metadata = make(map[string]interface{}, len(j.Metadata))
	for k, v := range j.Metadata {
		cp.Metadata[k] = v
	}

	r.mu.Lock()
	r.jobs[j.ID] = cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	r.mu.RLock()
	j, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return &j, nil
}

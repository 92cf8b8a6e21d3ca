package usecase

import (
	"context"
	"errors"

	"resume-renderer/internal/domain"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("render queue full")

// Queue feeds background jobs to a Processor one by one. Jobs wait for the
// render gate rather than being rejected.
type Queue struct {
	p    *Processor
	jobs chan *domain.RenderJob
	log  zerolog.Logger
}

func NewQueue(p *Processor, size int, log zerolog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{p: p, jobs: make(chan *domain.RenderJob, size), log: log}
}

func (q *Queue) Enqueue(job *domain.RenderJob) error {
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run processes jobs until ctx is done.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			if _, err := q.p.ProcessQueued(ctx, job); err != nil {
				q.log.Error().Err(err).Str("job_id", job.ID.String()).Msg("job failed")
			}
		}
	}
}

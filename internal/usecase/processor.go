package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-renderer/internal/compose"
	"resume-renderer/internal/domain"
	"resume-renderer/internal/inspect"
	"resume-renderer/internal/labels"
	"resume-renderer/internal/layout"
	"resume-renderer/internal/model"

	"github.com/rs/zerolog"
)

var ErrUnknownBackend = errors.New("unknown backend")

type JobsRepo interface {
	Save(ctx context.Context, j *domain.RenderJob) error
}

// Cache holds composed documents by CacheKey.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, b []byte) error
}

// Store keeps produced documents and returns where they can be fetched.
type Store interface {
	Put(ctx context.Context, key string, b []byte, contentType string) (string, error)
}

type Options struct {
	Page     compose.PageSize
	Attempts int
	Backoff  time.Duration
}

func DefaultOptions() Options {
	return Options{Page: compose.A4, Attempts: 3, Backoff: time.Second}
}

// Result is a completed render.
type Result struct {
	PDF      []byte
	FileName string
	Pages    int
	Cached   bool
	Location string
}

// Processor runs render jobs one at a time. repo, cache and store may be nil.
type Processor struct {
	compositors map[compose.Backend]compose.Compositor
	repo        JobsRepo
	cache       Cache
	store       Store
	gate        *Gate
	opts        Options
	log         zerolog.Logger
}

func NewProcessor(compositors map[compose.Backend]compose.Compositor, repo JobsRepo, cache Cache, store Store, opts Options, log zerolog.Logger) *Processor {
	if opts.Attempts < 1 {
		opts.Attempts = 1
	}
	if opts.Page.WidthMM == 0 {
		opts.Page = compose.A4
	}
	return &Processor{
		compositors: compositors,
		repo:        repo,
		cache:       cache,
		store:       store,
		gate:        NewGate(),
		opts:        opts,
		log:         log,
	}
}

func (p *Processor) Gate() *Gate { return p.gate }

// Render builds a job for doc and processes it, rejecting when busy.
func (p *Processor) Render(ctx context.Context, doc model.ResumeDocument, l labels.Labels, backend compose.Backend) (*domain.RenderJob, Result, error) {
	job := domain.NewRenderJob(doc, l, string(backend))
	res, err := p.Process(ctx, job)
	return job, res, err
}

// Process renders job, failing with ErrRenderInProgress if another render
// holds the gate.
func (p *Processor) Process(ctx context.Context, job *domain.RenderJob) (Result, error) {
	if err := p.gate.Begin(); err != nil {
		return Result{}, err
	}
	return p.run(ctx, job)
}

// ProcessQueued waits for the gate instead of rejecting.
func (p *Processor) ProcessQueued(ctx context.Context, job *domain.RenderJob) (Result, error) {
	if err := p.gate.Acquire(ctx); err != nil {
		return Result{}, err
	}
	return p.run(ctx, job)
}

// run must be entered holding the gate.
func (p *Processor) run(ctx context.Context, job *domain.RenderJob) (res Result, err error) {
	defer func() { p.gate.End(err) }()

	start := time.Now()
	if job.Metadata == nil {
		job.Metadata = map[string]interface{}{}
	}
	log := p.log.With().Str("job_id", job.ID.String()).Str("backend", job.Backend).Logger()

	defer func() {
		var ev *zerolog.Event
		if err != nil {
			p.fail(ctx, job, err)
			ev = log.Error().Err(err)
		} else {
			ev = log.Info()
		}
		ev.Dur("duration", time.Since(start)).
			Str("status", string(job.Status)).
			Bool("cached", res.Cached).
			Int("pages", res.Pages).
			Msg("render finished")
	}()

	backend, err := compose.ParseBackend(job.Backend)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownBackend, job.Backend)
	}
	c, ok := p.compositors[backend]
	if !ok || c == nil {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	job.Backend = string(backend)

	job.Status = domain.StatusRendering
	job.FileName = job.Document.FileName()
	job.UpdatedAt = time.Now()
	p.save(ctx, job, log)

	if job.Document.IsEmpty() {
		log.Warn().Msg("empty document, rendering header only")
	}
	blocks := layout.Build(job.Document, job.Labels)
	log.Debug().Int("blocks", len(blocks)).Msg("layout built")

	key, err := CacheKey(c.Fingerprint(), p.opts.Page, blocks)
	if err != nil {
		return Result{}, err
	}
	pdf, cached := p.lookup(ctx, key, log)
	if !cached {
		if pdf, err = p.compose(ctx, c, blocks, log); err != nil {
			return Result{}, err
		}
	}

	pages, err := inspect.Verify(pdf)
	if err != nil {
		return Result{}, fmt.Errorf("verify output: %w", err)
	}
	if !cached && p.cache != nil {
		if err := p.cache.Set(ctx, key, pdf); err != nil {
			log.Warn().Err(err).Msg("cache fill failed")
		}
	}

	res = Result{PDF: pdf, FileName: job.FileName, Pages: pages, Cached: cached}
	if p.store != nil {
		artifact := ArtifactKey(job)
		loc, err := p.store.Put(ctx, artifact, pdf, "application/pdf")
		if err != nil {
			return Result{}, fmt.Errorf("store artifact: %w", err)
		}
		job.ArtifactKey = artifact
		res.Location = loc
		job.Metadata["location"] = loc
	}

	job.Status = domain.StatusCompleted
	job.Error = ""
	job.PageCount = pages
	job.SizeBytes = len(pdf)
	job.Metadata["cached"] = cached
	job.Metadata["blocks"] = len(blocks)
	job.Metadata["duration_ms"] = time.Since(start).Milliseconds()
	job.UpdatedAt = time.Now()

	if p.repo != nil {
		if err := p.repo.Save(ctx, job); err != nil {
			return Result{}, fmt.Errorf("save job: %w", err)
		}
	}
	return res, nil
}

// compose retries capture failures with exponential backoff. Other errors,
// including a missing render target, return immediately.
func (p *Processor) compose(ctx context.Context, c compose.Compositor, blocks []layout.Block, log zerolog.Logger) ([]byte, error) {
	var lastErr error
	for i := 0; i < p.opts.Attempts; i++ {
		b, err := c.Compose(ctx, blocks, p.opts.Page)
		if err == nil {
			return b, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i+1).Msg("render attempt failed")
		if !compose.Retryable(err) {
			return nil, err
		}
		if i < p.opts.Attempts-1 {
			backoff := time.Duration(1<<i) * p.opts.Backoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("rendering failed after %d attempts: %w", p.opts.Attempts, lastErr)
}

func (p *Processor) lookup(ctx context.Context, key string, log zerolog.Logger) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	b, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("cache lookup failed")
		return nil, false
	}
	return b, ok
}

func (p *Processor) fail(ctx context.Context, job *domain.RenderJob, err error) {
	job.Status = domain.StatusFailed
	job.Error = err.Error()
	job.UpdatedAt = time.Now()
	p.save(context.WithoutCancel(ctx), job, p.log)
}

// save persists job best-effort.
func (p *Processor) save(ctx context.Context, job *domain.RenderJob, log zerolog.Logger) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Save(ctx, job); err != nil {
		log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to save job")
	}
}

// ArtifactKey is the object key of a job's document.
func ArtifactKey(job *domain.RenderJob) string {
	return "renders/" + job.ID.String() + "/" + job.FileName
}

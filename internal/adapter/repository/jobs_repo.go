package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"resume-renderer/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var ErrJobNotFound = errors.New("render job not found")

// JobsRepo stores render jobs in Postgres. A nil pool makes every call a
// no-op, and Get reports ErrJobNotFound.
type JobsRepo struct {
	pool *pgxpool.Pool
}

func NewJobsRepo(pool *pgxpool.Pool) *JobsRepo {
	return &JobsRepo{pool: pool}
}

func (r *JobsRepo) Save(ctx context.Context, j *domain.RenderJob) error {
	if r.pool == nil {
		return nil
	}

	metaB, err := json.Marshal(j.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO render_jobs (id, file_name, backend, language, status, error, page_count, size_bytes, artifact_key, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET file_name = EXCLUDED.file_name, backend = EXCLUDED.backend, language = EXCLUDED.language, status = EXCLUDED.status, error = EXCLUDED.error, page_count = EXCLUDED.page_count, size_bytes = EXCLUDED.size_bytes, artifact_key = EXCLUDED.artifact_key, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		j.ID, j.FileName, j.Backend, j.Language, string(j.Status), j.Error, j.PageCount, j.SizeBytes, j.ArtifactKey, metaB, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert render job %s: %w", j.ID, err)
	}
	return nil
}

func (r *JobsRepo) Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error) {
	if r.pool == nil {
		return nil, ErrJobNotFound
	}

	var (
		j      domain.RenderJob
		status string
		metaB  []byte
	)
	err := r.pool.QueryRow(ctx, `SELECT id, file_name, backend, language, status, error, page_count, size_bytes, artifact_key, metadata, created_at, updated_at
		FROM render_jobs WHERE id = $1`, id).
		Scan(&j.ID, &j.FileName, &j.Backend, &j.Language, &status, &j.Error, &j.PageCount, &j.SizeBytes, &j.ArtifactKey, &metaB, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get render job %s: %w", id, err)
	}
	j.Status = domain.JobStatus(status)
	if len(metaB) > 0 {
		if err := json.Unmarshal(metaB, &j.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &j, nil
}

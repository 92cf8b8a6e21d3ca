package domain

import (
	"time"

	"resume-renderer/internal/labels"
	"resume-renderer/internal/model"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// RenderJob tracks one document render. Document and Labels are inputs and
// are not persisted.
type RenderJob struct {
	ID          uuid.UUID              `json:"id"`
	FileName    string                 `json:"file_name"`
	Backend     string                 `json:"backend"`
	Language    string                 `json:"language"`
	Status      JobStatus              `json:"status"`
	Error       string                 `json:"error,omitempty"`
	PageCount   int                    `json:"page_count"`
	SizeBytes   int                    `json:"size_bytes"`
	ArtifactKey string                 `json:"artifact_key,omitempty"`
	Metadata    map[string]interface{} `json:"metadata"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`

	Document model.ResumeDocument `json:"-"`
	Labels   labels.Labels        `json:"-"`
}

func NewRenderJob(doc model.ResumeDocument, l labels.Labels, backend string) *RenderJob {
	now := time.Now()
	return &RenderJob{
		ID:        uuid.New(),
		FileName:  doc.FileName(),
		Backend:   backend,
		Language:  l.Language,
		Status:    StatusPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
		Document:  doc,
		Labels:    l,
	}
}

// Finished reports whether the job reached a terminal status.
func (j *RenderJob) Finished() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

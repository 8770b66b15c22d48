package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Import job statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Job tracks one uploaded price list through the import pipeline.
type Job struct {
	ID           uuid.UUID
	FileName     string
	FileKey      string
	Status       string
	RowsImported int
	RowsSkipped  int
	Error        string
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines persistence for import jobs.
type Repository interface {
	Create(ctx context.Context, job Job) error
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	List(ctx context.Context, limit int) ([]Job, error)
	MarkRunning(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, rowsImported, rowsSkipped int) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

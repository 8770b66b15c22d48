package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/platform/apperr"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new import jobs repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Create inserts a new pending job.
func (r *Repo) Create(ctx context.Context, job Job) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO import_jobs (id, file_name, file_key, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())`,
		job.ID, job.FileName, job.FileKey, StatusPending, job.CreatedBy)
	if err != nil {
		return fmt.Errorf("create import job: %w", err)
	}
	return nil
}

// GetByID retrieves a job.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Job, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, file_name, file_key, status, rows_imported, rows_skipped,
		       error, created_by, created_at, updated_at
		FROM import_jobs
		WHERE id = $1`, id)

	var job Job
	err := row.Scan(&job.ID, &job.FileName, &job.FileKey, &job.Status,
		&job.RowsImported, &job.RowsSkipped, &job.Error, &job.CreatedBy,
		&job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, apperr.NotFound("import job not found")
	}
	if err != nil {
		return Job{}, fmt.Errorf("get import job: %w", err)
	}
	return job, nil
}

// List retrieves the most recent jobs.
func (r *Repo) List(ctx context.Context, limit int) ([]Job, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, file_name, file_key, status, rows_imported, rows_skipped,
		       error, created_by, created_at, updated_at
		FROM import_jobs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]Job, 0)
	for rows.Next() {
		var job Job
		err := rows.Scan(&job.ID, &job.FileName, &job.FileKey, &job.Status,
			&job.RowsImported, &job.RowsSkipped, &job.Error, &job.CreatedBy,
			&job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan import job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import jobs: %w", err)
	}
	return jobs, nil
}

// MarkRunning transitions a job to running.
func (r *Repo) MarkRunning(ctx context.Context, id uuid.UUID) error {
	return r.setStatus(ctx, id, `
		UPDATE import_jobs SET status = $2, updated_at = now() WHERE id = $1`,
		StatusRunning)
}

// MarkCompleted records the import counts and completes the job.
func (r *Repo) MarkCompleted(ctx context.Context, id uuid.UUID, rowsImported, rowsSkipped int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_jobs
		SET status = $2, rows_imported = $3, rows_skipped = $4, updated_at = now()
		WHERE id = $1`,
		id, StatusCompleted, rowsImported, rowsSkipped)
	if err != nil {
		return fmt.Errorf("complete import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("import job not found")
	}
	return nil
}

// MarkFailed records the failure reason.
func (r *Repo) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE import_jobs
		SET status = $2, error = $3, updated_at = now()
		WHERE id = $1`,
		id, StatusFailed, reason)
	if err != nil {
		return fmt.Errorf("fail import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("import job not found")
	}
	return nil
}

func (r *Repo) setStatus(ctx context.Context, id uuid.UUID, query, status string) error {
	tag, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update import job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("import job not found")
	}
	return nil
}

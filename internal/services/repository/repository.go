package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/platform/apperr"
)

const serviceNotFoundMessage = "service not found"

// Repo implements the Repository interface with PostgreSQL. The cost
// breakdown is stored as jsonb since its component names are free-form.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new decoration services repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a service by its stable slug ID.
func (r *Repo) GetByID(ctx context.Context, id string) (ServiceRecord, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, kind, name, price, cost_breakdown, total_cost, created_at, updated_at
		FROM decoration_services
		WHERE id = $1`, id)

	record, err := scanService(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceRecord{}, apperr.NotFound(serviceNotFoundMessage)
		}
		return ServiceRecord{}, fmt.Errorf("get service by id: %w", err)
	}
	return record, nil
}

// List retrieves services, optionally filtered by kind, ordered by name.
func (r *Repo) List(ctx context.Context, kind string) ([]ServiceRecord, error) {
	query := `
		SELECT id, kind, name, price, cost_breakdown, total_cost, created_at, updated_at
		FROM decoration_services`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY kind, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	var out []ServiceRecord
	for rows.Next() {
		record, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

// Upsert creates or replaces a service keyed by its slug ID.
func (r *Repo) Upsert(ctx context.Context, params UpsertParams) (ServiceRecord, error) {
	breakdown, err := json.Marshal(params.CostBreakdown)
	if err != nil {
		return ServiceRecord{}, fmt.Errorf("marshal cost breakdown: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO decoration_services (id, kind, name, price, cost_breakdown, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET kind = EXCLUDED.kind,
		    name = EXCLUDED.name,
		    price = EXCLUDED.price,
		    cost_breakdown = EXCLUDED.cost_breakdown,
		    total_cost = EXCLUDED.total_cost,
		    updated_at = now()
		RETURNING id, kind, name, price, cost_breakdown, total_cost, created_at, updated_at`,
		params.ID, params.Kind, params.Name, params.Price, breakdown, params.TotalCost)

	record, err := scanService(row)
	if err != nil {
		return ServiceRecord{}, fmt.Errorf("upsert service: %w", err)
	}
	return record, nil
}

// Delete removes a service.
func (r *Repo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM decoration_services WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(serviceNotFoundMessage)
	}
	return nil
}

func scanService(row pgx.Row) (ServiceRecord, error) {
	var (
		record               ServiceRecord
		breakdown            []byte
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&record.ID, &record.Kind, &record.Name, &record.Price, &breakdown, &record.TotalCost, &createdAt, &updatedAt)
	if err != nil {
		return ServiceRecord{}, err
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &record.CostBreakdown); err != nil {
			return ServiceRecord{}, fmt.Errorf("unmarshal cost breakdown: %w", err)
		}
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new pricing policy repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetBrackets retrieves all discount brackets in saved order.
func (r *Repo) GetBrackets(ctx context.Context) ([]BracketRow, error) {
	query := `
		SELECT position, min_quantity, max_quantity, discount_percent
		FROM discount_brackets
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list discount brackets: %w", err)
	}
	defer rows.Close()

	var out []BracketRow
	for rows.Next() {
		var b BracketRow
		if err := rows.Scan(&b.Position, &b.Min, &b.Max, &b.DiscountPercent); err != nil {
			return nil, fmt.Errorf("scan discount bracket: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discount brackets: %w", err)
	}

	return out, nil
}

// ReplaceBrackets deletes every bracket and inserts the given rows in one
// transaction so readers never observe a partial policy.
func (r *Repo) ReplaceBrackets(ctx context.Context, rows []BracketRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace brackets: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM discount_brackets`); err != nil {
		return fmt.Errorf("clear discount brackets: %w", err)
	}

	for i, row := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO discount_brackets (position, min_quantity, max_quantity, discount_percent)
			VALUES ($1, $2, $3, $4)`,
			i, row.Min, row.Max, row.DiscountPercent,
		)
		if err != nil {
			return fmt.Errorf("insert discount bracket: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace brackets: %w", err)
	}
	return nil
}

// GetMarkup retrieves the global markup percentage. Returns ErrNoMarkup when
// no row has been saved yet.
func (r *Repo) GetMarkup(ctx context.Context) (float64, error) {
	var pct float64
	err := r.pool.QueryRow(ctx, `SELECT percentage FROM markup_policy WHERE id = 1`).Scan(&pct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoMarkup
		}
		return 0, fmt.Errorf("get markup policy: %w", err)
	}
	return pct, nil
}

// SetMarkup upserts the single markup row.
func (r *Repo) SetMarkup(ctx context.Context, percentage float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO markup_policy (id, percentage) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = now()`,
		percentage,
	)
	if err != nil {
		return fmt.Errorf("set markup policy: %w", err)
	}
	return nil
}

// ErrNoMarkup signals that the markup row has never been saved.
var ErrNoMarkup = errors.New("markup policy not set")

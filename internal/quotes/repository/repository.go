package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/platform/apperr"
)

const quoteNotFoundMessage = "quote not found"

// Repo implements the Repository interface with PostgreSQL. Line items are
// stored one row per item as jsonb so the priced snapshot survives later
// catalog and policy changes untouched.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quotes repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// Save upserts the quote header and replaces its line items atomically.
// Saving an existing ID overwrites the previous snapshot.
func (r *Repo) Save(ctx context.Context, quote Quote) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save quote: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quotes (
			id, reference, customer_name, customer_email, customer_phone,
			notes, terms, vat_registered, vat_rate, status, total_price,
			valid_until, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			reference = EXCLUDED.reference,
			customer_name = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			customer_phone = EXCLUDED.customer_phone,
			notes = EXCLUDED.notes,
			terms = EXCLUDED.terms,
			vat_registered = EXCLUDED.vat_registered,
			vat_rate = EXCLUDED.vat_rate,
			status = EXCLUDED.status,
			total_price = EXCLUDED.total_price,
			valid_until = EXCLUDED.valid_until,
			updated_at = now()`,
		quote.ID, quote.Reference, quote.CustomerName, quote.CustomerEmail,
		quote.CustomerPhone, quote.Notes, quote.Terms, quote.VATRegistered,
		quote.VATRate, quote.Status, quote.TotalPrice, quote.ValidUntil,
		quote.CreatedBy)
	if err != nil {
		return fmt.Errorf("upsert quote: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quote_line_items WHERE quote_id = $1`, quote.ID); err != nil {
		return fmt.Errorf("clear quote line items: %w", err)
	}

	for position, item := range quote.Items {
		payload, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode line item: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO quote_line_items (id, quote_id, position, payload)
			VALUES ($1, $2, $3, $4)`,
			item.ID, quote.ID, position, payload)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save quote: %w", err)
	}
	return nil
}

// GetByID retrieves a quote with its line items.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Quote, error) {
	return r.getBy(ctx, `WHERE id = $1`, id)
}

// GetByPublicToken retrieves a quote by its customer-facing link token.
func (r *Repo) GetByPublicToken(ctx context.Context, token string) (Quote, error) {
	return r.getBy(ctx, `WHERE public_token = $1`, token)
}

func (r *Repo) getBy(ctx context.Context, where string, arg any) (Quote, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, reference, customer_name, customer_email, customer_phone,
		       notes, terms, vat_registered, vat_rate, status, total_price,
		       valid_until, public_token, sent_at, viewed_at, created_by,
		       created_at, updated_at
		FROM quotes `+where, arg)

	var q Quote
	err := row.Scan(&q.ID, &q.Reference, &q.CustomerName, &q.CustomerEmail,
		&q.CustomerPhone, &q.Notes, &q.Terms, &q.VATRegistered, &q.VATRate,
		&q.Status, &q.TotalPrice, &q.ValidUntil, &q.PublicToken, &q.SentAt,
		&q.ViewedAt, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, apperr.NotFound(quoteNotFoundMessage)
	}
	if err != nil {
		return Quote{}, fmt.Errorf("get quote: %w", err)
	}

	items, err := r.lineItems(ctx, q.ID)
	if err != nil {
		return Quote{}, err
	}
	q.Items = items
	return q, nil
}

func (r *Repo) lineItems(ctx context.Context, quoteID uuid.UUID) ([]engine.LineItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload
		FROM quote_line_items
		WHERE quote_id = $1
		ORDER BY position`, quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote line items: %w", err)
	}
	defer rows.Close()

	items := make([]engine.LineItem, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		var item engine.LineItem
		if err := json.Unmarshal(payload, &item); err != nil {
			return nil, fmt.Errorf("decode line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

// List retrieves quote summaries newest first, with the total match count.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Summary, int, error) {
	where := ``
	args := []any{}
	if filters.Status != "" {
		where = ` WHERE status = $1`
		args = append(args, filters.Status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	query := `
		SELECT q.id, q.reference, q.customer_name, q.customer_email, q.status,
		       q.total_price, q.valid_until,
		       (SELECT COUNT(*) FROM quote_line_items li WHERE li.quote_id = q.id),
		       q.created_at, q.updated_at
		FROM quotes q` + where + `
		ORDER BY q.updated_at DESC`
	query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	summaries := make([]Summary, 0)
	for rows.Next() {
		var s Summary
		err := rows.Scan(&s.ID, &s.Reference, &s.CustomerName, &s.CustomerEmail,
			&s.Status, &s.TotalPrice, &s.ValidUntil, &s.LineItemCount,
			&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate quotes: %w", err)
	}
	return summaries, total, nil
}

// MarkSent records the public token and send time, and moves the quote to
// the sent status.
func (r *Repo) MarkSent(ctx context.Context, id uuid.UUID, token string, validUntil time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotes
		SET status = $2, public_token = $3, sent_at = now(),
		    valid_until = $4, updated_at = now()
		WHERE id = $1`,
		id, StatusSent, token, validUntil)
	if err != nil {
		return fmt.Errorf("mark quote sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMessage)
	}
	return nil
}

// MarkViewed records the first customer view. Later views keep the original
// viewed_at timestamp.
func (r *Repo) MarkViewed(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE quotes
		SET status = $2, viewed_at = COALESCE(viewed_at, now()), updated_at = now()
		WHERE id = $1`,
		id, StatusViewed)
	if err != nil {
		return fmt.Errorf("mark quote viewed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMessage)
	}
	return nil
}

// Delete removes a quote and its line items.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMessage)
	}
	return nil
}

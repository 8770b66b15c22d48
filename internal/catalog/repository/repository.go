package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/platform/apperr"
)

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const productColumns = `id, style_no, supplier, product_group, category, product_name, size_range, colour_name, colour_code, base_price`

// List retrieves products matching the filters plus the unpaginated total.
func (r *Repo) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var (
		conditions []string
		args       []any
	)
	addEq := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addEq("supplier", filters.Supplier)
	addEq("product_group", filters.ProductGroup)
	addEq("category", filters.Category)
	addEq("colour_name", filters.Colour)
	addEq("size_range", filters.Size)
	if filters.Search != "" {
		args = append(args, "%"+strings.ToLower(filters.Search)+"%")
		idx := len(args)
		conditions = append(conditions, fmt.Sprintf("(LOWER(product_name) LIKE $%d OR LOWER(style_no) LIKE $%d)", idx, idx))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY supplier, product_group, product_name, colour_name, size_range`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.StyleNo, &p.Supplier, &p.ProductGroup, &p.Category, &p.ProductName, &p.SizeRange, &p.ColourName, &p.ColourCode, &p.BasePrice); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// GetByID retrieves one product variant.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.StyleNo, &p.Supplier, &p.ProductGroup, &p.Category, &p.ProductName, &p.SizeRange, &p.ColourName, &p.ColourCode, &p.BasePrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, apperr.NotFound("product not found")
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// DistinctValues retrieves the sorted distinct values of a filter column.
// The column comes from the FilterColumn whitelist, never caller input.
func (r *Repo) DistinctValues(ctx context.Context, column FilterColumn) ([]string, error) {
	switch column {
	case ColumnSupplier, ColumnProductGroup, ColumnCategory, ColumnColourName, ColumnSizeRange:
	default:
		return nil, apperr.BadRequest("unknown filter column")
	}

	query := fmt.Sprintf(`SELECT DISTINCT %s FROM products WHERE %s <> '' ORDER BY %s`, column, column, column)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan distinct value: %w", err)
		}
		out = append(out, value)
	}
	return out, rows.Err()
}

// Count returns the total number of catalog rows.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// ReplaceAll imports a new price list, replacing the previous catalog in one
// transaction. The batch insert uses pgx's CopyFrom for large sheets.
func (r *Repo) ReplaceAll(ctx context.Context, products []Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin catalog import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"products"},
		[]string{"id", "style_no", "supplier", "product_group", "category", "product_name", "size_range", "colour_name", "colour_code", "base_price"},
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]
			if p.ID == uuid.Nil {
				p.ID = uuid.New()
			}
			return []any{p.ID, p.StyleNo, p.Supplier, p.ProductGroup, p.Category, p.ProductName, p.SizeRange, p.ColourName, p.ColourCode, p.BasePrice}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("copy products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit catalog import: %w", err)
	}
	return nil
}

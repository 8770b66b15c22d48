package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"inkstitch_backend/platform/apperr"
)

const businessCostNotFoundMessage = "business cost not found"

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new cost settings repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListMachines retrieves all machines ordered by kind then name.
func (r *Repo) ListMachines(ctx context.Context) ([]Machine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, kind, wattage, description
		FROM machines
		ORDER BY kind, name`)
	if err != nil {
		return nil, fmt.Errorf("list machines: %w", err)
	}
	defer rows.Close()

	var out []Machine
	for rows.Next() {
		var m Machine
		if err := rows.Scan(&m.Name, &m.Kind, &m.Wattage, &m.Description); err != nil {
			return nil, fmt.Errorf("scan machine: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMachine retrieves a machine by name.
func (r *Repo) GetMachine(ctx context.Context, name string) (Machine, error) {
	var m Machine
	err := r.pool.QueryRow(ctx, `
		SELECT name, kind, wattage, description
		FROM machines
		WHERE name = $1`, name).Scan(&m.Name, &m.Kind, &m.Wattage, &m.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Machine{}, apperr.NotFound("machine not found")
		}
		return Machine{}, fmt.Errorf("get machine: %w", err)
	}
	return m, nil
}

// UpsertMachine creates or replaces a machine row keyed by name.
func (r *Repo) UpsertMachine(ctx context.Context, m Machine) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO machines (name, kind, wattage, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE
		SET kind = EXCLUDED.kind, wattage = EXCLUDED.wattage, description = EXCLUDED.description`,
		m.Name, m.Kind, m.Wattage, m.Description)
	if err != nil {
		return fmt.Errorf("upsert machine: %w", err)
	}
	return nil
}

// SetMachineWattage updates only the wattage of an existing machine.
func (r *Repo) SetMachineWattage(ctx context.Context, name string, wattage int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE machines SET wattage = $2 WHERE name = $1`, name, wattage)
	if err != nil {
		return fmt.Errorf("set machine wattage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("machine not found")
	}
	return nil
}

// GetElectricityRate retrieves the cost per kWh, 0 when never set.
func (r *Repo) GetElectricityRate(ctx context.Context) (float64, error) {
	var rate float64
	err := r.pool.QueryRow(ctx, `SELECT cost_per_kwh FROM electricity_rate WHERE id = 1`).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get electricity rate: %w", err)
	}
	return rate, nil
}

// SetElectricityRate upserts the single electricity rate row.
func (r *Repo) SetElectricityRate(ctx context.Context, costPerKWh float64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO electricity_rate (id, cost_per_kwh, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET cost_per_kwh = EXCLUDED.cost_per_kwh, updated_at = now()`,
		costPerKWh)
	if err != nil {
		return fmt.Errorf("set electricity rate: %w", err)
	}
	return nil
}

// ListProcessTimes retrieves all process durations.
func (r *Repo) ListProcessTimes(ctx context.Context) ([]ProcessTime, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT kind, name, minutes
		FROM process_times
		ORDER BY kind, name`)
	if err != nil {
		return nil, fmt.Errorf("list process times: %w", err)
	}
	defer rows.Close()

	var out []ProcessTime
	for rows.Next() {
		var pt ProcessTime
		if err := rows.Scan(&pt.Kind, &pt.Name, &pt.Minutes); err != nil {
			return nil, fmt.Errorf("scan process time: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// GetProcessTime retrieves one process duration, 0 when unknown.
func (r *Repo) GetProcessTime(ctx context.Context, kind, name string) (float64, error) {
	var minutes float64
	err := r.pool.QueryRow(ctx,
		`SELECT minutes FROM process_times WHERE kind = $1 AND name = $2`, kind, name).Scan(&minutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get process time: %w", err)
	}
	return minutes, nil
}

// UpsertProcessTime creates or replaces a process duration.
func (r *Repo) UpsertProcessTime(ctx context.Context, pt ProcessTime) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO process_times (kind, name, minutes) VALUES ($1, $2, $3)
		ON CONFLICT (kind, name) DO UPDATE SET minutes = EXCLUDED.minutes`,
		pt.Kind, pt.Name, pt.Minutes)
	if err != nil {
		return fmt.Errorf("upsert process time: %w", err)
	}
	return nil
}

// ListMaterialCosts retrieves all per-logo material costs.
func (r *Repo) ListMaterialCosts(ctx context.Context) ([]MaterialCost, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT material, logo_size, cost_per_logo
		FROM material_costs
		ORDER BY material, logo_size`)
	if err != nil {
		return nil, fmt.Errorf("list material costs: %w", err)
	}
	defer rows.Close()

	var out []MaterialCost
	for rows.Next() {
		var mc MaterialCost
		if err := rows.Scan(&mc.Material, &mc.LogoSize, &mc.CostPerLogo); err != nil {
			return nil, fmt.Errorf("scan material cost: %w", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// GetMaterialCost retrieves one per-logo cost, 0 when unknown.
func (r *Repo) GetMaterialCost(ctx context.Context, material, logoSize string) (float64, error) {
	var cost float64
	err := r.pool.QueryRow(ctx,
		`SELECT cost_per_logo FROM material_costs WHERE material = $1 AND logo_size = $2`,
		material, logoSize).Scan(&cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get material cost: %w", err)
	}
	return cost, nil
}

// ReplaceMaterialCosts deletes and reinserts the whole material cost table
// in one transaction.
func (r *Repo) ReplaceMaterialCosts(ctx context.Context, costs []MaterialCost) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace material costs: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM material_costs`); err != nil {
		return fmt.Errorf("clear material costs: %w", err)
	}
	for _, mc := range costs {
		_, err := tx.Exec(ctx, `
			INSERT INTO material_costs (material, logo_size, cost_per_logo)
			VALUES ($1, $2, $3)`,
			mc.Material, mc.LogoSize, mc.CostPerLogo)
		if err != nil {
			return fmt.Errorf("insert material cost: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace material costs: %w", err)
	}
	return nil
}

// ListBusinessCosts retrieves business costs, optionally filtered by category.
func (r *Repo) ListBusinessCosts(ctx context.Context, category string) ([]BusinessCost, error) {
	query := `
		SELECT id, category, name, amount, frequency, notes, created_at
		FROM business_costs`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list business costs: %w", err)
	}
	defer rows.Close()

	var out []BusinessCost
	for rows.Next() {
		var bc BusinessCost
		var createdAt time.Time
		if err := rows.Scan(&bc.ID, &bc.Category, &bc.Name, &bc.Amount, &bc.Frequency, &bc.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan business cost: %w", err)
		}
		bc.CreatedAt = createdAt.Format(time.RFC3339)
		out = append(out, bc)
	}
	return out, rows.Err()
}

// CreateBusinessCost records a new business cost.
func (r *Repo) CreateBusinessCost(ctx context.Context, params CreateBusinessCostParams) (BusinessCost, error) {
	id := uuid.New()
	var bc BusinessCost
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		INSERT INTO business_costs (id, category, name, amount, frequency, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, category, name, amount, frequency, notes, created_at`,
		id, params.Category, params.Name, params.Amount, params.Frequency, params.Notes,
	).Scan(&bc.ID, &bc.Category, &bc.Name, &bc.Amount, &bc.Frequency, &bc.Notes, &createdAt)
	if err != nil {
		return BusinessCost{}, fmt.Errorf("create business cost: %w", err)
	}
	bc.CreatedAt = createdAt.Format(time.RFC3339)
	return bc, nil
}

// UpdateBusinessCost applies partial updates to a business cost.
func (r *Repo) UpdateBusinessCost(ctx context.Context, params UpdateBusinessCostParams) (BusinessCost, error) {
	var bc BusinessCost
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		UPDATE business_costs
		SET category  = COALESCE($2, category),
		    name      = COALESCE($3, name),
		    amount    = COALESCE($4, amount),
		    frequency = COALESCE($5, frequency),
		    notes     = COALESCE($6, notes)
		WHERE id = $1
		RETURNING id, category, name, amount, frequency, notes, created_at`,
		params.ID, params.Category, params.Name, params.Amount, params.Frequency, params.Notes,
	).Scan(&bc.ID, &bc.Category, &bc.Name, &bc.Amount, &bc.Frequency, &bc.Notes, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return BusinessCost{}, apperr.NotFound(businessCostNotFoundMessage)
		}
		return BusinessCost{}, fmt.Errorf("update business cost: %w", err)
	}
	bc.CreatedAt = createdAt.Format(time.RFC3339)
	return bc, nil
}

// DeleteBusinessCost removes a business cost.
func (r *Repo) DeleteBusinessCost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM business_costs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete business cost: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(businessCostNotFoundMessage)
	}
	return nil
}

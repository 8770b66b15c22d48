package repository

import (
	"context"

	"github.com/google/uuid"
)

// Machine is a powered machine used by print or embroidery jobs.
type Machine struct {
	Name        string  `db:"name"`
	Kind        string  `db:"kind"` // print | embroidery
	Wattage     int     `db:"wattage"`
	Description *string `db:"description"`
}

// ProcessTime is the duration in minutes of one named process run.
type ProcessTime struct {
	Kind    string  `db:"kind"` // print | embroidery
	Name    string  `db:"name"`
	Minutes float64 `db:"minutes"`
}

// MaterialCost is the per-logo cost of a consumable at a given logo size.
type MaterialCost struct {
	Material    string  `db:"material"`
	LogoSize    string  `db:"logo_size"` // Small Logo | Large Logo
	CostPerLogo float64 `db:"cost_per_logo"`
}

// BusinessCost is a recurring operating cost tracked for profitability.
type BusinessCost struct {
	ID        uuid.UUID `db:"id"`
	Category  string    `db:"category"`
	Name      string    `db:"name"`
	Amount    float64   `db:"amount"`
	Frequency string    `db:"frequency"` // monthly | yearly | one_off
	Notes     *string   `db:"notes"`
	CreatedAt string    `db:"created_at"`
}

// CreateBusinessCostParams contains parameters for recording a business cost.
type CreateBusinessCostParams struct {
	Category  string
	Name      string
	Amount    float64
	Frequency string
	Notes     *string
}

// UpdateBusinessCostParams contains parameters for updating a business cost.
type UpdateBusinessCostParams struct {
	ID        uuid.UUID
	Category  *string
	Name      *string
	Amount    *float64
	Frequency *string
	Notes     *string
}

// SettingsReader provides read access to machine and cost settings.
type SettingsReader interface {
	ListMachines(ctx context.Context) ([]Machine, error)
	GetMachine(ctx context.Context, name string) (Machine, error)
	GetElectricityRate(ctx context.Context) (float64, error)
	ListProcessTimes(ctx context.Context) ([]ProcessTime, error)
	GetProcessTime(ctx context.Context, kind, name string) (float64, error)
	ListMaterialCosts(ctx context.Context) ([]MaterialCost, error)
	GetMaterialCost(ctx context.Context, material, logoSize string) (float64, error)
}

// SettingsWriter provides write access to machine and cost settings.
type SettingsWriter interface {
	UpsertMachine(ctx context.Context, m Machine) error
	SetMachineWattage(ctx context.Context, name string, wattage int) error
	SetElectricityRate(ctx context.Context, costPerKWh float64) error
	UpsertProcessTime(ctx context.Context, pt ProcessTime) error
	ReplaceMaterialCosts(ctx context.Context, costs []MaterialCost) error
}

// BusinessCostStore provides CRUD for recurring operating costs.
type BusinessCostStore interface {
	ListBusinessCosts(ctx context.Context, category string) ([]BusinessCost, error)
	CreateBusinessCost(ctx context.Context, params CreateBusinessCostParams) (BusinessCost, error)
	UpdateBusinessCost(ctx context.Context, params UpdateBusinessCostParams) (BusinessCost, error)
	DeleteBusinessCost(ctx context.Context, id uuid.UUID) error
}

// Repository combines all cost settings operations.
type Repository interface {
	SettingsReader
	SettingsWriter
	BusinessCostStore
}

package transport

import (
	"github.com/google/uuid"

	"inkstitch_backend/internal/costs/calculator"
	"inkstitch_backend/internal/pricing/engine"
)

// MachineDTO describes a powered machine.
type MachineDTO struct {
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Kind        string  `json:"kind" validate:"required,oneof=print embroidery"`
	Wattage     int     `json:"wattage" validate:"min=0"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ProcessTimeDTO describes one process duration in minutes.
type ProcessTimeDTO struct {
	Kind    string  `json:"kind" validate:"required,oneof=print embroidery"`
	Name    string  `json:"name" validate:"required,min=1,max=100"`
	Minutes float64 `json:"minutes" validate:"min=0"`
}

// MachineSettingsResponse bundles the full machine configuration.
type MachineSettingsResponse struct {
	Machines        []MachineDTO     `json:"machines"`
	ElectricityRate float64          `json:"electricityRate"`
	ProcessTimes    []ProcessTimeDTO `json:"processTimes"`
}

// SetElectricityRateRequest replaces the cost per kWh.
type SetElectricityRateRequest struct {
	CostPerKWh float64 `json:"costPerKwh" validate:"min=0"`
}

// SetWattageRequest updates a machine's power draw.
type SetWattageRequest struct {
	Wattage int `json:"wattage" validate:"min=0"`
}

// MaterialCostDTO is a per-logo consumable cost.
type MaterialCostDTO struct {
	Material    string  `json:"material" validate:"required,min=1,max=100"`
	LogoSize    string  `json:"logoSize" validate:"required,oneof='Small Logo' 'Large Logo'"`
	CostPerLogo float64 `json:"costPerLogo" validate:"min=0"`
}

// ReplaceMaterialCostsRequest replaces the whole material cost table.
type ReplaceMaterialCostsRequest struct {
	Costs []MaterialCostDTO `json:"costs" validate:"required,dive"`
}

// MaterialCostsResponse wraps the material cost table.
type MaterialCostsResponse struct {
	Costs []MaterialCostDTO `json:"costs"`
}

// BusinessCostDTO is a recurring operating cost.
type BusinessCostDTO struct {
	ID        uuid.UUID `json:"id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Frequency string    `json:"frequency"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

// CreateBusinessCostRequest records a new operating cost.
type CreateBusinessCostRequest struct {
	Category  string  `json:"category" validate:"required,min=1,max=100"`
	Name      string  `json:"name" validate:"required,min=1,max=200"`
	Amount    float64 `json:"amount" validate:"min=0"`
	Frequency string  `json:"frequency" validate:"required,oneof=monthly yearly one_off"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBusinessCostRequest applies partial updates to an operating cost.
type UpdateBusinessCostRequest struct {
	Category  *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Amount    *float64 `json:"amount,omitempty" validate:"omitempty,min=0"`
	Frequency *string  `json:"frequency,omitempty" validate:"omitempty,oneof=monthly yearly one_off"`
	Notes     *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ElectricityCostDTO is the electricity cost of one machine process run.
type ElectricityCostDTO struct {
	MachineName    string  `json:"machineName"`
	ProcessName    string  `json:"processName"`
	Wattage        int     `json:"wattage"`
	ProcessTimeMin float64 `json:"processTimeMin"`
	EnergyKWh      float64 `json:"energyKwh"`
	CostPerKWh     float64 `json:"costPerKwh"`
	CostPerRun     float64 `json:"costPerRun"`
}

// EstimateJobRequest estimates the supplier cost of a decoration job.
type EstimateJobRequest struct {
	JobType  string `json:"jobType" validate:"required,min=1,max=100"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// JobCostResponse is the full cost breakdown of a decoration job.
type JobCostResponse struct {
	JobType              string               `json:"jobType"`
	Quantity             int                  `json:"quantity"`
	ElectricityCosts     []ElectricityCostDTO `json:"electricityCosts"`
	MaterialCosts        map[string]float64   `json:"materialCosts"`
	TotalElectricityCost float64              `json:"totalElectricityCost"`
	TotalMaterialCost    float64              `json:"totalMaterialCost"`
	LaborCost            float64              `json:"laborCost"`
	TotalCost            float64              `json:"totalCost"`
}

// ProfitAnalysisRequest carries the line items to analyze. The caller
// supplies the working quote's full line item collection.
type ProfitAnalysisRequest struct {
	LineItems []engine.LineItem `json:"lineItems" validate:"required"`
}

// ProfitAnalysisResponse is the quote-wide cost and profit aggregation.
type ProfitAnalysisResponse = calculator.QuoteProfit

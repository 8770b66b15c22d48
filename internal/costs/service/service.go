// Package service implements cost settings management, decoration job cost
// estimation and quote profitability analysis.
package service

import (
	"context"

	"github.com/google/uuid"

	"inkstitch_backend/internal/costs/calculator"
	"inkstitch_backend/internal/costs/repository"
	"inkstitch_backend/internal/costs/transport"
	"inkstitch_backend/internal/pricing/engine"
	"inkstitch_backend/platform/logger"
)

// ServiceCostReader resolves a decoration service's per-unit supplier cost.
// Implemented by an adapter over the services module.
type ServiceCostReader interface {
	TotalCost(ctx context.Context, serviceID string) (float64, bool, error)
}

// Labor charges per item by job type. These reflect actual shop floor time
// and are deliberately not operator-editable settings.
const (
	laborPrintSingleSmall   = 1.50
	laborPrintTwoSmall      = 2.25
	laborPrintLargeFront    = 1.75
	laborEmbroiderySmall    = 2.00
	laborEmbroideryLarge    = 2.50
	laborEmbroideryCombined = 4.00

	threadCostSmall    = 1.25
	threadCostLarge    = 1.75
	threadCostCombined = 3.00

	logoSizeSmall = "Small Logo"
	logoSizeLarge = "Large Logo"
)

// Service provides business logic for costs and profitability.
type Service struct {
	repo         repository.Repository
	serviceCosts ServiceCostReader
	log          *logger.Logger
}

// New creates a new costs service.
func New(repo repository.Repository, serviceCosts ServiceCostReader, log *logger.Logger) *Service {
	return &Service{repo: repo, serviceCosts: serviceCosts, log: log}
}

// Settings returns the full machine configuration.
func (s *Service) Settings(ctx context.Context) (transport.MachineSettingsResponse, error) {
	machines, err := s.repo.ListMachines(ctx)
	if err != nil {
		return transport.MachineSettingsResponse{}, err
	}
	rate, err := s.repo.GetElectricityRate(ctx)
	if err != nil {
		return transport.MachineSettingsResponse{}, err
	}
	times, err := s.repo.ListProcessTimes(ctx)
	if err != nil {
		return transport.MachineSettingsResponse{}, err
	}

	resp := transport.MachineSettingsResponse{ElectricityRate: rate}
	for _, m := range machines {
		resp.Machines = append(resp.Machines, transport.MachineDTO{
			Name: m.Name, Kind: m.Kind, Wattage: m.Wattage, Description: m.Description,
		})
	}
	for _, pt := range times {
		resp.ProcessTimes = append(resp.ProcessTimes, transport.ProcessTimeDTO{
			Kind: pt.Kind, Name: pt.Name, Minutes: pt.Minutes,
		})
	}
	return resp, nil
}

// SetElectricityRate replaces the cost per kWh.
func (s *Service) SetElectricityRate(ctx context.Context, req transport.SetElectricityRateRequest) error {
	return s.repo.SetElectricityRate(ctx, req.CostPerKWh)
}

// SetMachineWattage updates the power draw of a named machine.
func (s *Service) SetMachineWattage(ctx context.Context, name string, req transport.SetWattageRequest) error {
	return s.repo.SetMachineWattage(ctx, name, req.Wattage)
}

// UpsertMachine creates or replaces a machine.
func (s *Service) UpsertMachine(ctx context.Context, req transport.MachineDTO) error {
	return s.repo.UpsertMachine(ctx, repository.Machine{
		Name: req.Name, Kind: req.Kind, Wattage: req.Wattage, Description: req.Description,
	})
}

// UpsertProcessTime creates or replaces a process duration.
func (s *Service) UpsertProcessTime(ctx context.Context, req transport.ProcessTimeDTO) error {
	return s.repo.UpsertProcessTime(ctx, repository.ProcessTime{
		Kind: req.Kind, Name: req.Name, Minutes: req.Minutes,
	})
}

// MaterialCosts returns the per-logo consumable cost table.
func (s *Service) MaterialCosts(ctx context.Context) (transport.MaterialCostsResponse, error) {
	rows, err := s.repo.ListMaterialCosts(ctx)
	if err != nil {
		return transport.MaterialCostsResponse{}, err
	}
	resp := transport.MaterialCostsResponse{Costs: make([]transport.MaterialCostDTO, 0, len(rows))}
	for _, mc := range rows {
		resp.Costs = append(resp.Costs, transport.MaterialCostDTO{
			Material: mc.Material, LogoSize: mc.LogoSize, CostPerLogo: mc.CostPerLogo,
		})
	}
	return resp, nil
}

// ReplaceMaterialCosts wholesale-replaces the consumable cost table.
func (s *Service) ReplaceMaterialCosts(ctx context.Context, req transport.ReplaceMaterialCostsRequest) error {
	rows := make([]repository.MaterialCost, 0, len(req.Costs))
	for _, mc := range req.Costs {
		rows = append(rows, repository.MaterialCost{
			Material: mc.Material, LogoSize: mc.LogoSize, CostPerLogo: mc.CostPerLogo,
		})
	}
	return s.repo.ReplaceMaterialCosts(ctx, rows)
}

// ListBusinessCosts returns recurring operating costs.
func (s *Service) ListBusinessCosts(ctx context.Context, category string) ([]transport.BusinessCostDTO, error) {
	rows, err := s.repo.ListBusinessCosts(ctx, category)
	if err != nil {
		return nil, err
	}
	out := make([]transport.BusinessCostDTO, 0, len(rows))
	for _, bc := range rows {
		out = append(out, toBusinessCostDTO(bc))
	}
	return out, nil
}

// CreateBusinessCost records a new operating cost.
func (s *Service) CreateBusinessCost(ctx context.Context, req transport.CreateBusinessCostRequest) (transport.BusinessCostDTO, error) {
	bc, err := s.repo.CreateBusinessCost(ctx, repository.CreateBusinessCostParams{
		Category: req.Category, Name: req.Name, Amount: req.Amount, Frequency: req.Frequency, Notes: req.Notes,
	})
	if err != nil {
		return transport.BusinessCostDTO{}, err
	}
	return toBusinessCostDTO(bc), nil
}

// UpdateBusinessCost applies partial updates to an operating cost.
func (s *Service) UpdateBusinessCost(ctx context.Context, id uuid.UUID, req transport.UpdateBusinessCostRequest) (transport.BusinessCostDTO, error) {
	bc, err := s.repo.UpdateBusinessCost(ctx, repository.UpdateBusinessCostParams{
		ID: id, Category: req.Category, Name: req.Name, Amount: req.Amount, Frequency: req.Frequency, Notes: req.Notes,
	})
	if err != nil {
		return transport.BusinessCostDTO{}, err
	}
	return toBusinessCostDTO(bc), nil
}

// DeleteBusinessCost removes an operating cost.
func (s *Service) DeleteBusinessCost(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteBusinessCost(ctx, id)
}

// ElectricityCostPerRun computes the electricity cost of one process run on
// one machine: watts times hours over 1000 gives kWh, priced at the current
// rate and rounded to 3 decimals.
func (s *Service) ElectricityCostPerRun(ctx context.Context, machineName, kind, processName string) (transport.ElectricityCostDTO, error) {
	machine, err := s.repo.GetMachine(ctx, machineName)
	if err != nil {
		return transport.ElectricityCostDTO{}, err
	}
	minutes, err := s.repo.GetProcessTime(ctx, kind, processName)
	if err != nil {
		return transport.ElectricityCostDTO{}, err
	}
	rate, err := s.repo.GetElectricityRate(ctx)
	if err != nil {
		return transport.ElectricityCostDTO{}, err
	}

	energyKWh := float64(machine.Wattage) * (minutes / 60) / 1000

	return transport.ElectricityCostDTO{
		MachineName:    machine.Name,
		ProcessName:    processName,
		Wattage:        machine.Wattage,
		ProcessTimeMin: minutes,
		EnergyKWh:      energyKWh,
		CostPerKWh:     rate,
		CostPerRun:     engine.Round3(energyKWh * rate),
	}, nil
}

// LineItemProfit computes the cost breakdown of one line item.
func (s *Service) LineItemProfit(ctx context.Context, item engine.LineItem) calculator.CostBreakdown {
	return calculator.LineItemCost(item, s.costLookup(ctx))
}

// QuoteProfit computes cost and profit across a whole line item collection.
func (s *Service) QuoteProfit(ctx context.Context, items []engine.LineItem) calculator.QuoteProfit {
	return calculator.QuoteCostAndProfit(items, s.costLookup(ctx))
}

// costLookup bridges the services module into the pure calculator. Lookup
// failures degrade to a missing service, never an error, so a deleted
// service cannot block quote display.
func (s *Service) costLookup(ctx context.Context) calculator.ServiceCostLookup {
	if s.serviceCosts == nil {
		return nil
	}
	return func(serviceID string) (float64, bool) {
		cost, ok, err := s.serviceCosts.TotalCost(ctx, serviceID)
		if err != nil {
			s.log.Warn("service cost lookup failed", "serviceId", serviceID, "error", err)
			return 0, false
		}
		return cost, ok
	}
}

func toBusinessCostDTO(bc repository.BusinessCost) transport.BusinessCostDTO {
	return transport.BusinessCostDTO{
		ID:        bc.ID,
		Category:  bc.Category,
		Name:      bc.Name,
		Amount:    bc.Amount,
		Frequency: bc.Frequency,
		Notes:     bc.Notes,
		CreatedAt: bc.CreatedAt,
	}
}

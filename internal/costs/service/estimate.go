package service

import (
	"context"

	"inkstitch_backend/internal/costs/transport"
	"inkstitch_backend/internal/pricing/engine"
)

type processRun struct {
	machineName string
	processName string
}

// EstimatePrintJob computes the full supplier cost of a printing job:
// electricity per process run, consumables per logo and labor per item.
// Unknown job types fall back to the single small logo process chain.
func (s *Service) EstimatePrintJob(ctx context.Context, req transport.EstimateJobRequest) (transport.JobCostResponse, error) {
	var (
		runs      []processRun
		logoSize  string
		laborUnit float64
	)

	switch req.JobType {
	case "print_2_small":
		logoSize = logoSizeSmall
		laborUnit = laborPrintTwoSmall
		runs = []processRun{
			{"DTF Printer", "standard_print"},
			{"Oven", "standard_bake"},
			{"Heat Press", "standard_press"},
			{"Heat Press", "standard_press"},
			{"DTF Printer", "small_logo_print"},
			{"Oven", "small_logo_bake"},
			{"Heat Press", "small_logo_press"},
			{"Heat Press", "small_logo_press"},
		}
	case "print_large_back_front":
		logoSize = logoSizeLarge
		laborUnit = laborPrintLargeFront
		runs = []processRun{
			{"DTF Printer", "standard_print"},
			{"Oven", "standard_bake"},
			{"Heat Press", "standard_press"},
		}
	default:
		logoSize = logoSizeSmall
		laborUnit = laborPrintSingleSmall
		runs = []processRun{
			{"DTF Printer", "standard_print"},
			{"Oven", "standard_bake"},
			{"Heat Press", "standard_press"},
		}
	}

	resp, err := s.estimateJob(ctx, req, "print", runs, logoSize, laborUnit, []string{"Film", "Ink", "Powder"}, 0)
	if err != nil {
		return transport.JobCostResponse{}, err
	}
	return resp, nil
}

// EstimateEmbroideryJob computes the full supplier cost of an embroidery
// job. Thread usage is charged as a flat per-item amount by logo size rather
// than measured consumption.
func (s *Service) EstimateEmbroideryJob(ctx context.Context, req transport.EstimateJobRequest) (transport.JobCostResponse, error) {
	var (
		processNames []string
		logoSize     string
		laborUnit    float64
		threadUnit   float64
	)

	switch req.JobType {
	case "emb_1_large":
		processNames = []string{"large_logo"}
		logoSize = logoSizeLarge
		laborUnit = laborEmbroideryLarge
		threadUnit = threadCostLarge
	case "emb_front_back":
		processNames = []string{"small_logo", "large_logo"}
		logoSize = logoSizeLarge
		laborUnit = laborEmbroideryCombined
		threadUnit = threadCostCombined
	default:
		processNames = []string{"small_logo"}
		logoSize = logoSizeSmall
		laborUnit = laborEmbroiderySmall
		threadUnit = threadCostSmall
	}

	machines, err := s.repo.ListMachines(ctx)
	if err != nil {
		return transport.JobCostResponse{}, err
	}
	var runs []processRun
	for _, m := range machines {
		if m.Kind != "embroidery" {
			continue
		}
		for _, name := range processNames {
			runs = append(runs, processRun{m.Name, name})
		}
	}

	resp, err := s.estimateJob(ctx, req, "embroidery", runs, logoSize, laborUnit, []string{"Backing"}, threadUnit)
	if err != nil {
		return transport.JobCostResponse{}, err
	}
	return resp, nil
}

func (s *Service) estimateJob(ctx context.Context, req transport.EstimateJobRequest, kind string, runs []processRun, logoSize string, laborUnit float64, materials []string, threadUnit float64) (transport.JobCostResponse, error) {
	quantity := float64(req.Quantity)
	resp := transport.JobCostResponse{
		JobType:       req.JobType,
		Quantity:      req.Quantity,
		MaterialCosts: make(map[string]float64),
	}

	for _, run := range runs {
		cost, err := s.ElectricityCostPerRun(ctx, run.machineName, kind, run.processName)
		if err != nil {
			// A renamed or removed machine just drops out of the estimate.
			s.log.Warn("skipping process run in estimate", "machine", run.machineName, "process", run.processName, "error", err)
			continue
		}
		resp.ElectricityCosts = append(resp.ElectricityCosts, cost)
		resp.TotalElectricityCost += cost.CostPerRun * quantity
	}

	for _, material := range materials {
		perLogo, err := s.repo.GetMaterialCost(ctx, material, logoSize)
		if err != nil {
			return transport.JobCostResponse{}, err
		}
		resp.MaterialCosts[material] = engine.Round2(perLogo * quantity)
		resp.TotalMaterialCost += perLogo * quantity
	}
	if threadUnit > 0 {
		resp.MaterialCosts["Thread"] = engine.Round2(threadUnit * quantity)
		resp.TotalMaterialCost += threadUnit * quantity
	}

	resp.LaborCost = engine.Round2(laborUnit * quantity)
	resp.TotalElectricityCost = engine.Round3(resp.TotalElectricityCost)
	resp.TotalMaterialCost = engine.Round2(resp.TotalMaterialCost)
	resp.TotalCost = engine.Round2(resp.TotalElectricityCost + resp.TotalMaterialCost + resp.LaborCost)

	return resp, nil
}

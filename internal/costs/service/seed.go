package service

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"inkstitch_backend/internal/costs/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type seedFile struct {
	Machines []struct {
		Name        string `yaml:"name"`
		Kind        string `yaml:"kind"`
		Wattage     int    `yaml:"wattage"`
		Description string `yaml:"description"`
	} `yaml:"machines"`
	ElectricityRate float64 `yaml:"electricity_rate"`
	ProcessTimes    []struct {
		Kind    string  `yaml:"kind"`
		Name    string  `yaml:"name"`
		Minutes float64 `yaml:"minutes"`
	} `yaml:"process_times"`
	MaterialCosts []struct {
		Material    string  `yaml:"material"`
		LogoSize    string  `yaml:"logo_size"`
		CostPerLogo float64 `yaml:"cost_per_logo"`
	} `yaml:"material_costs"`
}

// SeedDefaults populates empty cost tables from the embedded defaults.
// Existing rows are left untouched so operator edits survive restarts.
func (s *Service) SeedDefaults(ctx context.Context) error {
	var seeds seedFile
	if err := yaml.Unmarshal(defaultsYAML, &seeds); err != nil {
		return fmt.Errorf("parse cost defaults: %w", err)
	}

	machines, err := s.repo.ListMachines(ctx)
	if err != nil {
		return err
	}
	if len(machines) == 0 {
		for _, m := range seeds.Machines {
			desc := m.Description
			if err := s.repo.UpsertMachine(ctx, repository.Machine{
				Name: m.Name, Kind: m.Kind, Wattage: m.Wattage, Description: &desc,
			}); err != nil {
				return err
			}
		}
		s.log.Info("seeded default machines", "count", len(seeds.Machines))
	}

	rate, err := s.repo.GetElectricityRate(ctx)
	if err != nil {
		return err
	}
	if rate == 0 {
		if err := s.repo.SetElectricityRate(ctx, seeds.ElectricityRate); err != nil {
			return err
		}
	}

	times, err := s.repo.ListProcessTimes(ctx)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		for _, pt := range seeds.ProcessTimes {
			if err := s.repo.UpsertProcessTime(ctx, repository.ProcessTime{
				Kind: pt.Kind, Name: pt.Name, Minutes: pt.Minutes,
			}); err != nil {
				return err
			}
		}
	}

	materials, err := s.repo.ListMaterialCosts(ctx)
	if err != nil {
		return err
	}
	if len(materials) == 0 {
		rows := make([]repository.MaterialCost, 0, len(seeds.MaterialCosts))
		for _, mc := range seeds.MaterialCosts {
			rows = append(rows, repository.MaterialCost{
				Material: mc.Material, LogoSize: mc.LogoSize, CostPerLogo: mc.CostPerLogo,
			})
		}
		if err := s.repo.ReplaceMaterialCosts(ctx, rows); err != nil {
			return err
		}
		s.log.Info("seeded default material costs", "count", len(rows))
	}

	return nil
}

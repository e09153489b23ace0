package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sitepower/config"
	"github.com/kilianp07/sitepower/core/allocator"
	"github.com/kilianp07/sitepower/core/battery"
	"github.com/kilianp07/sitepower/core/sim"
	"github.com/kilianp07/sitepower/infra/logger"
)

var simInput string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a historical day through the allocator",
	RunE:  runSimulation,
}

func init() {
	simulateCmd.Flags().StringVarP(&simInput, "input", "i", "", "CSV file of timesteps (required)")
	_ = simulateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	steps, err := sim.LoadCSV(simInput)
	if err != nil {
		return fmt.Errorf("load timesteps: %w", err)
	}

	ec := cfg.Engine
	pack := battery.New(ec.BatteryCapacityKWh, ec.BatteryInitialKWh, ec.BatteryMaxDischargeKW, ec.BatteryMaxChargeKW)
	driver := sim.Driver{
		Optimizer: &allocator.Optimizer{
			SolarCapacityKW:       ec.SolarCapacityKW,
			CarbonCostPerKg:       ec.CarbonCostPerKg,
			DegradationCostPerKWh: ec.BatteryDegradationCostPerKWh,
			LifecycleCarbonPerKWh: ec.BatteryLifecycleCarbonPerKWh,
			StepHours:             ec.TimestepHours,
			ChargeFromSurplus:     ec.ChargeFromSurplus,
			Weights:               allocator.Weights{Cost: ec.CostWeight, Carbon: ec.CarbonWeight},
		},
		Log: logger.New("simulate"),
	}

	res := driver.Simulate(steps, pack)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

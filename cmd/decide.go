package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/sitepower/config"
	"github.com/kilianp07/sitepower/core/engine"
	"github.com/kilianp07/sitepower/core/forecast"
	"github.com/kilianp07/sitepower/core/model"
	"github.com/kilianp07/sitepower/infra/logger"
)

var (
	decideDemand     float64
	decideIrradiance float64
	decideCloud      float64
	decidePrice      float64
	decideCarbon     float64
)

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Run a single allocation decision from the command line",
	RunE:  decideOnce,
}

func init() {
	decideCmd.Flags().Float64Var(&decideDemand, "demand", 1.0, "power demand in kW")
	decideCmd.Flags().Float64Var(&decideIrradiance, "irradiance", 800, "solar irradiance in W/m2")
	decideCmd.Flags().Float64Var(&decideCloud, "cloud", 0.2, "cloud cover fraction")
	decideCmd.Flags().Float64Var(&decidePrice, "price", 0.25, "grid price per kWh")
	decideCmd.Flags().Float64Var(&decideCarbon, "carbon", 400, "grid carbon intensity in gCO2/kWh")
	rootCmd.AddCommand(decideCmd)
}

func decideOnce(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("decide-command")
	eng := engine.New(nil, nil, nil, logg)
	if err := eng.Init(cfg.Engine, forecast.Naive{Horizon: cfg.Engine.ForecastHorizon}); err != nil {
		return err
	}

	now := time.Now().UTC()
	cond := model.ConditionRecord{
		Timestamp:       now,
		SolarIrradiance: decideIrradiance,
		CloudCover:      decideCloud,
		GridCarbon:      decideCarbon,
		GridPrice:       decidePrice,
		Hour:            now.Hour(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rec, err := eng.Decide(ctx, decideDemand, []float64{decideDemand}, cond)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

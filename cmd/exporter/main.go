package main

import (
	"flag"
	"os"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var category = flag.String("category", "all", "Category filter (all, robo_race, robo_sumo, working_model)")
	var outPath = flag.String("out", "evaluations.xlsx", "Output spreadsheet path")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	data, err := service.Reporter.ExportXLSX(*category)
	if err != nil {
		logger.Error.Fatalf("Export failed: %v", err)
	}

	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logger.Error.Fatalf("Failed to write %s: %v", *outPath, err)
	}

	logger.Info.Printf("Exported %s evaluations to %s", *category, *outPath)
}

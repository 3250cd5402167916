package main

import (
	"flag"
	"os"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/robotica-events/robojudge/internal/app"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	var filePath = flag.String("file", "", "Path to participant spreadsheet (.xlsx)")
	flag.Parse()

	if *filePath == "" {
		logger.Error.Fatalf("No spreadsheet given, use -file participants.xlsx")
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}
	defer service.Close()

	f, err := os.Open(*filePath)
	if err != nil {
		logger.Error.Fatalf("Failed to open %s: %v", *filePath, err)
	}
	defer f.Close()

	report, err := service.Importer.ImportXLSX(f)
	if err != nil {
		logger.Error.Fatalf("Import failed: %v", err)
	}

	logger.Info.Printf(
		"Imported %s: %d added, %d skipped, %d duplicates, %d errors",
		*filePath, report.Added, report.Skipped, report.Duplicates, report.Errors,
	)
}

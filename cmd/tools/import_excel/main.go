package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"mediio-admin/internal/config"
	"mediio-admin/internal/persist"
	"mediio-admin/internal/section"
	"mediio-admin/internal/store"
	"mediio-admin/pkg/workbook"
)

// import_excel loads a workbook straight into the configured storage. The
// API server should not be running against the same storage at the time.
func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code so deferred closes always happen.
func run(args []string) int {
	if len(args) < 1 {
		fmt.Println("Usage: import_excel --file=path.xlsx [--dry-run]")
		return 1
	}

	var filePath string
	dryRun := false

	for _, arg := range args {
		if strings.HasPrefix(arg, "--file=") {
			filePath = strings.TrimPrefix(arg, "--file=")
		} else if arg == "--dry-run" {
			dryRun = true
		}
	}

	if filePath == "" {
		fmt.Println("Error: file is required")
		fmt.Println("Usage: import_excel --file=path.xlsx [--dry-run]")
		return 1
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Printf("Configuration error: %v", err)
		return 1
	}
	logger := cfg.NewLogger()

	ctx := context.Background()
	storage, err := persist.Open(ctx, cfg.StorageOptions())
	if err != nil {
		log.Printf("Failed to open storage: %v", err)
		return 1
	}
	defer func() {
		if err := storage.Close(); err != nil {
			log.Printf("Failed to close storage: %v", err)
		}
	}()

	set := store.OpenSet(ctx, storage, logger)
	dashboard := section.NewDashboard(set, section.WithLogger(logger))

	// Open Excel file
	file, err := os.Open(filePath)
	if err != nil {
		log.Printf("Failed to open Excel file: %v", err)
		return 1
	}
	defer file.Close()

	fmt.Printf("Importing from %s into %s storage (dry_run=%v)\n", filePath, cfg.StorageDriver, dryRun)
	fmt.Println("=" + strings.Repeat("=", 60))

	summary, err := workbook.Import(ctx, file, dashboard.Sections(), workbook.ImportOptions{
		DryRun:    dryRun,
		MaxErrors: 50,
	})
	if err != nil {
		log.Printf("Import failed: %v", err)
		return 1
	}

	// Print summary
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("IMPORT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("Total inserted: %d\n", summary.Inserted)
	fmt.Printf("Total skipped: %d\n", summary.Skipped)
	fmt.Printf("Total errors: %d\n", summary.Errors)
	fmt.Printf("Total warnings: %d\n", summary.Warnings)
	fmt.Printf("Dry run: %v\n", summary.DryRun)

	if len(summary.Sheets) > 0 {
		fmt.Println("\nSheet Details:")
		for _, sheet := range summary.Sheets {
			fmt.Printf("  %s (%s): inserted=%d, skipped=%d, errors=%d, warnings=%d\n",
				sheet.Name, sheet.Section, sheet.Inserted, sheet.Skipped, sheet.Errors, sheet.Warnings)

			if len(sheet.Samples) > 0 {
				fmt.Printf("    Samples:\n")
				for _, sample := range sheet.Samples {
					fmt.Printf("      Row %d: %s\n", sample.Row, sample.Message)
				}
			}
		}
	}
	return 0
}

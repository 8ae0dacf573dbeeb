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

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code so deferred closes always happen.
func run(args []string) int {
	outPath := "mediio.xlsx"
	for _, arg := range args {
		if strings.HasPrefix(arg, "--out=") {
			outPath = strings.TrimPrefix(arg, "--out=")
		}
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

	out, err := os.Create(outPath)
	if err != nil {
		log.Printf("Failed to create %s: %v", outPath, err)
		return 1
	}
	if err := workbook.Export(out, dashboard.Sections()); err != nil {
		out.Close()
		log.Printf("Export failed: %v", err)
		return 1
	}
	if err := out.Close(); err != nil {
		log.Printf("Failed to write %s: %v", outPath, err)
		return 1
	}

	fmt.Printf("Exported %d clinics, %d purchasing groups, %d suppliers, %d customers to %s\n",
		set.Clinics.Len(), set.PurchasingGroups.Len(), set.Suppliers.Len(), set.Customers.Len(), outPath)
	return 0
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/has-bi/you-posm/config"
	"github.com/has-bi/you-posm/internal/app/model"
	"github.com/has-bi/you-posm/internal/app/service"
	"github.com/has-bi/you-posm/internal/sheets"
)

// Bulk-imports store or employee names from an xlsx export into the
// matching lookup sheet.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> <stores|employees>")
	}

	filePath := os.Args[1]

	var targetSheet string
	switch os.Args[2] {
	case "stores":
		targetSheet = model.StoreSheet
	case "employees":
		targetSheet = model.EmployeeSheet
	default:
		log.Fatalf("Unknown target %q, expected stores or employees", os.Args[2])
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client, err := sheets.NewClient(ctx, cfg.Google.Credentials, cfg.Google.SpreadsheetID)
	if err != nil {
		log.Fatal("Failed to connect to spreadsheet:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	names, err := readNamesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total names to import: %d\n", len(names))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	headers := model.StoreHeaders
	if targetSheet == model.EmployeeSheet {
		headers = model.EmployeeHeaders
	}
	if err := sheets.EnsureSheet(ctx, client, targetSheet, headers); err != nil {
		log.Fatal("Failed to prepare lookup sheet:", err)
	}

	lookup := service.NewLookupService(client)

	added := 0
	failed := 0
	for _, name := range names {
		if lookup.AddIfAbsent(ctx, targetSheet, name) {
			added++
		} else {
			failed++
		}
	}

	fmt.Println("Import completed.")
	fmt.Printf("Processed: %d, failed: %d\n", added, failed)
}

// readNamesFromXLSX pulls the first column of the first sheet,
// skipping the header row and collapsing duplicates.
func readNamesFromXLSX(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}
	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var names []string
	seen := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}
		if len(row) == 0 {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			skipped++
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	if skipped > 0 {
		fmt.Printf("Skipped %d empty or duplicate rows\n", skipped)
	}
	return names, nil
}

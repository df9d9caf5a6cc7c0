package main

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Writes sample discount import files. SPRING10 appears in both files; the
// definition in the second file (fewer uses, no cumulation) wins on import.
func main() {
	dataDir := "data/discounts"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	nextYear := time.Now().AddDate(1, 0, 0).UTC().Format(time.RFC3339)
	lastYear := time.Now().AddDate(-1, 0, 0).UTC().Format(time.RFC3339)

	files := map[string][][]string{
		"discounts1.csv.gz": {
			{"WELCOME10", "percentage", "10", "", "", "true"},
			{"SPRING10", "percentage", "10", "500", nextYear, "true"},
			{"SHIPFREE", "free_shipping", "", "", "", "true"},
			{"EXPIRED5", "fixed", "5", "", lastYear, "true"},
		},
		"discounts2.csv.gz": {
			{"SPRING10", "percentage", "10", "50", nextYear, "false"},
			{"VIP25", "percentage", "25", "10", "", "false"},
			{"TENOFF", "fixed", "10.00", "0", "", "true"},
		},
	}

	for filename, rows := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createDiscountFile(filePath, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d codes\n", filePath, len(rows))
	}

	fmt.Println("\nSample discount files created successfully!")
	fmt.Println("  - WELCOME10  10% off, unlimited")
	fmt.Println("  - SPRING10   10% off, 50 uses, not cumulative (second file wins)")
	fmt.Println("  - SHIPFREE   free shipping")
	fmt.Println("  - VIP25      25% off, 10 uses, not cumulative")
	fmt.Println("  - EXPIRED5   rejected at checkout (expired)")
	fmt.Println("  - TENOFF     rejected at checkout (no uses left)")
	fmt.Printf("\nImport with: go run ./cmd/discount-import %s %s\n",
		filepath.Join(dataDir, "discounts1.csv.gz"), filepath.Join(dataDir, "discounts2.csv.gz"))
}

func createDiscountFile(filePath string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	w := csv.NewWriter(gzipWriter)
	if err := w.Write([]string{"code", "kind", "value", "uses_left", "expiration_date", "can_cumulate"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write discounts: %w", err)
	}

	return nil
}

// Package main provides the exporter command: it loads canonical records
// from a JSON or JSONL file and persists them to the SQLite sink.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"storecrawl/internal/logger"
	"storecrawl/internal/sink"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	input := flag.String("input", "", "Canonical records file, JSON or JSONL (required)")
	dbPath := flag.String("db", "stores.db", "SQLite database path")
	brand := flag.String("brand", "", "Brand the records belong to (required)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")

	flag.Parse()

	log := logger.NewLogger(*logLevel, "text")

	if *input == "" || *brand == "" {
		log.Error("Please provide -input and -brand flags")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// 2. Load Canonical Records
	// -------------------------
	records, err := sink.ReadRecords(*input)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to load records: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("🚀 Exporting %d records for %s to %s", len(records), *brand, *dbPath))

	// 3. Insert
	// ---------
	startTime := time.Now()

	db, err := sink.OpenDB(*dbPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to open database: %v", err))
		os.Exit(1)
	}
	defer db.Close()

	runID := uuid.NewString()

	inserted, err := db.InsertBatch(runID, *brand, records)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Insert failed: %v", err))
		os.Exit(1)
	}

	total, err := db.CountByBrand(*brand)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Count failed: %v", err))
		os.Exit(1)
	}

	// 4. Final Report
	// ---------------
	log.Info(fmt.Sprintf("✅ Export complete in %v", time.Since(startTime).Round(time.Millisecond)))
	fmt.Println("\n------------------------------------------------")
	fmt.Println("📊 Export Report")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Run ID: %s\n", runID)
	fmt.Printf("Records Loaded: %d\n", len(records))
	fmt.Printf("Rows Inserted: %d (deduplicated: %d)\n", inserted, len(records)-inserted)
	fmt.Printf("Total Rows for %s: %d\n", *brand, total)
	fmt.Println("------------------------------------------------")
}

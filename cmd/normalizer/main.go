// Package main provides the standalone normalizer command: it replays a raw
// dump through the normalization pipeline and writes the canonical records.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"storecrawl/internal/config"
	"storecrawl/internal/logger"
	"storecrawl/internal/models"
	"storecrawl/internal/normalizer"
	"storecrawl/internal/sink"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	brand := flag.String("brand", "", "Brand of the source the dump belongs to (required)")
	input := flag.String("input", "", "Raw dump JSON file produced by the crawler command (required)")
	output := flag.String("output", "", "Canonical output path (default: config output path)")
	sourceURL := flag.String("url", "", "Source URL recorded on each record (default: source's configured URL)")

	flag.Parse()

	// 2. Load Configuration
	// ---------------------
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Crawler.Logging.Level, cfg.Crawler.Logging.Format)

	if *brand == "" || *input == "" {
		log.Error("Please provide -brand and -input flags")
		flag.PrintDefaults()
		os.Exit(1)
	}

	src, ok := cfg.GetSourceByBrand(*brand)
	if !ok {
		log.Error(fmt.Sprintf("❌ No enabled source for brand %q", *brand))
		os.Exit(1)
	}

	recordURL := *sourceURL
	if recordURL == "" {
		recordURL = src.URL
	}

	// 3. Load Raw Dump
	// ----------------
	data, err := os.ReadFile(*input)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to read raw dump: %v", err))
		os.Exit(1)
	}

	var rawStores []models.RawStore
	if err := json.Unmarshal(data, &rawStores); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to parse raw dump: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("🚀 Normalizing %d raw records for %s", len(rawStores), src.Brand))

	// 4. Normalize
	// ------------
	startTime := time.Now()

	pipeline := normalizer.NewPipeline(normalizer.Options{
		Brand:        src.Name,
		Placeholders: cfg.Crawler.Placeholders,
		KeyPolicy:    normalizer.KeyPolicy(cfg.Crawler.Dedup.KeyPolicy),
	})

	ctx := context.Background()

	var emitted []*models.Store

	duplicates, invalid := 0, 0

	for _, raw := range rawStores {
		result := pipeline.Process(raw, recordURL)

		for _, d := range result.Diagnostics {
			log.Log(ctx, d.Level, d.Message, "brand", src.Brand)
		}

		switch {
		case result.Emitted():
			emitted = append(emitted, result.Store)
		case result.Rejection.Reason == models.RejectDuplicate:
			duplicates++
		default:
			invalid++
		}
	}

	log.Info(fmt.Sprintf("✅ %d emitted, %d duplicates, %d invalid in %v",
		len(emitted), duplicates, invalid, time.Since(startTime).Round(time.Millisecond)))

	// 5. Write Canonical Records
	// --------------------------
	outputPath := *output
	if outputPath == "" {
		outputPath = cfg.GetOutputPath(src.Brand)
	}

	writer := sink.NewWriter(cfg.Crawler.Output.Format, cfg.Crawler.Output.PrettyPrint)
	if err := writer.Write(emitted, outputPath); err != nil {
		log.Error(fmt.Sprintf("❌ Write failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("💾 Wrote %d records to %s", len(emitted), outputPath))
}

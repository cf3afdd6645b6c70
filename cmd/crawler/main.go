// Package main provides the standalone crawler command: it fetches one
// source and dumps the extracted raw mappings as JSON, without normalizing.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storecrawl/internal/config"
	"storecrawl/internal/crawler"
	"storecrawl/internal/crawler/adapters"
	"storecrawl/internal/logger"
	"storecrawl/internal/models"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	brand := flag.String("brand", "", "Brand of the source to crawl (required)")
	output := flag.String("output", "", "Raw dump output path (default: stdout)")

	flag.Parse()

	// 2. Load Configuration
	// ---------------------
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Crawler.Logging.Level, cfg.Crawler.Logging.Format)

	if *brand == "" {
		log.Error("Please provide a brand with -brand flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	src, ok := cfg.GetSourceByBrand(*brand)
	if !ok {
		log.Error(fmt.Sprintf("❌ No enabled source for brand %q", *brand))
		os.Exit(1)
	}

	// 3. Fetch and Extract
	// --------------------
	log.Info(fmt.Sprintf("🚀 Crawling %s (shape: %s)", src.Brand, src.Shape))

	startTime := time.Now()

	adapter, err := adapters.ForSource(src)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	urlManager := crawler.NewURLManager()

	urls, err := urlManager.URLsFor(src)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(1)
	}

	scraper := crawler.NewScraperWithConfig(&cfg.Crawler.Retry)

	var rawStores []models.RawStore

	for _, url := range urls {
		fetchStart := time.Now()

		var (
			body   string
			status int
		)

		if src.IsLocalFile() {
			body, err = scraper.ReadLocalFile(url)
		} else {
			body, status, err = scraper.ScrapeWithStatus(url)
		}

		urlManager.RecordAttempt(url, err == nil, err, status, time.Since(fetchStart))

		if err != nil {
			log.Warn(fmt.Sprintf("⚠️  Fetch failed for %s: %v", url, err))

			continue
		}

		extracted, err := adapter.Extract(body, url)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Extraction failed for %s: %v", url, err))

			continue
		}

		rawStores = append(rawStores, extracted...)
	}

	urlManager.LogAttemptSummary(log)

	if len(rawStores) == 0 {
		log.Error("❌ No raw records extracted")
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Extracted %d raw records in %v", len(rawStores), time.Since(startTime).Round(time.Millisecond)))

	// 4. Dump Raw Records
	// -------------------
	data, err := json.MarshalIndent(rawStores, "", "  ")
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to marshal raw records: %v", err))
		os.Exit(1)
	}

	if *output == "" {
		fmt.Println(string(data))

		return
	}

	if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to create output directory: %v", err))
		os.Exit(1)
	}

	if err := os.WriteFile(*output, data, 0644); err != nil {
		log.Error(fmt.Sprintf("❌ Failed to write raw dump: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("💾 Raw dump written to %s", *output))
}

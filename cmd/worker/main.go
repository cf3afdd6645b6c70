// Package main provides the unified worker command that combines fetching,
// normalizing, and persisting store records for every enabled source.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"storecrawl/internal/config"
	"storecrawl/internal/crawler"
	"storecrawl/internal/crawler/adapters"
	"storecrawl/internal/logger"
	"storecrawl/internal/models"
	"storecrawl/internal/normalizer"
	"storecrawl/internal/report"
	"storecrawl/internal/sink"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configPath := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	brand := flag.String("brand", "", "Run a single source by brand (default: all enabled)")
	preview := flag.Int("preview", 5, "Number of emitted records to preview per source (0 disables)")

	flag.Parse()

	// 2. Load Configuration
	// ---------------------
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Crawler.Logging.Level, cfg.Crawler.Logging.Format)

	sources := cfg.GetEnabledSources()

	if *brand != "" {
		src, ok := cfg.GetSourceByBrand(*brand)
		if !ok {
			log.Error(fmt.Sprintf("❌ No enabled source for brand %q", *brand))
			os.Exit(1)
		}

		sources = []config.SourceConfig{src}
	}

	runID := uuid.NewString()

	log.Info("🚀 Starting Store Crawl Worker")
	log.Info(fmt.Sprintf("📍 Run: %s | Sources: %d | Output: %s", runID, len(sources), cfg.Crawler.Output.BasePath))

	// 3. Open Optional SQLite Sink
	// ----------------------------
	var db *sink.DB

	if cfg.Crawler.Output.SQLitePath != "" {
		db, err = sink.OpenDB(cfg.Crawler.Output.SQLitePath)
		if err != nil {
			log.Error(fmt.Sprintf("❌ Failed to open SQLite sink: %v", err))
			os.Exit(1)
		}
		defer db.Close()

		log.Info(fmt.Sprintf("🗄️  SQLite sink: %s", cfg.Crawler.Output.SQLitePath))
	}

	// 4. Run Each Source
	// ------------------
	startTime := time.Now()
	scraper := crawler.NewScraperWithConfig(&cfg.Crawler.Retry)
	urlManager := crawler.NewURLManager()

	var summaries []report.RunSummary

	failed := false

	for _, src := range sources {
		summary, emitted, err := runSource(cfg, src, scraper, urlManager, log)
		if err != nil {
			log.Error(fmt.Sprintf("❌ [%s] Source failed: %v", src.Brand, err))

			failed = true

			summaries = append(summaries, summary)

			continue
		}

		outputPath := cfg.GetOutputPath(src.Brand)

		writer := sink.NewWriter(cfg.Crawler.Output.Format, cfg.Crawler.Output.PrettyPrint)
		if err := writer.Write(emitted, outputPath); err != nil {
			log.Error(fmt.Sprintf("❌ [%s] Write failed: %v", src.Brand, err))

			failed = true

			summaries = append(summaries, summary)

			continue
		}

		log.Info(fmt.Sprintf("✅ [%s] Wrote %d records to %s", src.Brand, len(emitted), outputPath))

		if db != nil {
			inserted, err := db.InsertBatch(runID, src.Brand, emitted)
			if err != nil {
				log.Error(fmt.Sprintf("❌ [%s] SQLite insert failed: %v", src.Brand, err))

				failed = true
			} else {
				log.Info(fmt.Sprintf("🗄️  [%s] Inserted %d new rows", src.Brand, inserted))
			}
		}

		if *preview > 0 && len(emitted) > 0 {
			fmt.Println()
			fmt.Print(report.RenderStores(emitted, *preview))
		}

		summaries = append(summaries, summary)
	}

	// 5. Final Report
	// ---------------
	urlManager.LogAttemptSummary(log)

	log.Info(fmt.Sprintf("✨ Run complete in %v", time.Since(startTime).Round(time.Millisecond)))
	fmt.Println("\n------------------------------------------------")
	fmt.Println("📊 Summary Report")
	fmt.Println("------------------------------------------------")
	fmt.Print(report.RenderSummaries(summaries))

	if failed {
		os.Exit(1)
	}
}

// runSource fetches every URL for one source, runs the raw mappings through
// a fresh run-scoped pipeline, and returns the summary plus emitted records.
func runSource(
	cfg *config.Config,
	src config.SourceConfig,
	scraper *crawler.Scraper,
	urlManager *crawler.URLManager,
	log *logger.Logger,
) (summary report.RunSummary, emitted []*models.Store, err error) {
	summary = report.RunSummary{Brand: src.Brand}
	start := time.Now()

	defer func() {
		summary.Duration = time.Since(start)
	}()

	adapter, err := adapters.ForSource(src)
	if err != nil {
		return summary, nil, err
	}

	urls, err := urlManager.URLsFor(src)
	if err != nil {
		return summary, nil, err
	}

	log.Info(fmt.Sprintf("🌐 [%s] Fetching %d URL(s) (shape: %s)", src.Brand, len(urls), src.Shape))

	pipeline := normalizer.NewPipeline(normalizer.Options{
		Brand:        src.Name,
		Placeholders: cfg.Crawler.Placeholders,
		KeyPolicy:    normalizer.KeyPolicy(cfg.Crawler.Dedup.KeyPolicy),
	})

	for _, url := range urls {
		fetchStart := time.Now()

		body, status, err := fetchOne(src, scraper, url)
		urlManager.RecordAttempt(url, err == nil, err, status, time.Since(fetchStart))

		if err != nil {
			log.Warn(fmt.Sprintf("⚠️  [%s] Fetch failed for %s: %v", src.Brand, url, err))

			summary.Failures++

			continue
		}

		rawStores, err := adapter.Extract(body, url)
		if err != nil {
			log.Error(fmt.Sprintf("❌ [%s] Extraction failed for %s: %v", src.Brand, url, err))

			summary.Failures++

			continue
		}

		summary.Fetched += len(rawStores)

		for _, raw := range rawStores {
			result := pipeline.Process(raw, url)
			logDiagnostics(log, src.Brand, result.Diagnostics)

			switch {
			case result.Emitted():
				emitted = append(emitted, result.Store)
				summary.Emitted++
			case result.Rejection.Reason == models.RejectDuplicate:
				summary.Duplicates++
			default:
				summary.Invalid++
			}
		}
	}

	if summary.Fetched == 0 {
		return summary, nil, errors.New("no records extracted from any URL")
	}

	log.Info(fmt.Sprintf("✅ [%s] %d fetched, %d emitted, %d duplicates, %d invalid",
		src.Brand, summary.Fetched, summary.Emitted, summary.Duplicates, summary.Invalid))

	return summary, emitted, nil
}

// fetchOne reads the body for one URL, from disk for local fixtures and over
// HTTP otherwise.
func fetchOne(src config.SourceConfig, scraper *crawler.Scraper, url string) (string, int, error) {
	if src.IsLocalFile() {
		body, err := scraper.ReadLocalFile(url)

		return body, 0, err
	}

	return scraper.ScrapeWithStatus(url)
}

// logDiagnostics forwards pipeline diagnostics at their own severity.
func logDiagnostics(log *logger.Logger, brand string, diags []normalizer.Diagnostic) {
	ctx := context.Background()

	for _, d := range diags {
		if d.Field != "" {
			log.Log(ctx, d.Level, d.Message, "brand", brand, "field", d.Field)
		} else {
			log.Log(ctx, d.Level, d.Message, "brand", brand)
		}
	}
}

package integration

import (
	"path/filepath"
	"testing"

	"storecrawl/internal/crawler"
	"storecrawl/internal/crawler/adapters"
	"storecrawl/internal/models"
	"storecrawl/internal/normalizer"
	"storecrawl/internal/sink"
)

// TestWorkerFlow_API runs the full path a worker run takes for one source:
// fetch, extract, normalize, validate, deduplicate, persist.
func TestWorkerFlow_API(t *testing.T) {
	cfg := loadTestConfig(t)

	src, ok := cfg.GetSourceByBrand("acme-api")
	if !ok {
		t.Fatal("no enabled source for acme-api")
	}

	adapter, err := adapters.ForSource(src)
	if err != nil {
		t.Fatalf("ForSource failed: %v", err)
	}

	body, err := crawler.NewScraper().ReadLocalFile(src.File)
	if err != nil {
		t.Fatalf("ReadLocalFile failed: %v", err)
	}

	rawStores, err := adapter.Extract(body, src.URL)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	pipeline := normalizer.NewPipeline(normalizer.Options{
		Brand:        src.Name,
		Placeholders: cfg.Crawler.Placeholders,
		KeyPolicy:    normalizer.KeyPolicy(cfg.Crawler.Dedup.KeyPolicy),
	})

	var emitted []*models.Store

	duplicates, invalid := 0, 0

	for _, raw := range rawStores {
		result := pipeline.Process(raw, "https://stores.example.com/locator")

		switch {
		case result.Emitted():
			emitted = append(emitted, result.Store)
		case result.Rejection.Reason == models.RejectDuplicate:
			duplicates++
		default:
			invalid++
		}
	}

	// Fixture carries one valid store, one duplicate of it, and one record
	// with no address or coordinates.
	if len(emitted) != 1 || duplicates != 1 || invalid != 1 {
		t.Fatalf("emitted=%d duplicates=%d invalid=%d, want 1/1/1", len(emitted), duplicates, invalid)
	}

	store := emitted[0]

	if store.Number != "1138" {
		t.Errorf("Number = %q", store.Number)
	}

	if store.Name != "Acme Reno" {
		t.Errorf("Name = %q, whitespace not collapsed", store.Name)
	}

	if store.Address != "1 First St, Reno NV 89501" {
		t.Errorf("Address = %q", store.Address)
	}

	if store.Location.Longitude() != -119.81 || store.Location.Latitude() != 39.52 {
		t.Errorf("Location = %+v", store.Location)
	}

	if store.Hours["monday"].Open != "9:00 am" || store.Hours["monday"].Close != "9:00 pm" {
		t.Errorf("monday = %+v", store.Hours["monday"])
	}

	if store.Hours["sunday"].Note != models.HoursClosed {
		t.Errorf("sunday = %+v", store.Hours["sunday"])
	}

	if len(store.Services) != 2 || store.Services[0] != "Acme Pharmacy" || store.Services[1] != "Deli" {
		t.Errorf("Services = %v", store.Services)
	}

	// Persist, read back, and insert into the SQLite sink.
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "stores.json")

	writer := sink.NewWriter(cfg.Crawler.Output.Format, cfg.Crawler.Output.PrettyPrint)
	if err := writer.Write(emitted, outputPath); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := sink.ReadRecords(outputPath)
	if err != nil {
		t.Fatalf("ReadRecords failed: %v", err)
	}

	if len(records) != 1 || records[0].Number != "1138" {
		t.Fatalf("round trip lost the record: %+v", records)
	}

	db, err := sink.OpenDB(filepath.Join(dir, "stores.db"))
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	inserted, err := db.InsertBatch("run-1", src.Brand, records)
	if err != nil {
		t.Fatalf("InsertBatch failed: %v", err)
	}

	if inserted != 1 {
		t.Errorf("inserted = %d, want 1", inserted)
	}

	// Re-running the export is idempotent.
	inserted, err = db.InsertBatch("run-2", src.Brand, records)
	if err != nil {
		t.Fatalf("second InsertBatch failed: %v", err)
	}

	if inserted != 0 {
		t.Errorf("re-insert added %d rows, want 0", inserted)
	}
}

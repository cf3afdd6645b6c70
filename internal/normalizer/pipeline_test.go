package normalizer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"

	"storecrawl/internal/models"
)

func testOptions() Options {
	return Options{
		Brand:        "Acme",
		Placeholders: []string{"[c_groceryBrand]", "[name]"},
		KeyPolicy:    KeyAuto,
	}
}

func rawFixture() models.RawStore {
	return models.RawStore{
		"number":       "1138",
		"name":         " Acme  Market ",
		"street":       "123 Main St",
		"street2":      "",
		"city":         "Springfield",
		"state":        "IL",
		"zip":          "12345",
		"phone_number": "(555) 123-4567",
		"latitude":     "39.78",
		"longitude":    "-89.65",
		"hours": map[string]any{
			"monday": map[string]any{"open": "9:00 AM", "close": "9:00 PM"},
			"sunday": map[string]any{"open": "closed", "close": "closed"},
		},
		"services": []any{"[c_groceryBrand] pharmacy", "delivery", "delivery"},
	}
}

func TestPipeline_Emit(t *testing.T) {
	p := NewPipeline(testOptions())

	result := p.Process(rawFixture(), "https://stores.example.com/1138")
	if !result.Emitted() {
		t.Fatalf("expected emission, got rejection %+v", result.Rejection)
	}

	store := result.Store

	if store.Number != "1138" {
		t.Errorf("number = %q", store.Number)
	}

	if store.Name != "Acme Market" {
		t.Errorf("name = %q", store.Name)
	}

	if store.Address != "123 Main St, Springfield IL 12345" {
		t.Errorf("address = %q", store.Address)
	}

	if store.PhoneNumber != "(555) 123-4567" {
		t.Errorf("phone = %q", store.PhoneNumber)
	}

	if store.Location.Longitude() != -89.65 || store.Location.Latitude() != 39.78 {
		t.Errorf("location = %+v", store.Location)
	}

	if store.Hours["sunday"].Note != models.HoursClosed {
		t.Errorf("sunday = %+v", store.Hours["sunday"])
	}

	if len(store.Services) != 2 || store.Services[0] != "Acme Pharmacy" {
		t.Errorf("services = %v", store.Services)
	}

	if store.URL != "https://stores.example.com/1138" {
		t.Errorf("url = %q", store.URL)
	}

	if len(store.Raw) == 0 {
		t.Error("raw audit copy missing")
	}
}

func TestPipeline_RejectsInvalid(t *testing.T) {
	p := NewPipeline(testOptions())

	raw := rawFixture()
	delete(raw, "street")
	delete(raw, "city")
	delete(raw, "state")
	delete(raw, "zip")

	result := p.Process(raw, "https://stores.example.com/1138")
	if result.Emitted() {
		t.Fatal("expected rejection")
	}

	if result.Rejection.Reason != models.RejectInvalid {
		t.Errorf("reason = %q", result.Rejection.Reason)
	}

	if len(result.Rejection.MissingFields) != 1 || result.Rejection.MissingFields[0] != FieldAddress {
		t.Errorf("missing = %v", result.Rejection.MissingFields)
	}

	// An invalid record must never reach the deduplicator: the same number
	// emits cleanly afterwards.
	if p.EmittedCount() != 0 {
		t.Errorf("invalid record was recorded by the deduplicator")
	}

	if follow := p.Process(rawFixture(), "https://stores.example.com/1138"); !follow.Emitted() {
		t.Errorf("valid record with same number should emit, got %+v", follow.Rejection)
	}
}

func TestPipeline_RejectsDuplicate(t *testing.T) {
	p := NewPipeline(testOptions())
	url := "https://stores.example.com/1138"

	first := p.Process(rawFixture(), url)
	if !first.Emitted() {
		t.Fatalf("first record rejected: %+v", first.Rejection)
	}

	second := p.Process(rawFixture(), url)
	if second.Emitted() {
		t.Fatal("second record with same number should be a duplicate")
	}

	if second.Rejection.Reason != models.RejectDuplicate {
		t.Errorf("reason = %q", second.Rejection.Reason)
	}

	var debugDiags int

	for _, diag := range second.Diagnostics {
		if diag.Level == slog.LevelDebug {
			debugDiags++
		}
	}

	if debugDiags != 1 {
		t.Errorf("expected one debug diagnostic, got %d", debugDiags)
	}
}

func TestPipeline_CoordinateFailureDowngrades(t *testing.T) {
	p := NewPipeline(testOptions())

	raw := rawFixture()
	raw["latitude"] = "95.0"

	result := p.Process(raw, "https://stores.example.com/1138")
	if result.Emitted() {
		t.Fatal("out-of-range coordinates should downgrade the record")
	}

	if result.Rejection.Reason != models.RejectInvalid {
		t.Errorf("reason = %q", result.Rejection.Reason)
	}

	var warned bool

	for _, diag := range result.Diagnostics {
		if diag.Level == slog.LevelWarn && diag.Field == FieldLocation {
			warned = true
		}
	}

	if !warned {
		t.Error("expected a location warning diagnostic")
	}
}

func TestPipeline_ConcurrentAtMostOnce(t *testing.T) {
	p := NewPipeline(testOptions())

	const workers = 16

	var wg sync.WaitGroup

	emitted := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if p.Process(rawFixture(), "https://stores.example.com/1138").Emitted() {
				emitted <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(emitted)

	if got := len(emitted); got != 1 {
		t.Errorf("expected exactly one emission under concurrency, got %d", got)
	}
}

// Feeding an emitted record's raw audit copy back through a fresh pipeline
// reproduces the record byte for byte, excluding the nested raw field.
func TestPipeline_Idempotent(t *testing.T) {
	url := "https://stores.example.com/1138"

	first := NewPipeline(testOptions()).Process(rawFixture(), url)
	if !first.Emitted() {
		t.Fatalf("first pass rejected: %+v", first.Rejection)
	}

	// Round-trip the audit copy through JSON the way a replay from disk would.
	data, err := json.Marshal(first.Store.Raw)
	if err != nil {
		t.Fatalf("marshal raw: %v", err)
	}

	var replayed models.RawStore
	if err := json.Unmarshal(data, &replayed); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	second := NewPipeline(testOptions()).Process(replayed, url)
	if !second.Emitted() {
		t.Fatalf("second pass rejected: %+v", second.Rejection)
	}

	if !bytes.Equal(canonicalBytes(t, first.Store), canonicalBytes(t, second.Store)) {
		t.Errorf("records differ:\n%s\n%s", canonicalBytes(t, first.Store), canonicalBytes(t, second.Store))
	}
}

func canonicalBytes(t *testing.T, store *models.Store) []byte {
	t.Helper()

	clone := *store
	clone.Raw = nil

	data, err := json.Marshal(clone)
	if err != nil {
		t.Fatalf("marshal store: %v", err)
	}

	return data
}

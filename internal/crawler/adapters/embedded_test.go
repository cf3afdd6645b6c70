package adapters

import (
	"errors"
	"testing"

	"storecrawl/internal/config"
)

func sourceWithShape(shape string) config.SourceConfig {
	return config.SourceConfig{
		Brand: "acme",
		Shape: shape,
		URL:   "https://www.acme.example/stores",
	}
}

func TestEmbeddedAdapter_Extract(t *testing.T) {
	body := `<html><head>
	<script>window.__PRELOADED_STATE__={"stores":[{"storeId":"42","lat":"40.71","lng":"-74.00"}]};</script>
	</head><body></body></html>`

	adapter := NewEmbeddedAdapter("window.__PRELOADED_STATE__=", "stores", map[string]string{
		"number":    "storeId",
		"latitude":  "lat",
		"longitude": "lng",
	})

	records, err := adapter.Extract(body, "https://www.acme.example/stores")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	if records[0].String("number") != "42" {
		t.Errorf("number = %q", records[0].String("number"))
	}
}

func TestEmbeddedAdapter_RepairsSloppyPayload(t *testing.T) {
	// Trailing comma and single-quoted keys: not valid JSON, but repairable.
	body := `<script>var stores = {'stores': [{'storeId': '9', 'lat': 33.4, 'lng': -112.0},]};</script>`

	adapter := NewEmbeddedAdapter("var stores = ", "stores", nil)

	records, err := adapter.Extract(body, "")
	if err != nil {
		t.Fatalf("Extract failed on repairable payload: %v", err)
	}

	if len(records) != 1 || records[0].String("storeId") != "9" {
		t.Errorf("records = %v", records)
	}
}

func TestEmbeddedAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		marker  string
		wantErr error
	}{
		{name: "Marker absent", body: `<script>var x = 1;</script>`, marker: "window.__STATE__=", wantErr: ErrMalformedBody},
		{name: "No marker configured", body: `{}`, marker: "", wantErr: ErrMalformedBody},
		{name: "Empty payload", body: `<script>window.__STATE__=;</script>`, marker: "window.__STATE__=", wantErr: ErrMalformedBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewEmbeddedAdapter(tt.marker, "", nil)

			_, err := adapter.Extract(tt.body, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Extract error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

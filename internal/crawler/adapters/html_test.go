package adapters

import (
	"errors"
	"testing"
)

const storeTable = `<html><body>
<table class="store-list">
  <tr><th>Number</th><th>Address</th><th>Latitude</th><th>Longitude</th></tr>
  <tr>
    <td> 1138 </td>
    <td>123   Main St,
        Springfield, IL 12345</td>
    <td>39.78</td>
    <td>-89.65</td>
  </tr>
  <tr>
    <td>2187</td>
    <td>456 Oak Ave, Portland, OR 97201</td>
    <td>45.52</td>
    <td>-122.68</td>
  </tr>
</table>
</body></html>`

func TestHTMLAdapter_Extract(t *testing.T) {
	adapter := NewHTMLAdapter("store-list", map[string]string{
		"number":    "number",
		"address":   "address",
		"latitude":  "latitude",
		"longitude": "longitude",
	})

	records, err := adapter.Extract(storeTable, "https://www.acme.example/locations")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.String("number") != "1138" {
		t.Errorf("number = %q", first.String("number"))
	}

	// Cell whitespace, including line breaks, is collapsed.
	if first.String("address") != "123 Main St, Springfield, IL 12345" {
		t.Errorf("address = %q", first.String("address"))
	}

	if records[1].String("latitude") != "45.52" {
		t.Errorf("latitude = %q", records[1].String("latitude"))
	}
}

func TestHTMLAdapter_ClassFilter(t *testing.T) {
	body := `<table class="nav"><tr><th>Link</th></tr><tr><td>Home</td></tr></table>` + storeTable

	adapter := NewHTMLAdapter("store-list", nil)

	records, err := adapter.Extract(body, "")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if records[0].String("number") != "1138" {
		t.Errorf("wrong table selected: %v", records[0])
	}
}

func TestHTMLAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "No table", body: `<html><body><p>nothing</p></body></html>`, wantErr: ErrNoRecordsFound},
		{name: "Header only", body: `<table class="store-list"><tr><th>Number</th></tr></table>`, wantErr: ErrNoRecordsFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewHTMLAdapter("store-list", nil)

			_, err := adapter.Extract(tt.body, "")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Extract error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

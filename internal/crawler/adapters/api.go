package adapters

import (
	"encoding/json"
	"fmt"

	"storecrawl/internal/config"
	"storecrawl/internal/models"
)

// APIAdapter handles the flat JSON shape returned by store-locator search
// endpoints: numeric and string fields directly matching target fields.
type APIAdapter struct {
	recordsPath string
	fieldMap    map[string]string
}

// NewAPIAdapter creates an adapter for JSON API responses.
func NewAPIAdapter(recordsPath string, fieldMap map[string]string) *APIAdapter {
	return &APIAdapter{
		recordsPath: recordsPath,
		fieldMap:    fieldMap,
	}
}

// Shape returns the shape identifier.
func (a *APIAdapter) Shape() string {
	return config.ShapeAPI
}

// Extract decodes the response body and projects each record onto the
// intermediate mapping.
func (a *APIAdapter) Extract(body, _ string) ([]models.RawStore, error) {
	var payload any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}

	records, err := recordsAt(payload, a.recordsPath)
	if err != nil {
		return nil, err
	}

	out := make([]models.RawStore, 0, len(records))
	for _, record := range records {
		out = append(out, applyFieldMap(record, a.fieldMap))
	}

	return out, nil
}

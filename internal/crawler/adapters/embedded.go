package adapters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"storecrawl/internal/config"
	"storecrawl/internal/models"
)

// EmbeddedAdapter handles JSON payloads embedded in page markup, typically
// assigned to a global inside a script tag
// (window.__PRELOADED_STATE__={...}). These payloads routinely carry
// trailing semicolons, unquoted keys, or truncation, so decoding falls back
// to jsonrepair before giving up.
type EmbeddedAdapter struct {
	marker      string
	recordsPath string
	fieldMap    map[string]string
}

// NewEmbeddedAdapter creates an adapter for script-tag embedded JSON.
func NewEmbeddedAdapter(marker, recordsPath string, fieldMap map[string]string) *EmbeddedAdapter {
	return &EmbeddedAdapter{
		marker:      marker,
		recordsPath: recordsPath,
		fieldMap:    fieldMap,
	}
}

// Shape returns the shape identifier.
func (a *EmbeddedAdapter) Shape() string {
	return config.ShapeEmbedded
}

// Extract locates the payload after the configured marker, decodes it
// (repairing sloppy JSON if necessary), and projects each record onto the
// intermediate mapping.
func (a *EmbeddedAdapter) Extract(body, _ string) ([]models.RawStore, error) {
	chunk, err := a.payload(body)
	if err != nil {
		return nil, err
	}

	var decoded any
	if err := json.Unmarshal([]byte(chunk), &decoded); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(chunk)
		if repairErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, repairErr)
		}

		if err := json.Unmarshal([]byte(repaired), &decoded); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
	}

	records, err := recordsAt(decoded, a.recordsPath)
	if err != nil {
		return nil, err
	}

	out := make([]models.RawStore, 0, len(records))
	for _, record := range records {
		out = append(out, applyFieldMap(record, a.fieldMap))
	}

	return out, nil
}

// payload slices the embedded JSON text out of the page body.
func (a *EmbeddedAdapter) payload(body string) (string, error) {
	if a.marker == "" {
		return "", fmt.Errorf("%w: no script marker configured", ErrMalformedBody)
	}

	_, after, found := strings.Cut(body, a.marker)
	if !found {
		return "", fmt.Errorf("%w: marker %q not found", ErrMalformedBody, a.marker)
	}

	if end := strings.Index(after, "</script>"); end >= 0 {
		after = after[:end]
	}

	chunk := strings.TrimSpace(after)
	chunk = strings.TrimSuffix(chunk, ";")

	if chunk == "" {
		return "", fmt.Errorf("%w: empty payload after marker %q", ErrMalformedBody, a.marker)
	}

	return chunk, nil
}

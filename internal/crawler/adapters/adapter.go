// Package adapters turns fetched store-locator payloads into raw store
// mappings. Each upstream shape (paginated API JSON, JSON embedded in
// script tags, table-like HTML) has its own adapter; all of them converge
// on the same intermediate mapping before normalization.
package adapters

import (
	"errors"
	"fmt"

	"storecrawl/internal/config"
	"storecrawl/internal/models"
)

// Adapter errors. These are adapter-level parse failures, logged at error
// level by the caller; the normalization core never sees the affected page.
var (
	ErrUnknownShape   = errors.New("unknown source shape")
	ErrMalformedBody  = errors.New("malformed payload")
	ErrNoRecordsFound = errors.New("no records found at records path")
)

// Adapter extracts raw store mappings from one fetched page or response.
type Adapter interface {
	// Shape names the upstream layout this adapter handles.
	Shape() string
	// Extract parses the body and returns one raw mapping per store.
	Extract(body, pageURL string) ([]models.RawStore, error)
}

// ForSource selects the adapter matching the source's configured shape.
func ForSource(src config.SourceConfig) (Adapter, error) {
	switch src.Shape {
	case config.ShapeAPI:
		return NewAPIAdapter(src.RecordsPath, src.FieldMap), nil
	case config.ShapeEmbedded:
		return NewEmbeddedAdapter(src.ScriptMarker, src.RecordsPath, src.FieldMap), nil
	case config.ShapeHTML:
		return NewHTMLAdapter(src.TableClass, src.FieldMap), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, src.Shape)
}

// applyFieldMap projects a source record onto the canonical intermediate
// keys. An empty field map passes the record through unchanged, for sources
// whose keys already match.
func applyFieldMap(record map[string]any, fieldMap map[string]string) models.RawStore {
	if len(fieldMap) == 0 {
		return models.RawStore(record)
	}

	source := models.RawStore(record)
	out := make(models.RawStore, len(fieldMap))

	for canonical, path := range fieldMap {
		if value, ok := source.Value(path); ok {
			out[canonical] = value
		}
	}

	return out
}

// recordsAt walks the dotted records path inside a decoded payload and
// returns the store record array found there. An empty path expects the
// payload itself to be the array, or a single record object.
func recordsAt(payload any, path string) ([]map[string]any, error) {
	target := payload

	if path != "" {
		wrapped, ok := payload.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: payload is not an object", ErrNoRecordsFound)
		}

		value, found := models.RawStore(wrapped).Value(path)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrNoRecordsFound, path)
		}

		target = value
	}

	switch v := target.(type) {
	case []any:
		records := make([]map[string]any, 0, len(v))

		for _, item := range v {
			if record, ok := item.(map[string]any); ok {
				records = append(records, record)
			}
		}

		if len(records) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrNoRecordsFound, path)
		}

		return records, nil
	case map[string]any:
		return []map[string]any{v}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrNoRecordsFound, path)
}

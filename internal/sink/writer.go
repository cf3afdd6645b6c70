// Package sink persists emitted canonical records. It sits on the
// downstream side of the normalization boundary: it only ever sees records
// that passed validation and deduplication.
package sink

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storecrawl/internal/models"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Writer serializes records to a JSON or JSONL file.
type Writer struct {
	format      string
	prettyPrint bool
}

// NewWriter creates a writer for the given format ("json" or "jsonl").
func NewWriter(format string, prettyPrint bool) *Writer {
	return &Writer{
		format:      format,
		prettyPrint: prettyPrint,
	}
}

// Write persists the records to outputPath, creating parent directories as
// needed.
func (w *Writer) Write(records []*models.Store, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := w.encode(records)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return nil
}

func (w *Writer) encode(records []*models.Store) ([]byte, error) {
	switch w.format {
	case "json":
		if w.prettyPrint {
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal records: %w", err)
			}

			return data, nil
		}

		data, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal records: %w", err)
		}

		return data, nil
	case "jsonl":
		var out []byte

		for _, record := range records {
			line, err := json.Marshal(record)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal record: %w", err)
			}

			out = append(out, line...)
			out = append(out, '\n')
		}

		return out, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
}

// ReadRecords loads canonical records back from a JSON or JSONL file, for
// the exporter and for replay through the pipeline.
func ReadRecords(path string) ([]*models.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}

	// JSON array form.
	var records []*models.Store
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	// JSONL form.
	records = records[:0]

	var parseErr error

	splitLines(data)(func(line []byte) bool {
		if len(line) == 0 {
			return true
		}

		var record models.Store
		if err := json.Unmarshal(line, &record); err != nil {
			parseErr = fmt.Errorf("failed to parse record line: %w", err)
			return false
		}

		records = append(records, &record)

		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("no records found in %s", path)
	}

	return records, nil
}

func splitLines(data []byte) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		start := 0

		for i, b := range data {
			if b != '\n' {
				continue
			}

			if !yield(data[start:i]) {
				return
			}

			start = i + 1
		}

		if start < len(data) {
			yield(data[start:])
		}
	}
}

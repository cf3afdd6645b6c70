package normalizer

import (
	"fmt"
	"log/slog"
	"strings"

	"storecrawl/internal/models"
)

// HoursNormalizer converts raw per-day hour values into the canonical hours
// mapping. It recognizes the "closed" and "open 24 hours" sentinels and
// otherwise cleans the source's literal time strings without converting
// between 12- and 24-hour representations.
type HoursNormalizer struct {
	text *Text
}

// NewHoursNormalizer creates a new hours normalizer.
func NewHoursNormalizer(text *Text) *HoursNormalizer {
	return &HoursNormalizer{text: text}
}

// Normalize maps recognized day keys to their schedule. Unrecognized keys
// are dropped with a diagnostic; unparseable or missing days are omitted. A
// missing hours block yields an empty, non-nil mapping, never an error.
func (h *HoursNormalizer) Normalize(raw any) (models.Hours, []Diagnostic) {
	hours := models.Hours{}

	if raw == nil {
		return hours, nil
	}

	block, ok := raw.(map[string]any)
	if !ok {
		return hours, []Diagnostic{{
			Level:   slog.LevelWarn,
			Field:   "hours",
			Message: fmt.Sprintf("unexpected hours block of type %T", raw),
		}}
	}

	var diags []Diagnostic

	for key, value := range block {
		day, ok := canonicalDay(key)
		if !ok {
			diags = append(diags, Diagnostic{
				Level:   slog.LevelWarn,
				Field:   "hours",
				Message: fmt.Sprintf("dropping unrecognized day key %q", key),
			})

			continue
		}

		schedule, ok, diag := h.normalizeDay(day, value)
		if diag != nil {
			diags = append(diags, *diag)
		}

		if ok {
			hours[day] = schedule
		}
	}

	return hours, diags
}

// normalizeDay handles one day's raw value, which is either an open/close
// object or an already-canonical sentinel string.
func (h *HoursNormalizer) normalizeDay(day string, value any) (models.DayHours, bool, *Diagnostic) {
	switch v := value.(type) {
	case string:
		if note, ok := sentinelNote(v); ok {
			return models.DayHours{Note: note}, true, nil
		}

		return models.DayHours{}, false, &Diagnostic{
			Level:   slog.LevelWarn,
			Field:   "hours",
			Message: fmt.Sprintf("unparseable hours for %s: %q", day, v),
		}
	case map[string]any:
		open := strings.ToLower(h.text.Clean(stringValue(v["open"])))
		closeTime := strings.ToLower(h.text.Clean(stringValue(v["close"])))

		if note, ok := sentinelNote(open); ok {
			return models.DayHours{Note: note}, true, nil
		}

		if open == "" && closeTime == "" {
			return models.DayHours{}, false, nil
		}

		return models.DayHours{Open: open, Close: closeTime}, true, nil
	case nil:
		return models.DayHours{}, false, nil
	}

	return models.DayHours{}, false, &Diagnostic{
		Level:   slog.LevelWarn,
		Field:   "hours",
		Message: fmt.Sprintf("unexpected hours value for %s of type %T", day, value),
	}
}

// sentinelNote maps the upstream closed and 24-hour tokens to the canonical
// sentinel notes.
func sentinelNote(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.HoursClosed:
		return models.HoursClosed, true
	case models.HoursAllDay, "open 24 hours", "open24hours", "24hours":
		return models.HoursAllDay, true
	}

	return "", false
}

func canonicalDay(key string) (string, bool) {
	day := strings.ToLower(strings.TrimSpace(key))

	for _, name := range models.DayNames {
		if day == name {
			return name, true
		}
	}

	return "", false
}

func stringValue(v any) string {
	s, _ := v.(string)

	return s
}

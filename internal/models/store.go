// Package models defines data structures shared by the crawler, normalizer, and sinks.
package models

import (
	"encoding/json"
	"errors"
)

// Canonical day keys, in display order.
var DayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Store is the canonical store record every source converges to.
// It is assembled once by the normalization pipeline and never mutated
// after emission.
type Store struct {
	Number      string   `json:"number,omitempty"`
	Name        string   `json:"name,omitempty"`
	Address     string   `json:"address"`
	Location    GeoPoint `json:"location"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Hours       Hours    `json:"hours"`
	Services    []string `json:"services,omitempty"`
	URL         string   `json:"url"`
	Raw         RawStore `json:"raw"`
}

// GeoPoint is a GeoJSON Point. The zero value marshals to {} which is the
// documented fallback for a failed coordinate validation.
type GeoPoint struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"`
}

// IsZero reports whether the point carries no coordinates.
func (p GeoPoint) IsZero() bool {
	return p.Type == "" && len(p.Coordinates) == 0
}

// Longitude returns the first coordinate, or 0 for an empty point.
func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) == 2 {
		return p.Coordinates[0]
	}

	return 0
}

// Latitude returns the second coordinate, or 0 for an empty point.
func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) == 2 {
		return p.Coordinates[1]
	}

	return 0
}

// Hours maps lowercase day names to that day's schedule. A wholly unknown
// hours block is an empty, non-nil map.
type Hours map[string]DayHours

// Day schedule sentinels.
const (
	HoursClosed = "closed"
	HoursAllDay = "24 hours"
)

// DayHours is one day's schedule: either an open/close pair or one of the
// sentinel notes ("closed", "24 hours"). The JSON form mirrors the upstream
// schema: sentinel days serialize as a bare string, regular days as
// {"open": ..., "close": ...}.
type DayHours struct {
	Open  string
	Close string
	Note  string
}

type openClose struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// ErrInvalidDayHours is returned when a day's schedule is neither a sentinel
// string nor an open/close object.
var ErrInvalidDayHours = errors.New("invalid day hours value")

// MarshalJSON serializes sentinel days as strings, regular days as objects.
func (d DayHours) MarshalJSON() ([]byte, error) {
	if d.Note != "" {
		return json.Marshal(d.Note)
	}

	return json.Marshal(openClose{Open: d.Open, Close: d.Close})
}

// UnmarshalJSON accepts both the sentinel-string and the open/close forms.
func (d *DayHours) UnmarshalJSON(data []byte) error {
	var note string
	if err := json.Unmarshal(data, &note); err == nil {
		d.Note = note
		d.Open = ""
		d.Close = ""

		return nil
	}

	var oc openClose
	if err := json.Unmarshal(data, &oc); err != nil {
		return ErrInvalidDayHours
	}

	d.Open = oc.Open
	d.Close = oc.Close
	d.Note = ""

	return nil
}

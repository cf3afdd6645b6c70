package normalizer

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"storecrawl/internal/models"
)

// Coordinate validation errors. Both are consumed by the pipeline for
// diagnostics and never abort a run.
var (
	ErrCoordinateParse = errors.New("coordinates are not numeric")
	ErrCoordinateRange = errors.New("coordinates out of range")
)

// BuildPoint coerces the raw latitude and longitude values to floats and
// returns a GeoJSON Point with coordinates ordered [longitude, latitude].
// Any failure yields an empty point plus the describing error; it never
// panics.
func BuildPoint(latRaw, lonRaw any) (models.GeoPoint, error) {
	lat, err := coerceFloat(latRaw)
	if err != nil {
		return models.GeoPoint{}, err
	}

	lon, err := coerceFloat(lonRaw)
	if err != nil {
		return models.GeoPoint{}, err
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return models.GeoPoint{}, ErrCoordinateRange
	}

	return models.GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lon, lat},
	}, nil
}

func coerceFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, ErrCoordinateParse
		}

		return f, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrCoordinateParse
		}

		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, ErrCoordinateParse
		}

		return f, nil
	}

	return 0, ErrCoordinateParse
}

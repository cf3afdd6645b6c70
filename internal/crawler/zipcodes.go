package crawler

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Zipcode is one entry of the zipcode seed file used to expand URL
// templates for API sources that search by coordinates.
type Zipcode struct {
	Zipcode   string  `json:"zipcode"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LoadZipcodes loads the zipcode seed data from a JSON file.
func LoadZipcodes(path string) ([]Zipcode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read zipcode file %s: %w", path, err)
	}

	var zipcodes []Zipcode
	if err := json.Unmarshal(data, &zipcodes); err != nil {
		return nil, fmt.Errorf("invalid zipcode file %s: %w", path, err)
	}

	return zipcodes, nil
}

// ExpandURL substitutes {zipcode}, {latitude}, and {longitude} in the
// template for one seed entry.
func (z Zipcode) ExpandURL(template string) string {
	replacer := strings.NewReplacer(
		"{zipcode}", z.Zipcode,
		"{latitude}", strconv.FormatFloat(z.Latitude, 'f', -1, 64),
		"{longitude}", strconv.FormatFloat(z.Longitude, 'f', -1, 64),
	)

	return replacer.Replace(template)
}

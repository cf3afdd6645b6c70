package normalizer

import "storecrawl/internal/models"

// Required canonical record fields.
const (
	FieldAddress  = "address"
	FieldLocation = "location"
	FieldURL      = "url"
	FieldRaw      = "raw"
)

// Validator enforces required-field presence on an assembled candidate
// record.
type Validator struct{}

// NewValidator creates a new record validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate reports whether the candidate carries every required field and,
// if not, which ones are missing. A structurally present but empty location
// point counts as missing: a geolocation failure downgrades the whole record.
// It never panics; the diagnostic is the return value.
func (v *Validator) Validate(candidate *models.Store) (bool, []string) {
	var missing []string

	if candidate.Address == "" {
		missing = append(missing, FieldAddress)
	}

	if candidate.Location.IsZero() {
		missing = append(missing, FieldLocation)
	}

	if candidate.URL == "" {
		missing = append(missing, FieldURL)
	}

	if len(candidate.Raw) == 0 {
		missing = append(missing, FieldRaw)
	}

	return len(missing) == 0, missing
}

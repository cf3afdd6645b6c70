package normalizer

import (
	"fmt"
	"log/slog"
	"strings"

	"storecrawl/internal/models"
)

// Options configures one pipeline instance.
type Options struct {
	// Brand is the display name substituted for placeholder tokens in
	// service strings, e.g. "Albertsons" for "[c_groceryBrand]".
	Brand string
	// Placeholders lists the tokens replaced by Brand.
	Placeholders []string
	// KeyPolicy selects the duplicate key composition.
	KeyPolicy KeyPolicy
}

// Result is the terminal outcome for one raw input: an emitted record or a
// rejection, plus any non-fatal diagnostics gathered along the way.
type Result struct {
	Store       *models.Store
	Rejection   *models.Rejection
	Diagnostics []Diagnostic
}

// Emitted reports whether the record reached the emitted terminal state.
func (r Result) Emitted() bool {
	return r.Store != nil && r.Rejection == nil
}

// Pipeline orchestrates the field normalizers, the record validator, and
// the deduplicator. Construct one pipeline per crawl run; its deduplication
// state is run-scoped and never shared between runs.
type Pipeline struct {
	text         *Text
	address      *Address
	hours        *HoursNormalizer
	services     *Services
	validator    *Validator
	dedup        *Deduplicator
	placeholders map[string]string
}

// NewPipeline wires up a pipeline with fresh run-scoped state.
func NewPipeline(opts Options) *Pipeline {
	text := NewText()

	placeholders := make(map[string]string, len(opts.Placeholders))
	for _, token := range opts.Placeholders {
		placeholders[token] = opts.Brand
	}

	return &Pipeline{
		text:         text,
		address:      NewAddress(text),
		hours:        NewHoursNormalizer(text),
		services:     NewServices(text),
		validator:    NewValidator(),
		dedup:        NewDeduplicator(opts.KeyPolicy),
		placeholders: placeholders,
	}
}

// Process runs one raw mapping through normalization, validation, and
// deduplication. Per-field failures downgrade to the documented fallback
// values and a diagnostic; the result is always one of the three terminal
// states and no panic escapes the pipeline.
func (p *Pipeline) Process(raw models.RawStore, sourceURL string) Result {
	var diags []Diagnostic

	candidate := &models.Store{
		Number:      p.text.Clean(raw.String("number")),
		Name:        p.text.Clean(raw.String("name")),
		Address:     p.normalizeAddress(raw),
		PhoneNumber: p.text.Clean(raw.String("phone_number")),
		URL:         sourceURL,
		Raw:         raw.Clone(),
	}

	location, err := p.normalizeLocation(raw)
	if err != nil {
		diags = append(diags, Diagnostic{
			Level:   slog.LevelWarn,
			Field:   FieldLocation,
			Message: fmt.Sprintf("coordinate validation failed: %v", err),
		})
	}

	candidate.Location = location

	hoursValue, _ := raw.Value("hours")
	hours, hourDiags := p.hours.Normalize(hoursValue)
	candidate.Hours = hours
	diags = append(diags, hourDiags...)

	candidate.Services = p.services.Format(raw.Strings("services"), p.placeholders)

	if ok, missing := p.validator.Validate(candidate); !ok {
		diags = append(diags, Diagnostic{
			Level:   slog.LevelWarn,
			Message: fmt.Sprintf("dropping record missing required fields: %s", strings.Join(missing, ", ")),
		})

		return Result{
			Rejection:   &models.Rejection{Reason: models.RejectInvalid, MissingFields: missing},
			Diagnostics: diags,
		}
	}

	key := p.dedup.Key(candidate)
	if !p.dedup.CheckAndRecord(key) {
		diags = append(diags, Diagnostic{
			Level:   slog.LevelDebug,
			Message: fmt.Sprintf("suppressing duplicate record %q", key),
		})

		return Result{
			Rejection:   &models.Rejection{Reason: models.RejectDuplicate},
			Diagnostics: diags,
		}
	}

	return Result{Store: candidate, Diagnostics: diags}
}

// EmittedCount returns how many records this pipeline has emitted so far.
func (p *Pipeline) EmittedCount() int {
	return p.dedup.Len()
}

// normalizeAddress prefers a pre-composed address string when the source
// delivers one, else composes it from the individual components.
func (p *Pipeline) normalizeAddress(raw models.RawStore) string {
	if address := p.text.Clean(raw.String("address")); address != "" {
		return address
	}

	return p.address.Format(AddressComponents{
		Street:  raw.String("street"),
		Street2: raw.String("street2"),
		City:    raw.String("city"),
		State:   raw.String("state"),
		Zip:     raw.String("zip"),
	})
}

// normalizeLocation builds the GeoJSON point from the raw coordinate
// fields. Missing coordinates fall through to a parse error so the empty
// point carries a diagnostic.
func (p *Pipeline) normalizeLocation(raw models.RawStore) (models.GeoPoint, error) {
	latRaw, _ := raw.Value("latitude")
	lonRaw, _ := raw.Value("longitude")

	return BuildPoint(latRaw, lonRaw)
}

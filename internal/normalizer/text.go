// Package normalizer converts raw store mappings extracted by the source
// adapters into canonical store records.
package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Text provides the shared string cleanup used by address, phone, and
// service formatting. All methods are pure and never fail.
type Text struct{}

// NewText creates a new text normalizer.
func NewText() *Text {
	return &Text{}
}

// Clean collapses internal whitespace runs to single spaces and trims the
// edges. Empty or whitespace-only input yields "".
func (t *Text) Clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanService substitutes each placeholder token with its configured brand
// display name, then title-cases the result word by word.
func (t *Text) CleanService(raw string, placeholders map[string]string) string {
	s := raw
	for token, brand := range placeholders {
		s = strings.ReplaceAll(s, token, brand)
	}

	s = t.Clean(s)
	if s == "" {
		return ""
	}

	// Caser instances are not safe for concurrent use, so build one per call.
	return cases.Title(language.AmericanEnglish).String(s)
}

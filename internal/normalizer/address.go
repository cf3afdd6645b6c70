package normalizer

import "strings"

// AddressComponents holds the raw pieces of a postal address before
// formatting. Any component may be empty.
type AddressComponents struct {
	Street  string
	Street2 string
	City    string
	State   string
	Zip     string
}

// Address composes a single formatted address string from raw components.
type Address struct {
	text *Text
}

// NewAddress creates a new address formatter.
func NewAddress(text *Text) *Address {
	return &Address{text: text}
}

// Format joins the non-empty components with ", ", in street, street2,
// city/state/zip order. City, state, and zip are space-joined into one
// component first. An all-empty input yields "", which the validator treats
// as a missing required field.
func (a *Address) Format(c AddressComponents) string {
	cityStateZip := joinNonEmpty(" ",
		a.text.Clean(c.City),
		a.text.Clean(c.State),
		a.text.Clean(c.Zip),
	)

	return joinNonEmpty(", ",
		a.text.Clean(c.Street),
		a.text.Clean(c.Street2),
		cityStateZip,
	)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]

	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}

	return strings.Join(kept, sep)
}

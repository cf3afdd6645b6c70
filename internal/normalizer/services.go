package normalizer

// Services cleans and deduplicates a raw list of service strings.
type Services struct {
	text *Text
}

// NewServices creates a new service list formatter.
func NewServices(text *Text) *Services {
	return &Services{text: text}
}

// Format applies CleanService to each entry, discards empty results, and
// removes duplicates while preserving first-seen order.
func (s *Services) Format(raw []string, placeholders map[string]string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, entry := range raw {
		cleaned := s.text.CleanService(entry, placeholders)
		if cleaned == "" {
			continue
		}

		if _, dup := seen[cleaned]; dup {
			continue
		}

		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}

	if len(out) == 0 {
		return nil
	}

	return out
}

package normalizer

import "log/slog"

// Diagnostic is a non-fatal finding produced while normalizing one record.
// The core never logs directly; callers forward diagnostics to whatever
// observability layer the host wires up.
type Diagnostic struct {
	Level   slog.Level
	Field   string
	Message string
}

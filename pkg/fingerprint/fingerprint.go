// Package fingerprint computes stable content hashes for store records, so
// whole-record duplicates can be detected across runs and representations.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Sum returns the SHA-256 hex digest of the value's canonical JSON form.
// The value is round-tripped through generic JSON first, so struct and map
// representations of the same record hash identically and key order never
// matters.
func Sum(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal value: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return "", fmt.Errorf("failed to canonicalize value: %w", err)
	}

	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to marshal canonical form: %w", err)
	}

	hash := sha256.Sum256(canonical)

	return hex.EncodeToString(hash[:]), nil
}

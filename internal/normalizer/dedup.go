package normalizer

import (
	"sync"

	"storecrawl/internal/models"
)

// KeyPolicy selects how a record's duplicate key is composed. Store numbers
// are reused across regions by some chains, so the composition is
// configurable rather than fixed.
type KeyPolicy string

// Supported key policies.
const (
	// KeyAuto uses the store number when present, else address plus URL.
	KeyAuto KeyPolicy = "auto"
	// KeyNumber always keys on the store number, falling back to
	// address plus URL for records without one.
	KeyNumber KeyPolicy = "number"
	// KeyAddressURL always keys on the cleaned address plus source URL.
	KeyAddressURL KeyPolicy = "address_url"
)

// Deduplicator tracks identifiers already emitted in the current run and
// suppresses repeats. State is run-scoped: one Deduplicator per crawl run,
// discarded at run end. Check-then-record is atomic so that parallel
// normalization of overlapping inputs emits each store at most once.
type Deduplicator struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	policy KeyPolicy
}

// NewDeduplicator creates an empty run-scoped deduplicator.
func NewDeduplicator(policy KeyPolicy) *Deduplicator {
	if policy == "" {
		policy = KeyAuto
	}

	return &Deduplicator{
		seen:   make(map[string]struct{}),
		policy: policy,
	}
}

// Key composes the duplicate key for a validated record per the configured
// policy.
func (d *Deduplicator) Key(s *models.Store) string {
	byAddress := s.Address + "|" + s.URL

	switch d.policy {
	case KeyAddressURL:
		return byAddress
	default:
		if s.Number != "" {
			return "#" + s.Number
		}

		return byAddress
	}
}

// Seen reports whether the key was already recorded.
func (d *Deduplicator) Seen(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.seen[key]

	return ok
}

// Record marks the key as emitted.
func (d *Deduplicator) Record(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[key] = struct{}{}
}

// CheckAndRecord atomically records the key, reporting true the first time
// it is seen.
func (d *Deduplicator) CheckAndRecord(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, dup := d.seen[key]; dup {
		return false
	}

	d.seen[key] = struct{}{}

	return true
}

// Len returns the number of recorded keys.
func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.seen)
}

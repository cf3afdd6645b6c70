package normalizer

import (
	"sync"
	"testing"

	"storecrawl/internal/models"
)

func TestDeduplicator_Key(t *testing.T) {
	numbered := &models.Store{Number: "1138", Address: "1 First St, Reno NV 89501", URL: "https://a"}
	unnumbered := &models.Store{Address: "1 First St, Reno NV 89501", URL: "https://a"}

	tests := []struct {
		name   string
		policy KeyPolicy
		store  *models.Store
		want   string
	}{
		{name: "Auto with number", policy: KeyAuto, store: numbered, want: "#1138"},
		{name: "Auto without number", policy: KeyAuto, store: unnumbered, want: "1 First St, Reno NV 89501|https://a"},
		{name: "Number policy falls back", policy: KeyNumber, store: unnumbered, want: "1 First St, Reno NV 89501|https://a"},
		{name: "Address policy ignores number", policy: KeyAddressURL, store: numbered, want: "1 First St, Reno NV 89501|https://a"},
		{name: "Empty policy defaults to auto", policy: "", store: numbered, want: "#1138"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeduplicator(tt.policy)
			if got := d.Key(tt.store); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeduplicator_SeenAndRecord(t *testing.T) {
	d := NewDeduplicator(KeyAuto)

	if d.Seen("#1138") {
		t.Error("fresh deduplicator should not have seen anything")
	}

	d.Record("#1138")

	if !d.Seen("#1138") {
		t.Error("recorded key should be seen")
	}

	if d.Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.Len())
	}
}

func TestDeduplicator_CheckAndRecord(t *testing.T) {
	d := NewDeduplicator(KeyAuto)

	if !d.CheckAndRecord("#1138") {
		t.Error("first check should report new")
	}

	if d.CheckAndRecord("#1138") {
		t.Error("second check should report duplicate")
	}
}

func TestDeduplicator_ConcurrentCheckAndRecord(t *testing.T) {
	d := NewDeduplicator(KeyAuto)

	const workers = 32

	var wg sync.WaitGroup

	var mu sync.Mutex

	firsts := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if d.CheckAndRecord("#1138") {
				mu.Lock()
				firsts++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if firsts != 1 {
		t.Errorf("expected exactly one first-time record, got %d", firsts)
	}
}

package fingerprint

import "testing"

func TestSum_KeyOrderIndependent(t *testing.T) {
	a := map[string]any{"number": "1138", "name": "Acme Reno", "zip": "89501"}
	b := map[string]any{"zip": "89501", "number": "1138", "name": "Acme Reno"}

	sumA, err := Sum(a)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	sumB, err := Sum(b)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	if sumA != sumB {
		t.Errorf("fingerprints differ for equal records: %s vs %s", sumA, sumB)
	}
}

func TestSum_StructAndMapAgree(t *testing.T) {
	type record struct {
		Number string `json:"number"`
		Name   string `json:"name"`
	}

	fromStruct, err := Sum(record{Number: "7", Name: "Acme"})
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	fromMap, err := Sum(map[string]any{"number": "7", "name": "Acme"})
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}

	if fromStruct != fromMap {
		t.Errorf("struct and map fingerprints differ: %s vs %s", fromStruct, fromMap)
	}
}

func TestSum_DetectsChange(t *testing.T) {
	base, _ := Sum(map[string]any{"number": "1138"})
	changed, _ := Sum(map[string]any{"number": "1139"})

	if base == changed {
		t.Error("different records should not collide")
	}
}

func TestSum_Unmarshalable(t *testing.T) {
	if _, err := Sum(make(chan int)); err == nil {
		t.Error("expected error for unmarshalable value")
	}
}

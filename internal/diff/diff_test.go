package diff

import "testing"

func TestDiffMapInsertUpdateRemove(t *testing.T) {
	base := map[string]int{"a": 1, "b": 2, "c": 3}
	target := map[string]int{"a": 1, "b": 20, "d": 4}

	d := DiffMap(base, target)

	if len(d.Insert) != 1 || d.Insert[0].Key != "d" || d.Insert[0].Value != 4 {
		t.Fatalf("expected single insert of d=4, got %+v", d.Insert)
	}
	if len(d.Update) != 1 || d.Update[0].Key != "b" || d.Update[0].Value != 20 {
		t.Fatalf("expected single update of b=20, got %+v", d.Update)
	}
	if len(d.Remove) != 1 || d.Remove[0] != "c" {
		t.Fatalf("expected single removal of c, got %+v", d.Remove)
	}
}

func TestDiffMapOfEqualMapsIsEmpty(t *testing.T) {
	base := map[string]int{"a": 1, "b": 2}
	target := map[string]int{"a": 1, "b": 2}

	d := DiffMap(base, target)
	if !d.IsEmpty() {
		t.Fatalf("expected empty diff for identical maps, got %+v", d)
	}
}

func TestApplyMapRoundTrips(t *testing.T) {
	base := map[string]int{"a": 1, "b": 2, "c": 3}
	target := map[string]int{"a": 1, "b": 20, "d": 4}

	d := DiffMap(base, target)
	ApplyMap(base, d)

	if len(base) != len(target) {
		t.Fatalf("expected %d keys after apply, got %d: %+v", len(target), len(base), base)
	}
	for k, v := range target {
		if base[k] != v {
			t.Errorf("key %q: expected %d, got %d", k, v, base[k])
		}
	}
}

func TestApplyMapOnEmptyBaseIsFullSnapshot(t *testing.T) {
	target := map[int]string{1: "one", 2: "two"}
	d := DiffMap(map[int]string{}, target)

	base := make(map[int]string)
	ApplyMap(base, d)

	if len(base) != len(target) {
		t.Fatalf("expected %d keys, got %d", len(target), len(base))
	}
	for k, v := range target {
		if base[k] != v {
			t.Errorf("key %d: expected %q, got %q", k, v, base[k])
		}
	}
}

func TestDiffMapIgnoresPointerIdentity(t *testing.T) {
	type rec struct{ N int }
	base := map[int]rec{1: {N: 5}}
	target := map[int]rec{1: {N: 5}}

	d := DiffMap(base, target)
	if !d.IsEmpty() {
		t.Fatalf("equal-by-value structs must not produce an update, got %+v", d)
	}
}

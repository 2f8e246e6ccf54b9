package pricing

import "testing"

func TestEncoderLexicographicCodes(t *testing.T) {
	e := NewEncoder([]string{"Pune", "Delhi", "Mumbai", "Delhi"})

	tests := []struct {
		label string
		want  int
	}{
		{"Delhi", 0},
		{"Mumbai", 1},
		{"Pune", 2},
	}
	for _, tt := range tests {
		got, ok := e.Encode(tt.label)
		if !ok {
			t.Fatalf("Encode(%q): not found", tt.label)
		}
		if got != tt.want {
			t.Errorf("Encode(%q) = %d; want %d", tt.label, got, tt.want)
		}
	}
	if e.Len() != 3 {
		t.Errorf("Len: got %d, want 3", e.Len())
	}
}

func TestEncoderUnknownLabel(t *testing.T) {
	e := NewEncoder([]string{"Pune"})
	if _, ok := e.Encode("Atlantis"); ok {
		t.Error("Encode should not know Atlantis")
	}
	if _, ok := e.Encode("pune"); ok {
		t.Error("Encode should be case-sensitive")
	}
	if e.Len() != 1 {
		t.Errorf("unknown lookups must not grow the encoder, Len = %d", e.Len())
	}
}

func TestEncoderDecodeRoundTrip(t *testing.T) {
	e := NewEncoder([]string{"Vegetables", "Food", "Dairy"})
	for _, label := range e.Classes() {
		code, _ := e.Encode(label)
		back, ok := e.Decode(code)
		if !ok || back != label {
			t.Errorf("Decode(Encode(%q)) = %q, %v", label, back, ok)
		}
	}
	if _, ok := e.Decode(-1); ok {
		t.Error("Decode(-1) should fail")
	}
	if _, ok := e.Decode(3); ok {
		t.Error("Decode(3) should fail")
	}
}

func TestEncoderCodesStableAndDense(t *testing.T) {
	labels := []string{"b", "a", "d", "c", "a", "e", "b"}
	e := NewEncoder(labels)

	seen := make(map[int]string)
	for _, l := range labels {
		code, ok := e.Encode(l)
		if !ok {
			t.Fatalf("Encode(%q): not found", l)
		}
		if code < 0 || code >= e.Len() {
			t.Errorf("code %d for %q out of [0, %d)", code, l, e.Len())
		}
		if prev, dup := seen[code]; dup && prev != l {
			t.Errorf("code %d shared by %q and %q", code, prev, l)
		}
		seen[code] = l

		again, _ := e.Encode(l)
		if again != code {
			t.Errorf("Encode(%q) not stable: %d then %d", l, code, again)
		}
	}
}

func TestEncoderRefitIsReproducible(t *testing.T) {
	a := NewEncoder([]string{"Pune", "Delhi", "Agra"})
	b := NewEncoder([]string{"Agra", "Pune", "Delhi", "Pune"})
	for _, l := range a.Classes() {
		ca, _ := a.Encode(l)
		cb, _ := b.Encode(l)
		if ca != cb {
			t.Errorf("%q: %d vs %d across refits", l, ca, cb)
		}
	}
}

func TestEncoderClassesIsCopy(t *testing.T) {
	e := NewEncoder([]string{"x", "y"})
	c := e.Classes()
	c[0] = "mutated"
	if got, _ := e.Decode(0); got != "x" {
		t.Errorf("Classes leaked internal slice, Decode(0) = %q", got)
	}
}

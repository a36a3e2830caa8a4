package id

import "testing"

func TestRandomGenerator_NewID(t *testing.T) {
	t.Parallel()

	g := NewRandomGenerator()
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		v := g.NewID()
		if len(v) != 16 {
			t.Fatalf("unexpected id length %d for %q", len(v), v)
		}
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = struct{}{}
	}
}

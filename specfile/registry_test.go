package specfile

import (
	"slices"
	"testing"
)

func TestRegistry_Select(t *testing.T) {
	reg := parseFixture(t, "duplicates.spec")

	fives := reg.Select(func(s *Scan) bool { return s.Number == 5 })

	if fives.Len() != 2 {
		t.Fatalf("want 2 scans, got %d", fives.Len())
	}

	if s, err := fives.Lookup(7); err == nil {
		t.Errorf("scan 7 should be filtered out: %v", s)
	}

	if s, ok := fives.Get(5, 1); !ok || s != reg.At(2) {
		t.Error("selected scans should keep their index")
	}

	if !slices.Equal(fives.Headers(), reg.Headers()) {
		t.Error("headers should carry over")
	}
}

func TestRegistry_Empty(t *testing.T) {
	reg := newRegistry()

	if reg.Len() != 0 || reg.Header() != nil || len(reg.Headers()) != 0 {
		t.Error("empty registry should be empty")
	}

	if all := reg.All(1); len(all) != 0 {
		t.Errorf("All: %v", all)
	}

	for range reg.Scans() {
		t.Error("empty registry should yield nothing")
	}
}

func TestRegistry_HeaderDedup(t *testing.T) {
	reg := newRegistry()
	h := &FileHeader{}

	reg.addHeader(h)
	reg.add(&Scan{Number: 1, Header: h})
	reg.add(&Scan{Number: 2, Header: h})

	if got := len(reg.Headers()); got != 1 {
		t.Errorf("want 1 header, got %d", got)
	}
}

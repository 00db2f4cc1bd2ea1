package specfile

import (
	"errors"
	"slices"
	"testing"
	"time"
)

func TestHeader_Fields(t *testing.T) {
	const input = `#F /data/h.spec
#E not-a-number
#D Thu Feb 25 14:20:14 2010
#C first
#C second
#J0 Monitor  Detector
#J1 Seconds
stray text
#W weird  marker
`

	h, err := NewFromString(input).Header()
	if err != nil {
		t.Fatalf("header: %v", err)
	}

	if h.File != "/data/h.spec" || h.Line != 1 {
		t.Errorf("file %q, line %d", h.File, h.Line)
	}

	if h.Epoch != 0 || len(h.Diagnostics) != 1 || !errors.Is(h.Diagnostics[0], ErrInvalidNumber) {
		t.Errorf("epoch %d, diagnostics %v", h.Epoch, h.Diagnostics)
	}

	if got := h.Unrecognized.Get("E"); !slices.Equal(got, []string{"not-a-number"}) {
		t.Errorf("bad epoch should be kept: %q", got)
	}

	want := time.Date(2010, time.February, 25, 14, 20, 14, 0, time.UTC)
	if !h.Time.Equal(want) || h.Date != "Thu Feb 25 14:20:14 2010" {
		t.Errorf("date %q, time %v", h.Date, h.Time)
	}

	if !slices.Equal(h.Comments, []string{"first", "second"}) {
		t.Errorf("comments: %q", h.Comments)
	}

	if got := h.Counters.Labels(); !slices.Equal(got, []string{"Monitor", "Detector", "Seconds"}) {
		t.Errorf("counters: %q", got)
	}

	if h.Motors != nil {
		t.Errorf("motors should be undeclared: %v", h.Motors.Labels())
	}

	if !slices.Equal(h.Stray, []string{"stray text"}) {
		t.Errorf("stray: %q", h.Stray)
	}

	if got := h.Unrecognized.Get("W"); !slices.Equal(got, []string{"weird  marker"}) {
		t.Errorf("unrecognized: %q", got)
	}
}

func TestHeader_Inheritance(t *testing.T) {
	const input = `#F /data/a.spec
#E 100
#O0 A  B

#S 1 x
#N 1
#L Det
1

#E 200
#C new block

#S 2 y
#N 1
#L Det
2
`

	reg, err := NewFromString(input).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	h1, h2 := reg.At(0).Header, reg.At(1).Header

	if h1 == h2 {
		t.Fatal("a header block between scans should start a new header")
	}

	if h2.File != "/data/a.spec" || h2.Epoch != 200 || h1.Epoch != 100 {
		t.Errorf("h1 epoch %d, h2 file %q epoch %d", h1.Epoch, h2.File, h2.Epoch)
	}

	if h2.Motors != h1.Motors {
		t.Error("undeclared motor map should be shared")
	}

	if len(h1.Comments) != 0 || !slices.Equal(h2.Comments, []string{"new block"}) {
		t.Errorf("comments do not carry over: %q %q", h1.Comments, h2.Comments)
	}
}

func TestHeader_Empty(t *testing.T) {
	p := NewFromString("#S 1 x\n#N 1\n#L A\n1\n")

	h, err := p.Header()
	if err != nil {
		t.Fatalf("header: %v", err)
	}

	if h == nil || h.File != "" || h.Motors.Len() != 0 {
		t.Errorf("want empty header, got %+v", h)
	}

	s, err := p.NextScan()
	if err != nil {
		t.Fatalf("next scan: %v", err)
	}

	if s.Header != h {
		t.Error("scan should use the empty header")
	}
}

package cmd

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/specscan/specfile"
)

func TestShow_Text(t *testing.T) {
	out, err := run(t, nil, "show", "1", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"1.0",
		"ascan  th 0 1 3 1",
		"seconds 1 (Seconds)",
		"Two Theta=0.8",
		"Sample Y=-2",
		"Seconds, Monitor, Detector",
		"Theta",
		"1000",
		"21",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestShow_Comment(t *testing.T) {
	out, err := run(t, nil, "show", "2", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "[1] point comment") {
		t.Errorf("missing point comment:\n%s", out)
	}

	if !strings.Contains(out, "monitor 20000 (Monitor)") {
		t.Errorf("missing counting:\n%s", out)
	}
}

func TestShow_Lookup(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{"ambiguous", []string{"show", "5", fixture("duplicates.spec")}, "", specfile.ErrAmbiguousScan},
		{"unique", []string{"show", "7", fixture("duplicates.spec")}, "second", nil},
		{"by_index", []string{"show", "5", "--index", "1", fixture("duplicates.spec")}, "third", nil},
		{"missing_index", []string{"show", "5", "-n", "2", fixture("duplicates.spec")}, "", specfile.ErrScanNotFound},
		{"missing_number", []string{"show", "9", fixture("duplicates.spec")}, "", specfile.ErrScanNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, nil, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("want %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			if !strings.Contains(out, tt.want) {
				t.Errorf("missing %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestShow_JSON(t *testing.T) {
	out, err := run(t, nil, "show", "2", "--format", "json", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Number  int                  `json:"number"`
		Points  int                  `json:"points"`
		Columns map[string][]float64 `json:"columns"`
	}

	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if doc.Number != 2 || doc.Points != 2 {
		t.Errorf("unexpected scan: %+v", doc)
	}

	if got := doc.Columns["Detector"]; len(got) != 2 || got[0] != 5 || got[1] != 7 {
		t.Errorf("unexpected Detector column: %v", got)
	}
}

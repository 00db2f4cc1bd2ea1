package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDump_JSON(t *testing.T) {
	out, err := run(t, nil, "dump", "json", "--indent", "0", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	var doc struct {
		Headers []struct {
			File string `json:"file"`
		} `json:"headers"`
		Scans []struct {
			Number  int    `json:"number"`
			Command string `json:"command"`
			Points  int    `json:"points"`
			Header  int    `json:"header"`

			Counters map[string][]float64 `json:"counters"`
		} `json:"scans"`
	}

	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}

	if len(doc.Headers) != 1 || doc.Headers[0].File != "/data/simple.spec" {
		t.Errorf("unexpected headers: %+v", doc.Headers)
	}

	if len(doc.Scans) != 2 {
		t.Fatalf("want 2 scans, got %d", len(doc.Scans))
	}

	if s := doc.Scans[0]; s.Number != 1 || s.Points != 3 || s.Header != 0 {
		t.Errorf("unexpected first scan: %+v", s)
	}

	if s := doc.Scans[1]; s.Number != 2 || s.Command != "timescan  1" || s.Points != 2 {
		t.Errorf("unexpected second scan: %+v", s)
	}

	if got := doc.Scans[1].Counters["Detector"]; len(got) != 2 || got[1] != 7 {
		t.Errorf("detector counter: %v", got)
	}

	if strings.Count(out, "\n") != 1 {
		t.Errorf("compact output should be one line:\n%s", out)
	}
}

func TestDump_YAML(t *testing.T) {
	out, err := run(t, nil, "dump", "yaml", "--where", "number == 2", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, "timescan") || strings.Contains(out, "ascan") {
		t.Errorf("want only scan 2:\n%s", out)
	}

	if !strings.Contains(out, "headers:") || !strings.Contains(out, "Detector") {
		t.Errorf("missing content:\n%s", out)
	}
}

func TestDump_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative_indent", []string{"dump", "json", "--indent=-1", fixture("simple.spec")}},
		{"bad_format", []string{"dump", "xml", fixture("simple.spec")}},
		{"bad_filter", []string{"dump", "json", "--where", "points >", fixture("simple.spec")}},
		{"missing_file", []string{"dump", "json", fixture("missing.spec")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, nil, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

package specfile

import (
	"regexp"
	"slices"
	"strings"
)

// continuation buffers the payloads of one numbered marker series
// (#O0, #O1, ...) until the logical field is complete.
type continuation struct {
	parts []part
}

type part struct {
	suffix  int
	payload string
}

func (c *continuation) add(suffix int, payload string) {
	c.parts = append(c.parts, part{suffix: suffix, payload: payload})
}

func (c *continuation) empty() bool { return len(c.parts) == 0 }

// payloads returns the buffered payloads ordered by suffix. Payloads sharing
// a suffix keep their arrival order.
func (c *continuation) payloads() []string {
	sorted := slices.Clone(c.parts)
	slices.SortStableFunc(sorted, func(a, b part) int { return a.suffix - b.suffix })

	out := make([]string, len(sorted))
	for i, p := range sorted {
		out[i] = p.payload
	}

	return out
}

// fields splits every payload with split and concatenates the results in
// suffix order. Splitting per line keeps reassembly independent of where the
// writer chose to break the field across lines.
func (c *continuation) fields(split func(string) []string) []string {
	var out []string
	for _, p := range c.payloads() {
		out = append(out, split(p)...)
	}

	return out
}

// labelSep separates labels: runs of two or more whitespace characters, or a
// tab. Labels themselves may contain single spaces ("Two Theta").
var labelSep = regexp.MustCompile(`\s{2,}|\t`)

func splitLabels(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return labelSep.Split(s, -1)
}

package specfile

import (
	"strconv"
	"strings"
	"unicode"
)

// Kind is the syntactic category of a single input line.
type Kind int

const (
	KindBlank      Kind = iota // blank
	KindHeader                 // header
	KindScanHeader             // scan-header
	KindDataRow                // data
	KindUnknown                // unknown
)

// String returns the name of k.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindHeader:
		return "header"
	case KindScanHeader:
		return "scan-header"
	case KindDataRow:
		return "data"
	case KindUnknown:
		return "unknown"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Marker is the leading token of a metadata line, e.g. "#O2" has token "O2",
// base "O", and suffix 2.
type Marker struct {
	Token    string
	Base     string
	Suffix   int
	Numbered bool
}

// IsZero reports whether m is the zero Marker.
func (m Marker) IsZero() bool { return m.Token == "" }

// String returns the marker as it appears in the file.
func (m Marker) String() string {
	if m.Token == "" {
		return ""
	}

	return "#" + m.Token
}

// Classification is the result of classifying one raw line.
type Classification struct {
	Kind    Kind
	Marker  Marker
	Payload string
	Raw     string
}

// Classify determines the category of line. The open flag reports whether a
// scan is currently open, which decides between [KindHeader] and
// [KindScanHeader] for marker lines, and between [KindDataRow] and
// [KindUnknown] for everything else.
//
// Classify never fails: anything it cannot place is [KindUnknown].
func Classify(line string, open bool) Classification {
	c := Classification{Raw: line}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		c.Kind = KindBlank

		return c
	}

	if m, payload, ok := parseMarker(trimmed); ok {
		c.Marker = m
		c.Payload = payload

		if open {
			c.Kind = KindScanHeader
		} else {
			c.Kind = KindHeader
		}

		return c
	}

	if open {
		c.Kind = KindDataRow
		c.Payload = trimmed
	} else {
		c.Kind = KindUnknown
	}

	return c
}

// parseMarker splits a line of the form "#<letters><digits> <payload>".
// The letters are mandatory and may follow a single '@', as in the "#@MCA"
// family of multichannel analyzer markers; the digits, when present, become
// the marker's continuation suffix.
func parseMarker(s string) (Marker, string, bool) {
	if len(s) < 2 || s[0] != '#' {
		return Marker{}, "", false
	}

	start := 1
	if s[1] == '@' {
		start++
	}

	i := start
	for i < len(s) && isLetter(s[i]) {
		i++
	}

	if i == start {
		return Marker{}, "", false
	}

	j := i
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		j++
	}

	// The token must be followed by whitespace or end the line.
	if j < len(s) && !unicode.IsSpace(rune(s[j])) {
		return Marker{}, "", false
	}

	m := Marker{Token: s[1:j], Base: s[1:i]}

	if j > i {
		n, err := strconv.Atoi(s[i:j])
		if err != nil {
			return Marker{}, "", false
		}

		m.Suffix = n
		m.Numbered = true
	}

	return m, strings.TrimSpace(s[j:]), true
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

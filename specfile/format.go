package specfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// FormatJSON writes r as JSON to w. A positive indent pretty-prints.
func (r *Registry) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, r.document(), indent)
}

// FormatYAML writes r as YAML to w. A zero indent selects flow style.
func (r *Registry) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, r.document(), indent)
}

// FormatJSON writes s as JSON to w. A positive indent pretty-prints.
func (s *Scan) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, s.document(-1), indent)
}

// FormatYAML writes s as YAML to w. A zero indent selects flow style.
func (s *Scan) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, s.document(-1), indent)
}

func formatJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func formatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// ordered is a string-keyed mapping that keeps insertion order in both
// encodings.
type ordered []yaml.MapItem

func (o *ordered) set(key string, value any) {
	*o = append(*o, yaml.MapItem{Key: key, Value: value})
}

// MarshalJSON implements json.Marshaler for ordered.
func (o ordered) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, item := range o {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(item.Key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(item.Value)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.InterfaceMarshaler for ordered.
func (o ordered) MarshalYAML() (any, error) { return yaml.MapSlice(o), nil }

// number is a float that encodes NaN and infinities as JSON null.
type number float64

// MarshalJSON implements json.Marshaler for number.
func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}

	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func numbers(fs []float64) []number {
	out := make([]number, len(fs))
	for i, f := range fs {
		out[i] = number(f)
	}

	return out
}

func (r *Registry) document() ordered {
	index := make(map[*FileHeader]int, len(r.headers))
	headers := make([]ordered, len(r.headers))

	for i, h := range r.headers {
		index[h] = i
		headers[i] = h.document()
	}

	scans := make([]ordered, len(r.scans))

	for i, s := range r.scans {
		ref := -1
		if n, ok := index[s.Header]; ok {
			ref = n
		}

		scans[i] = s.document(ref)
	}

	var doc ordered

	doc.set("headers", headers)
	doc.set("scans", scans)

	return doc
}

func (h *FileHeader) document() ordered {
	var doc ordered

	doc.set("line", h.Line)

	if h.File != "" {
		doc.set("file", h.File)
	}

	if h.Epoch != 0 {
		doc.set("epoch", h.Epoch)
	}

	if h.Date != "" {
		doc.set("date", h.Date)
	}

	if !h.Time.IsZero() {
		doc.set("time", h.Time.Format(time.RFC3339))
	}

	if len(h.Comments) > 0 {
		doc.set("comments", h.Comments)
	}

	if h.Motors.Len() > 0 {
		doc.set("motors", mnemonicDocument(h.Motors))
	}

	if h.Counters.Len() > 0 {
		doc.set("counters", mnemonicDocument(h.Counters))
	}

	if h.Unrecognized.Len() > 0 {
		doc.set("unrecognized", bagDocument(&h.Unrecognized))
	}

	if len(h.Stray) > 0 {
		doc.set("stray", h.Stray)
	}

	if len(h.Diagnostics) > 0 {
		doc.set("diagnostics", errorStrings(h.Diagnostics))
	}

	return doc
}

// document builds the encoded form of s. A non-negative header is the
// position of the scan's header in the enclosing registry.
func (s *Scan) document(header int) ordered {
	var doc ordered

	doc.set("number", s.Number)
	doc.set("index", s.Index)
	doc.set("command", s.Command)
	doc.set("line", s.Line)

	if header >= 0 {
		doc.set("header", header)
	}

	if s.Date != "" {
		doc.set("date", s.Date)
	}

	if !s.Time.IsZero() {
		doc.set("time", s.Time.Format(time.RFC3339))
	}

	if s.Counting.Mode != CountNone {
		var c ordered

		c.set("mode", s.Counting.Mode.String())
		c.set("value", number(s.Counting.Value))

		if s.Counting.Units != "" {
			c.set("units", s.Counting.Units)
		}

		doc.set("counting", c)
	}

	if len(s.Geometry) > 0 {
		doc.set("geometry", s.Geometry)
	}

	if len(s.HKL) > 0 {
		doc.set("hkl", numbers(s.HKL))
	}

	if s.DeclaredColumns >= 0 {
		doc.set("declared_columns", s.DeclaredColumns)
	}

	doc.set("labels", nonNil(s.Labels))
	doc.set("points", s.Points)

	if s.Motors.Len() > 0 {
		var m ordered
		for label, v := range s.Motors.All() {
			m.set(label, number(v))
		}

		doc.set("motors", m)
	}

	cols := ordered{}
	for label, v := range s.Data.All() {
		cols.set(label, numbers(v))
	}

	doc.set("columns", cols)

	counters := ordered{}
	for label, v := range s.Counters().All() {
		counters.set(label, numbers(v))
	}

	doc.set("counters", counters)

	if len(s.Comments) > 0 {
		comments := make([]ordered, len(s.Comments))

		for i, c := range s.Comments {
			comments[i].set("point", c.Point)
			comments[i].set("text", c.Text)
		}

		doc.set("comments", comments)
	}

	if s.Unrecognized.Len() > 0 {
		doc.set("unrecognized", bagDocument(&s.Unrecognized))
	}

	if len(s.Malformed) > 0 {
		rows := make([]ordered, len(s.Malformed))

		for i, r := range s.Malformed {
			rows[i].set("line", r.Line)
			rows[i].set("raw", r.Raw)
			rows[i].set("error", r.Err.Error())
		}

		doc.set("malformed", rows)
	}

	if s.Truncated {
		doc.set("truncated", true)
	}

	if len(s.Diagnostics) > 0 {
		doc.set("diagnostics", errorStrings(s.Diagnostics))
	}

	return doc
}

func mnemonicDocument(m *MnemonicMap) []Mnemonic {
	out := make([]Mnemonic, 0, m.Len())
	for _, e := range m.All() {
		out = append(out, e)
	}

	return out
}

func bagDocument(b *Bag) ordered {
	var doc ordered
	for k, v := range b.All() {
		doc.set(k, v)
	}

	return doc
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}

	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}

	return s
}

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handlers. The renderer decides from
// the output whether any color is emitted.
type palette struct {
	key, str, num, yes, no, dur, tm lipgloss.Style
	level                           map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key: fg("8"),
		str: fg("6"),
		num: fg("3"),
		yes: fg("2"),
		no:  fg("1"),
		dur: fg("5"),
		tm:  fg("4"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2").Bold(true),
			slog.LevelWarn:         fg("3").Bold(true),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	best := p.level[slog.Level(LevelTrace)]

	for _, at := range []slog.Level{
		slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError,
	} {
		if l >= at {
			best = p.level[at]
		}
	}

	return best
}

// prettyHandler writes colorized records, either as key=value text on one
// line or as indented JSON.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	colors palette

	mu *sync.Mutex
	w  io.Writer

	attrs  []slog.Attr // from WithAttrs, keys already qualified
	prefix string      // dotted group path
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		colors: newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			fields = append(fields, field{a.Key, a.Value, h.colors.tm})
		}
	}

	if a := h.replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		fields = append(fields, field{a.Key, a.Value, h.colors.forLevel(r.Level)})
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			loc := slog.StringValue(src.File + ":" + strconv.Itoa(src.Line))
			fields = append(fields, field{slog.SourceKey, loc, h.colors.str})
		}
	}

	fields = append(fields, field{slog.MessageKey, slog.StringValue(r.Message), lipgloss.NewStyle()})

	for _, a := range h.attrs {
		fields = h.flatten(fields, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		fields = h.flatten(fields, h.prefix, a)

		return true
	})

	var buf bytes.Buffer
	if h.format == FormatJSON {
		h.writeJSON(&buf, fields)
	} else {
		h.writeText(&buf, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

type field struct {
	key   string
	value slog.Value
	style lipgloss.Style
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

// flatten appends a, expanding groups and log valuers into dotted keys.
func (h *prettyHandler) flatten(fields []field, prefix string, a slog.Attr) []field {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return fields
	}

	if v.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}

		for _, g := range v.Group() {
			fields = h.flatten(fields, p, g)
		}

		return fields
	}

	return append(fields, field{prefix + a.Key, v, h.styleOf(v)})
}

func (h *prettyHandler) styleOf(v slog.Value) lipgloss.Style {
	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num
	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes
		}

		return h.colors.no
	case slog.KindDuration:
		return h.colors.dur
	case slog.KindTime:
		return h.colors.tm
	default:
		return h.colors.str
	}
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, fields []field) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(f.key))
		buf.WriteByte('=')
		buf.WriteString(f.style.Render(text(f.value)))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, fields []field) {
	buf.WriteString("{\n")

	for i, f := range fields {
		if i > 0 {
			buf.WriteString(",\n")
		}

		k, _ := json.Marshal(f.key)

		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(string(k)))
		buf.WriteString(": ")
		buf.WriteString(f.style.Render(jsonValue(f.value)))
	}

	buf.WriteString("\n}\n")
}

func text(v slog.Value) string {
	switch v.Kind() {
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}

		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func jsonValue(v slog.Value) string {
	var x any

	switch v.Kind() {
	case slog.KindInt64:
		x = v.Int64()
	case slog.KindUint64:
		x = v.Uint64()
	case slog.KindFloat64:
		x = v.Float64()
	case slog.KindBool:
		x = v.Bool()
	default:
		x = text(v)
	}

	b, err := json.Marshal(x)
	if err != nil {
		b, _ = json.Marshal(text(v))
	}

	return string(b)
}

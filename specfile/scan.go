package specfile

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ardnew/specscan/log"
)

// CountMode is the counting target of a scan.
type CountMode int

const (
	CountNone    CountMode = iota // none
	CountSeconds                  // seconds
	CountMonitor                  // monitor
)

// String returns the name of c.
func (c CountMode) String() string {
	switch c {
	case CountNone:
		return "none"
	case CountSeconds:
		return "seconds"
	case CountMonitor:
		return "monitor"
	default:
		return "CountMode(" + strconv.Itoa(int(c)) + ")"
	}
}

// Counting is the per-point counting target declared by #T or #M.
type Counting struct {
	Mode  CountMode
	Value float64
	Units string
}

// Comment is a #C line recorded within a scan. Point is the number of data
// points that preceded it.
type Comment struct {
	Point int
	Text  string
}

// Row is the result of parsing one data line.
type Row struct {
	Point  int // index of the point among well-formed rows
	Line   int
	Values []float64
	Raw    string
	Err    error // non-nil if the row is malformed
}

// Malformed reports whether r was rejected.
func (r Row) Malformed() bool { return r.Err != nil }

// Scan is one measurement run: its header metadata and data points.
//
// A Scan is mutated while its data points are parsed and never again once it
// is closed by the next scan, a blank line, a new header block, or the end of
// the input.
type Scan struct {
	Number   int
	Index    int // occurrence of Number among earlier scans, from 0
	Command  string
	Date     string
	Time     time.Time
	Counting Counting
	Geometry []string  // #G lines in suffix order, verbatim
	HKL      []float64 // #Q

	DeclaredColumns int // #N, or -1 if not declared
	Labels          []string
	Data            *Columns
	Motors          Positions
	Points          int // well-formed data rows

	Comments     []Comment
	Unrecognized Bag
	Malformed    []Row

	// Header is the file header in effect when the scan was opened.
	Header *FileHeader

	Truncated   bool
	Diagnostics []error
	Line        int // line number of the #S line
}

// Columns returns the number of data columns in effect.
func (s *Scan) Columns() int { return s.Data.Len() }

// Counters returns the data columns that are not claimed by a motor of the
// header in effect. The returned view shares values with s.Data.
func (s *Scan) Counters() *Columns {
	var motors *MnemonicMap
	if s.Header != nil {
		motors = s.Header.Motors
	}

	return s.Data.without(motors.Claims)
}

// AnonymousLabel is the label given to a value that has no declared label at
// position i, such as a motor position beyond the end of the mnemonic list.
func AnonymousLabel(i int) string { return "[" + strconv.Itoa(i) + "]" }

type scanPhase int

const (
	phaseHeader scanPhase = iota
	phaseData
)

// scanAssembler builds one scan.
type scanAssembler struct {
	s      *Scan
	phase  scanPhase
	logger log.Logger

	labels    string // raw #L payload, resolved when data begins
	hasLabels bool
	geometry  continuation
	positions continuation
	rows      int // data lines seen, malformed or not
	lastBad   bool
}

// openScan starts a scan from its #S classification.
func openScan(
	c Classification,
	line int,
	header *FileHeader,
	logger log.Logger,
) *scanAssembler {
	s := &Scan{
		DeclaredColumns: -1,
		Header:          header,
		Line:            line,
	}

	a := &scanAssembler{s: s, logger: logger}

	num, cmd := cutField(c.Payload)
	s.Command = cmd

	n, err := strconv.Atoi(num)
	if err != nil {
		a.diagnose(ErrMalformedScanNumber.Wrap(err).With(
			slog.String("raw", c.Raw),
			slog.Int("line", line),
		))
		s.Unrecognized.Add(c.Marker.Token, c.Raw)
	} else {
		s.Number = n
	}

	return a
}

// header consumes one header-phase marker.
func (a *scanAssembler) header(c Classification, line int) {
	m := c.Marker
	s := a.s

	switch {
	case m.Token == "D":
		s.Date = c.Payload
		s.Time = parseDate(c.Payload)

	case m.Token == "T", m.Token == "M":
		a.counting(c, line)

	case m.Token == "Q":
		s.HKL = a.numbers(c, line)

	case m.Token == "N":
		f, _ := cutField(c.Payload)

		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			a.invalid(c, line, err)

			return
		}

		s.DeclaredColumns = n
		if n == 0 {
			a.beginData(-1)
		}

	case m.Token == "L":
		a.labels = c.Payload
		a.hasLabels = true

	case m.Token == "C":
		s.Comments = append(s.Comments, Comment{Point: s.Points, Text: c.Payload})

	case m.Numbered && m.Base == "G":
		a.geometry.add(m.Suffix, c.Payload)

	case m.Numbered && m.Base == "P":
		a.positions.add(m.Suffix, c.Payload)

	default:
		a.unrecognized(c, line)
	}
}

// data consumes a marker seen after the data block began. Only comments are
// meaningful there.
func (a *scanAssembler) data(c Classification, line int) {
	if c.Marker.Token == "C" {
		a.s.Comments = append(a.s.Comments, Comment{
			Point: a.s.Points,
			Text:  c.Payload,
		})

		return
	}

	a.unrecognized(c, line)
}

func (a *scanAssembler) counting(c Classification, line int) {
	value, units := cutField(c.Payload)

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		a.invalid(c, line, err)

		return
	}

	mode := CountSeconds
	if c.Marker.Token == "M" {
		mode = CountMonitor
	}

	a.s.Counting = Counting{
		Mode:  mode,
		Value: v,
		Units: strings.Trim(units, "()"),
	}
}

// numbers parses a whitespace-separated list of numbers. Tokens that do not
// parse become NaN so positions stay aligned.
func (a *scanAssembler) numbers(c Classification, line int) []float64 {
	return a.floats(strings.Fields(c.Payload), c, line)
}

func (a *scanAssembler) floats(
	fields []string,
	c Classification,
	line int,
) []float64 {
	out := make([]float64, len(fields))

	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			a.diagnose(ErrInvalidNumber.Wrap(err).With(
				slog.String("marker", c.Marker.String()),
				slog.Int("position", i),
				slog.Int("line", line),
			))

			v = math.NaN()
		}

		out[i] = v
	}

	return out
}

// beginData completes the header phase: continuation fields are reassembled,
// motor positions are zipped against the motor map in effect, and the column
// layout is fixed. width is the token count of the first data row, or -1 if
// there is none.
func (a *scanAssembler) beginData(width int) {
	if a.phase == phaseData {
		return
	}

	a.phase = phaseData
	s := a.s

	if !a.geometry.empty() {
		s.Geometry = a.geometry.payloads()
	}

	if !a.positions.empty() {
		a.motorPositions()
	}

	ncols := s.DeclaredColumns
	labels := a.resolveLabels(width)

	if ncols < 0 {
		ncols = len(labels)
	}

	if len(labels) != ncols {
		a.diagnose(ErrLengthMismatch.With(
			slog.String("labels", "#L"),
			slog.Int("label_count", len(labels)),
			slog.Int("column_count", ncols),
			slog.Int("line", s.Line),
		))

		for _, l := range labels[min(ncols, len(labels)):] {
			s.Unrecognized.Add(ExcessKey("L"), l)
		}

		labels = labels[:min(ncols, len(labels))]
		for i := len(labels); i < ncols; i++ {
			labels = append(labels, AnonymousLabel(i))
		}
	}

	s.Labels = labels
	s.Data = newColumns(labels)
}

// resolveLabels splits the #L payload. Labels are separated by two or more
// spaces. If that count disagrees with #N, or with the width of the first
// data row when #N is absent, while a plain whitespace split agrees, the
// whitespace split is used.
func (a *scanAssembler) resolveLabels(width int) []string {
	if !a.hasLabels {
		return nil
	}

	labels := splitLabels(a.labels)

	want := a.s.DeclaredColumns
	if want < 0 {
		want = width
	}

	if want >= 0 && len(labels) != want {
		if f := strings.Fields(a.labels); len(f) == want {
			return f
		}
	}

	return labels
}

func (a *scanAssembler) motorPositions() {
	s := a.s

	var motors *MnemonicMap
	if s.Header != nil {
		motors = s.Header.Motors
	}

	var fields []string
	for _, p := range a.positions.payloads() {
		fields = append(fields, strings.Fields(p)...)
	}

	values := a.floats(fields, Classification{
		Marker: Marker{Token: "P", Base: "P"},
	}, s.Line)

	if len(values) != motors.Len() {
		a.diagnose(ErrLengthMismatch.With(
			slog.String("positions", "#P"),
			slog.Int("position_count", len(values)),
			slog.Int("motor_count", motors.Len()),
			slog.Int("line", s.Line),
		))
	}

	for i, v := range values {
		label := AnonymousLabel(i)
		if i < motors.Len() {
			if l := motors.At(i).Label; l != "" {
				label = l
			}
		}

		s.Motors.set(label, v)
	}
}

// row parses one data line.
func (a *scanAssembler) row(c Classification, line int) Row {
	fields := strings.Fields(c.Payload)

	a.beginData(len(fields))

	s := a.s
	r := Row{Point: s.Points, Line: line, Raw: c.Raw}
	a.rows++

	if len(fields) != s.Columns() {
		r.Err = ErrMalformedRow.With(
			slog.Int("line", line),
			slog.Int("expected", s.Columns()),
			slog.Int("got", len(fields)),
		)

		return a.reject(r)
	}

	values := make([]float64, len(fields))

	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			r.Err = ErrMalformedRow.Wrap(err).With(
				slog.Int("line", line),
				slog.String("column", s.Labels[i]),
			)

			return a.reject(r)
		}

		values[i] = v
	}

	r.Values = values
	s.Data.appendRow(values)
	s.Points++
	a.lastBad = false

	return r
}

func (a *scanAssembler) reject(r Row) Row {
	a.logger.Warn("malformed data row",
		slog.Int("scan", a.s.Number),
		slog.Any("error", r.Err),
	)

	a.s.Malformed = append(a.s.Malformed, r)
	a.lastBad = true

	return r
}

// close finishes the scan. If the input ended while the scan was still
// open, a scan that expected data but has none, or whose last row was
// rejected, is marked truncated.
func (a *scanAssembler) close(eof bool) *Scan {
	a.beginData(-1)

	if eof && (a.lastBad || (a.rows == 0 && a.s.DeclaredColumns != 0)) {
		a.s.Truncated = true
		a.logger.Warn("scan truncated by end of input",
			slog.Int("scan", a.s.Number),
			slog.Int("line", a.s.Line),
		)
	}

	return a.s
}

func (a *scanAssembler) invalid(c Classification, line int, err error) {
	e := ErrInvalidNumber.With(
		slog.String("marker", c.Marker.String()),
		slog.Int("line", line),
	)
	if err != nil {
		e = e.Wrap(err)
	}

	a.diagnose(e)
	a.s.Unrecognized.Add(c.Marker.Token, c.Payload)
}

func (a *scanAssembler) unrecognized(c Classification, line int) {
	a.logger.Debug("unrecognized scan marker",
		slog.String("marker", c.Marker.String()),
		slog.Int("line", line),
	)
	a.s.Unrecognized.Add(c.Marker.Token, c.Payload)
}

func (a *scanAssembler) diagnose(err *Error) {
	a.logger.Warn("scan diagnostic", slog.Any("error", err))
	a.s.Diagnostics = append(a.s.Diagnostics, err)
}

// cutField splits s around its first run of whitespace, trimming both parts.
func cutField(s string) (first, rest string) {
	s = strings.TrimSpace(s)

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}

	return s[:i], strings.TrimSpace(s[i:])
}

package specfile

import (
	"errors"
	"io"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/specscan/log"
)

// State is the position of a [Parser] in its input.
type State int

const (
	StateBeforeScan State = iota // before-scan
	StateScanHeader              // scan-header
	StateScanData                // scan-data
	StateDone                    // done
)

// String returns the name of s.
func (s State) String() string {
	switch s {
	case StateBeforeScan:
		return "before-scan"
	case StateScanHeader:
		return "scan-header"
	case StateScanData:
		return "scan-data"
	case StateDone:
		return "done"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the logger that receives diagnostics. The zero Logger
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithMaxLineLength sets the longest line the parser accepts. A longer line
// fails the read with [ErrReadInput].
func WithMaxLineLength(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxLine = n
		}
	}
}

// Parser reads a SPEC data file. It can be driven incrementally with
// [Parser.Header], [Parser.NextScanHeader], [Parser.NextPoint] and
// [Parser.NextScan], or all at once with [Parser.Parse]. All of them share
// one position in the input, so they may be mixed.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	cur     *cursor
	logger  log.Logger
	maxLine int

	header *FileHeader      // header block in effect
	block  *headerAssembler // header block being read, if any
	scan   *scanAssembler   // open scan, if any
	counts map[int]int      // occurrences of each scan number so far
	sink   *Registry        // receives closed scans while Parse runs
}

// New returns a parser that reads from r.
func New(r io.Reader, opts ...Option) *Parser {
	p := &Parser{
		maxLine: DefaultMaxLineLength,
		counts:  make(map[int]int),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.cur = newCursor(r, p.maxLine)

	return p
}

// NewFromString returns a parser that reads from s.
func NewFromString(s string, opts ...Option) *Parser {
	return New(strings.NewReader(s), opts...)
}

// State returns the current position of p.
func (p *Parser) State() State {
	switch {
	case p.scan != nil && p.scan.phase == phaseHeader:
		return StateScanHeader
	case p.scan != nil:
		return StateScanData
	case p.cur.done && !p.cur.peeked:
		return StateDone
	default:
		return StateBeforeScan
	}
}

// Line returns the number of the last line consumed.
func (p *Parser) Line() int { return p.cur.line }

// Header reads the file header block up to the next scan and returns it.
// While a scan is open it returns the header in effect without reading.
//
// A file whose first scan has no header block before it yields an empty
// header. Header fails with [ErrNoInput] if the input has no lines at all.
func (p *Parser) Header() (*FileHeader, error) {
	if p.scan != nil {
		return p.header, nil
	}

	if err := p.drainHeader(); err != nil && !errors.Is(err, io.EOF) {
		return p.header, err
	}

	return p.ensureHeader(), nil
}

// NextScanHeader skips whatever remains of the open scan, then reads the
// next scan up to its first data row. The returned scan is still open: its
// data points are added by [Parser.NextPoint] until it closes.
//
// It returns io.EOF once the input holds no more scans.
func (p *Parser) NextScanHeader() (*Scan, error) {
	if p.scan != nil {
		p.skipScan()
	}

	if err := p.drainHeader(); err != nil {
		return nil, err
	}

	raw, _ := p.cur.peek()
	p.cur.advance()
	p.open(Classify(raw, false))

	width := -1

	for {
		raw, ok := p.cur.peek()
		if !ok {
			break
		}

		c := Classify(raw, true)
		if c.Kind == KindDataRow {
			width = len(strings.Fields(c.Payload))
		}

		if c.Kind != KindScanHeader || closes(c) {
			break
		}

		p.cur.advance()
		p.scan.header(c, p.cur.line)

		if p.scan.phase == phaseData {
			break
		}
	}

	p.scan.beginData(width)

	return p.scan.s, nil
}

// NextPoint reads the next data row of the open scan. Malformed rows are
// returned with a non-nil [Row.Err] and do not stop the scan.
//
// NextPoint returns [ErrScanEnd] when the scan closes and [ErrNoOpenScan] if
// no scan is open. The line that closes a scan is left for the next call
// unless it is blank.
func (p *Parser) NextPoint() (Row, error) {
	if p.scan == nil {
		return Row{}, ErrNoOpenScan
	}

	for {
		raw, ok := p.cur.peek()
		if !ok {
			p.closeScan(true)

			return Row{}, ErrScanEnd
		}

		c := Classify(raw, true)

		switch {
		case c.Kind == KindBlank:
			p.cur.advance()
			p.closeScan(false)

			return Row{}, ErrScanEnd

		case closes(c):
			p.closeScan(false)

			return Row{}, ErrScanEnd

		case c.Kind == KindScanHeader:
			p.cur.advance()
			p.scan.data(c, p.cur.line)

		default:
			p.cur.advance()

			return p.scan.row(c, p.cur.line), nil
		}
	}
}

// NextScan reads the next complete scan. It returns io.EOF once the input
// holds no more scans.
func (p *Parser) NextScan() (*Scan, error) {
	s, err := p.NextScanHeader()
	if err != nil {
		return nil, err
	}

	p.skipScan()

	return s, nil
}

// Parse reads the rest of the input and returns every scan it holds,
// including an open scan that was partially read before the call. The
// registry also carries the header in effect at the call and every header
// block read after it.
//
// A read failure returns the registry built so far with the error.
func (p *Parser) Parse() (*Registry, error) {
	reg := newRegistry()

	p.sink = reg
	defer func() { p.sink = nil }()

	reg.addHeader(p.header)

	if p.scan != nil {
		p.skipScan()
	}

	for {
		_, err := p.NextScan()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return reg, err
		}
	}

	p.logger.Debug("parse complete",
		slog.Int("scans", reg.Len()),
		slog.Int("headers", len(reg.headers)),
		slog.Int("lines", p.cur.line),
	)

	return reg, nil
}

// Scans returns an iterator over the remaining scans. Iteration stops at the
// end of the input or after yielding an error.
func (p *Parser) Scans() iter.Seq2[*Scan, error] {
	return func(yield func(*Scan, error) bool) {
		for {
			s, err := p.NextScan()
			if errors.Is(err, io.EOF) {
				return
			}

			if !yield(s, err) || err != nil {
				return
			}
		}
	}
}

// Parse reads every scan from r.
func Parse(r io.Reader, opts ...Option) (*Registry, error) {
	return New(r, opts...).Parse()
}

// drainHeader consumes lines until the next #S line, which is left unread.
// Non-blank lines feed a header block that replaces the header in effect. It
// returns the cursor's end error if the input ends first.
func (p *Parser) drainHeader() error {
	for {
		raw, ok := p.cur.peek()
		if !ok {
			p.finishHeader()

			return p.cur.end()
		}

		c := Classify(raw, false)
		if c.Kind == KindHeader && c.Marker.Token == "S" {
			p.finishHeader()

			return nil
		}

		p.cur.advance()

		if c.Kind == KindBlank {
			continue
		}

		if p.block == nil {
			p.block = newHeaderAssembler(p.header, p.cur.line, p.logger)
		}

		p.block.feed(c, p.cur.line)
	}
}

func (p *Parser) finishHeader() {
	if p.block == nil {
		return
	}

	p.header = p.block.finalize()
	p.block = nil

	p.logger.Trace("header block complete",
		slog.Int("line", p.header.Line),
		slog.Int("motors", p.header.Motors.Len()),
		slog.Int("counters", p.header.Counters.Len()),
	)

	if p.sink != nil {
		p.sink.addHeader(p.header)
	}
}

func (p *Parser) ensureHeader() *FileHeader {
	if p.header == nil {
		p.header = newHeaderAssembler(nil, 0, p.logger).finalize()
	}

	return p.header
}

func (p *Parser) open(c Classification) {
	a := openScan(c, p.cur.line, p.ensureHeader(), p.logger)

	a.s.Index = p.counts[a.s.Number]
	p.counts[a.s.Number]++

	p.scan = a

	p.logger.Trace("scan opened",
		slog.Int("scan", a.s.Number),
		slog.Int("index", a.s.Index),
		slog.Int("line", a.s.Line),
	)
}

// skipScan reads the open scan to its end.
func (p *Parser) skipScan() {
	for p.scan != nil {
		if _, err := p.NextPoint(); err != nil {
			return
		}
	}
}

func (p *Parser) closeScan(eof bool) {
	s := p.scan.close(eof)
	p.scan = nil

	p.logger.Trace("scan closed",
		slog.Int("scan", s.Number),
		slog.Int("index", s.Index),
		slog.Int("points", s.Points),
		slog.Bool("truncated", s.Truncated),
	)

	if p.sink != nil {
		p.sink.add(s)
	}
}

// closes reports whether a marker seen while a scan is open ends that scan:
// the next #S, or a marker that only belongs in a file header.
func closes(c Classification) bool {
	if c.Kind != KindScanHeader {
		return false
	}

	return c.Marker.Token == "S" || headerOnly[c.Marker.Base]
}

package specfile

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/specscan/log"
)

// DateLayout is the layout of #D date lines, e.g. "Thu Feb 25 14:20:14 2010".
const DateLayout = time.ANSIC

// FileHeader holds the global metadata of a file header block.
type FileHeader struct {
	File     string
	Epoch    int64
	Date     string
	Time     time.Time // Date parsed with [DateLayout]; zero if unparseable
	Comments []string

	// Motors and Counters are never mutated after the header is finalized.
	// A later header block that redeclares them builds new maps.
	Motors   *MnemonicMap
	Counters *MnemonicMap

	Unrecognized Bag
	Stray        []string // lines that carry no marker
	Diagnostics  []error
	Line         int // line number of the first line of the block
}

// Markers that may only appear in a file header block. Seeing one of them
// while a scan is open closes that scan.
var headerOnly = map[string]bool{
	"F": true,
	"E": true,
	"O": true,
	"o": true,
	"J": true,
	"j": true,
}

// headerAssembler accumulates one header block.
type headerAssembler struct {
	h      *FileHeader
	logger log.Logger

	motorLabels      continuation
	motorMnemonics   continuation
	counterLabels    continuation
	counterMnemonics continuation
}

// newHeaderAssembler starts a header block at the given line. Fields of prev
// that the new block does not redeclare carry over; comments, unrecognized
// content and diagnostics never do.
func newHeaderAssembler(
	prev *FileHeader,
	line int,
	logger log.Logger,
) *headerAssembler {
	h := &FileHeader{Line: line}

	if prev != nil {
		h.File = prev.File
		h.Epoch = prev.Epoch
		h.Date = prev.Date
		h.Time = prev.Time
		h.Motors = prev.Motors
		h.Counters = prev.Counters
	}

	return &headerAssembler{h: h, logger: logger}
}

func (a *headerAssembler) feed(c Classification, line int) {
	switch c.Kind {
	case KindBlank:
		return

	case KindHeader, KindScanHeader:
		a.marker(c, line)

	default:
		a.logger.Debug("stray line in header",
			slog.Int("line", line),
			slog.String("raw", c.Raw),
		)
		a.h.Stray = append(a.h.Stray, c.Raw)
	}
}

func (a *headerAssembler) marker(c Classification, line int) {
	m := c.Marker

	switch {
	case m.Token == "F":
		a.h.File = c.Payload

	case m.Token == "E":
		epoch, err := strconv.ParseInt(strings.TrimSpace(c.Payload), 10, 64)
		if err != nil {
			a.diagnose(ErrInvalidNumber.Wrap(err).With(
				slog.String("marker", m.String()),
				slog.Int("line", line),
			))
			a.h.Unrecognized.Add(m.Token, c.Payload)

			return
		}

		a.h.Epoch = epoch

	case m.Token == "D":
		a.h.Date = c.Payload
		a.h.Time = parseDate(c.Payload)

	case m.Token == "C":
		a.h.Comments = append(a.h.Comments, c.Payload)

	case m.Numbered && m.Base == "O":
		a.motorLabels.add(m.Suffix, c.Payload)

	case m.Numbered && m.Base == "o":
		a.motorMnemonics.add(m.Suffix, c.Payload)

	case m.Numbered && m.Base == "J":
		a.counterLabels.add(m.Suffix, c.Payload)

	case m.Numbered && m.Base == "j":
		a.counterMnemonics.add(m.Suffix, c.Payload)

	default:
		a.logger.Debug("unrecognized header marker",
			slog.String("marker", m.String()),
			slog.Int("line", line),
		)
		a.h.Unrecognized.Add(m.Token, c.Payload)
	}
}

// finalize reassembles the buffered continuation fields and returns the
// completed header.
func (a *headerAssembler) finalize() *FileHeader {
	if m, ok := a.mnemonics("O", "o", &a.motorLabels, &a.motorMnemonics); ok {
		a.h.Motors = m
	}

	if m, ok := a.mnemonics("J", "j", &a.counterLabels, &a.counterMnemonics); ok {
		a.h.Counters = m
	}

	return a.h
}

// mnemonics builds a map from a label series and a mnemonic series. It reports
// false if neither series was declared in this block.
func (a *headerAssembler) mnemonics(
	labelBase, mnemonicBase string,
	labels, mnemonics *continuation,
) (*MnemonicMap, bool) {
	if labels.empty() && mnemonics.empty() {
		return nil, false
	}

	var mne []string
	if !mnemonics.empty() {
		mne = mnemonics.fields(strings.Fields)
		if mne == nil {
			mne = []string{}
		}
	}

	m, extraLabels, extraMnemonics := NewMnemonicMap(
		labels.fields(splitLabels), mne,
	)

	if extraLabels != nil || extraMnemonics != nil {
		a.diagnose(ErrLengthMismatch.With(
			slog.String("labels", "#"+labelBase),
			slog.String("mnemonics", "#"+mnemonicBase),
			slog.Int("label_count", m.Len()+len(extraLabels)),
			slog.Int("mnemonic_count", m.Len()+len(extraMnemonics)),
		))
	}

	for _, l := range extraLabels {
		a.h.Unrecognized.Add(ExcessKey(labelBase), l)
	}

	for _, n := range extraMnemonics {
		a.h.Unrecognized.Add(ExcessKey(mnemonicBase), n)
	}

	return m, true
}

func (a *headerAssembler) diagnose(err *Error) {
	a.logger.Warn("header diagnostic", slog.Any("error", err))
	a.h.Diagnostics = append(a.h.Diagnostics, err)
}

// ExcessKey is the unrecognized-bag key under which surplus entries of the
// marker series base are preserved after a length mismatch.
func ExcessKey(base string) string { return base + ":excess" }

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}

	return t
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ardnew/specscan/log"
	"github.com/ardnew/specscan/specfile"
)

// Follow prints each scan header and data point as soon as it is read,
// waiting for more input at the end of a file that is still being written.
type Follow struct {
	File string `arg:"" default:"-" help:"SPEC data file, or - for stdin." optional:""`

	Timeout time.Duration `default:"30s"   help:"Give up after waiting this long for new input; 0 stops at the first end of file." short:"t"`
	Poll    time.Duration `default:"250ms" help:"Interval between reads at end of file."`
}

// Validate implements [kong.Validatable].
func (f *Follow) Validate() error {
	if f.Poll <= 0 {
		return ErrInvalidFlag.With(
			slog.String("flag", "poll"),
			slog.Duration("value", f.Poll),
		)
	}

	return nil
}

// Run executes the follow command.
func (f *Follow) Run(ctx context.Context) error {
	var src io.Reader = stdin

	if f.File != stdinSource && f.File != "" {
		file, err := os.Open(f.File)
		if err != nil {
			return ErrOpenSource.With(slog.String("file", f.File)).Wrap(err)
		}
		defer file.Close()

		src = file
	}

	r := &followReader{
		ctx:     ctx,
		r:       src,
		poll:    f.Poll,
		timeout: f.Timeout,
	}

	err := f.follow(ctx, specfile.New(r, parserOptions(f.File)...))
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

func (f *Follow) follow(ctx context.Context, p *specfile.Parser) error {
	w := stdout(ctx)
	st := newStyles(w)

	if _, err := p.Header(); err != nil {
		return err
	}

	for {
		s, err := p.NextScanHeader()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%s %s\n",
			st.header.UnsetPadding().Render("#S "+scanID(s)), s.Command)

		if labels := s.Data.Labels(); len(labels) > 0 {
			fmt.Fprintln(w, st.key.Render(strings.Join(labels, "\t")))
		}

		if err := f.points(w, p); err != nil {
			return err
		}

		if s.Truncated {
			fmt.Fprintln(w, st.warn.Render("# truncated"))
		}

		log.DebugContext(ctx, "scan followed",
			slog.Int("scan", s.Number),
			slog.Int("index", s.Index),
			slog.Int("points", s.Points),
		)
	}
}

func (f *Follow) points(w io.Writer, p *specfile.Parser) error {
	for {
		row, err := p.NextPoint()
		if errors.Is(err, specfile.ErrScanEnd) {
			return nil
		}

		if err != nil {
			return err
		}

		if row.Malformed() {
			continue
		}

		cells := make([]string, len(row.Values))
		for i, v := range row.Values {
			cells[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}

		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}
}

// followReader reads from r, and at end of file polls r until more data
// arrives, the timeout since the last data elapses, or ctx is done.
type followReader struct {
	ctx     context.Context
	r       io.Reader
	poll    time.Duration
	timeout time.Duration
}

func (f *followReader) Read(p []byte) (int, error) {
	deadline := time.Now().Add(f.timeout)

	for {
		n, err := f.r.Read(p)

		switch {
		case n > 0:
			return n, nil
		case err != nil && !errors.Is(err, io.EOF):
			return 0, err
		case f.timeout <= 0 || !time.Now().Before(deadline):
			return 0, io.EOF
		}

		t := time.NewTimer(f.poll)

		select {
		case <-f.ctx.Done():
			t.Stop()

			return 0, f.ctx.Err()
		case <-t.C:
		}
	}
}

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/specscan/log"
	"github.com/ardnew/specscan/specfile"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the writer commands print to.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinSource is the source name that reads standard input.
const stdinSource = "-"

// stdin is read for [stdinSource].
var stdin io.Reader = os.Stdin

// openSource opens the named file, or standard input for "-", behind an
// asynchronous read-ahead buffer.
func openSource(name string) (io.ReadCloser, error) {
	if name == stdinSource || name == "" {
		return readahead.NewReader(stdin), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, ErrOpenSource.With(slog.String("file", name)).Wrap(err)
	}

	return readahead.NewReadCloser(f), nil
}

// sourceName is the name logged for a source.
func sourceName(name string) string {
	if name == stdinSource || name == "" {
		return "<stdin>"
	}

	return name
}

// parserOptions returns the options every command parses with.
func parserOptions(name string) []specfile.Option {
	return []specfile.Option{
		specfile.WithLogger(log.With(slog.String("file", sourceName(name)))),
	}
}

// load parses the whole named source and keeps the scans matching where.
func load(ctx context.Context, name, where string) (*specfile.Registry, error) {
	filter, err := specfile.NewFilter(where)
	if err != nil {
		return nil, err
	}

	r, err := openSource(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	reg, err := specfile.New(r, parserOptions(name)...).Parse()
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "source parsed",
		slog.String("file", sourceName(name)),
		slog.Int("scans", reg.Len()),
	)

	if where == "" {
		return reg, nil
	}

	selected, err := filter.Apply(reg)
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "scans selected",
		slog.String("where", filter.String()),
		slog.Int("scans", selected.Len()),
	)

	return selected, nil
}

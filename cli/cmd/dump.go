package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/specscan/specfile"
)

// Dump writes every scan of a file, with its header blocks, as JSON or YAML.
type Dump struct {
	Format string `arg:"" enum:"json,yaml" help:"Output format (${enum})."`
	File   string `arg:"" default:"-" help:"SPEC data file, or - for stdin." optional:""`

	Indent int    `default:"2" help:"Indentation width; 0 writes compact output." short:"i"`
	Where  string `help:"Only include scans matching this expression."            short:"w"`
}

// Validate implements [kong.Validatable].
func (d *Dump) Validate() error {
	if d.Indent < 0 {
		return ErrInvalidFlag.With(
			slog.String("flag", "indent"),
			slog.Int("value", d.Indent),
		)
	}

	return nil
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) error {
	reg, err := load(ctx, d.File, d.Where)
	if err != nil {
		return err
	}

	return write(ctx, reg, d.Format, d.Indent)
}

// formatter is implemented by [specfile.Registry] and [specfile.Scan].
type formatter interface {
	FormatJSON(ctx context.Context, w io.Writer, indent int) error
	FormatYAML(ctx context.Context, w io.Writer, indent int) error
}

var (
	_ formatter = (*specfile.Registry)(nil)
	_ formatter = (*specfile.Scan)(nil)
)

func write(ctx context.Context, v formatter, format string, indent int) error {
	w := stdout(ctx)

	var err error

	switch format {
	case "yaml":
		err = v.FormatYAML(ctx, w, indent)
	default:
		err = v.FormatJSON(ctx, w, indent)
	}

	if err != nil {
		return ErrWriteOutput.With(slog.String("format", format)).Wrap(err)
	}

	return nil
}

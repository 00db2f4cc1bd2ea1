package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/specscan/cli/cmd/browse"
	"github.com/ardnew/specscan/log"
)

// Browse opens an interactive list of the scans of a file.
type Browse struct {
	File  string `arg:"" help:"SPEC data file."`
	Where string `help:"Only include scans matching this expression." short:"w"`
}

// Run executes the browse command.
func (b *Browse) Run(ctx context.Context) error {
	reg, err := load(ctx, b.File, b.Where)
	if err != nil {
		return err
	}

	return browse.Run(ctx, sourceName(b.File), reg,
		log.With(slog.String("cmd", "browse")))
}

// Package log is a small structured logging layer over [log/slog].
//
// A [Logger] is configured once with functional options and is then
// immutable; [Logger.Wrap] and [Logger.With] derive new loggers:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("scan opened", slog.Int("scan", 12))
//
// Levels extend slog's four with [LevelTrace] below debug. Records are
// written as text or JSON, either through slog's handlers or, with
// [WithPretty], through colorized handlers meant for terminals.
//
// The zero Logger discards everything. Library code takes a Logger as an
// option and logs unconditionally; the caller decides whether anything is
// written.
//
// The package-level functions ([Info], [Warn], ...) write through a default
// logger that [Config] reconfigures.
package log

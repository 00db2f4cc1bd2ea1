package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
)

func TestMake_Defaults(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("level: want %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("format: want %v, got %v", DefaultFormat, logger.Format())
	}

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		emit  func(Logger, string)
		want  bool
	}{
		{"trace at trace", LevelTrace, func(l Logger, m string) { l.Trace(m) }, true},
		{"trace at debug", LevelDebug, func(l Logger, m string) { l.Trace(m) }, false},
		{"debug at debug", LevelDebug, func(l Logger, m string) { l.Debug(m) }, true},
		{"info at warn", LevelWarn, func(l Logger, m string) { l.Info(m) }, false},
		{"warn at warn", LevelWarn, func(l Logger, m string) { l.Warn(m) }, true},
		{"error at error", LevelError, func(l Logger, m string) { l.Error(m) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.emit(Make(&buf, WithLevel(tt.level)), "message")

			if got := strings.Contains(buf.String(), "message"); got != tt.want {
				t.Errorf("want written=%v, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelTrace))
	logger.With(slog.String("file", "a.spec")).
		Trace("scan opened", slog.Int("scan", 3))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if rec["level"] != "TRACE" {
		t.Errorf("level: want TRACE, got %v", rec["level"])
	}

	if rec["msg"] != "scan opened" || rec["file"] != "a.spec" || rec["scan"] != float64(3) {
		t.Errorf("record: %v", rec)
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatText), WithTimeLayout("none")).
		Info("hello", slog.String("key", "value"))

	out := buf.String()

	if strings.Contains(out, "time=") {
		t.Errorf("timestamp should be omitted: %s", out)
	}

	if !strings.Contains(out, "level=INFO") || !strings.Contains(out, "key=value") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer

	Make(&buf, WithFormat(FormatJSON), WithCaller(true)).Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("source should point at the caller: %s", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		Make(&buf, WithPretty(true), WithTimeLayout("")).
			Warn("careful", slog.Int("n", 2), slog.Bool("ok", false))

		// A buffer is not a terminal, so no color codes are written.
		want := "level=WARN msg=careful n=2 ok=false\n"
		if got := buf.String(); got != want {
			t.Errorf("want %q, got %q", want, got)
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithPretty(true), WithFormat(FormatJSON), WithTimeLayout(""))
		logger.With(slog.String("file", "x")).Error("failed",
			slog.Group("scan", slog.Int("number", 4)),
			slog.Any("error", errors.New("boom")),
		)

		var rec map[string]any
		if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}

		for key, want := range map[string]any{
			"level":       "ERROR",
			"msg":         "failed",
			"file":        "x",
			"scan.number": float64(4),
			"error":       "boom",
		} {
			if rec[key] != want {
				t.Errorf("%s: want %v, got %v", key, want, rec[key])
			}
		}
	})
}

func TestLogger_Zero(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Info("discarded")
	logger.With(slog.String("k", "v")).ErrorContext(context.Background(), "discarded")

	if logger.Enabled(context.Background(), LevelError) {
		t.Error("zero logger should be disabled")
	}

	var buf bytes.Buffer

	logger = logger.Wrap(WithOutput(&buf))
	logger.Info("written")

	if !strings.Contains(buf.String(), "written") {
		t.Errorf("wrapped zero logger should write: %q", buf.String())
	}
}

func TestLogger_Wrap(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	debug := base.Wrap(WithLevel(LevelDebug))

	base.Info("base")
	debug.Info("wrapped")

	out := buf.String()
	if strings.Contains(out, "base") || !strings.Contains(out, "wrapped") {
		t.Errorf("unexpected output: %s", out)
	}

	if base.Level() != LevelError || debug.Level() != LevelDebug {
		t.Error("wrap should not modify the original")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"trace":   LevelTrace,
		"TRACE":   LevelTrace,
		"debug":   LevelDebug,
		" info ":  LevelInfo,
		"WARN":    LevelWarn,
		"error":   LevelError,
		"warn+2":  LevelWarn + 2,
		"nonsuch": DefaultLevel,
	}

	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"json":  FormatJSON,
		"TEXT":  FormatText,
		"bogus": DefaultFormat,
	} {
		if got := ParseFormat(in); got != want {
			t.Errorf("ParseFormat(%q): want %v, got %v", in, want, got)
		}
	}
}

func TestNames(t *testing.T) {
	if got := slices.Collect(Levels()); !slices.Equal(got, []string{"trace", "debug", "info", "warn", "error"}) {
		t.Errorf("levels: %q", got)
	}

	if got := slices.Collect(Formats()); !slices.Equal(got, []string{"text", "json"}) {
		t.Errorf("formats: %q", got)
	}
}

func TestDefault(t *testing.T) {
	original := Default()

	t.Cleanup(func() {
		defaultMu.Lock()
		defaultLog = original
		defaultMu.Unlock()
	})

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithPretty(false), WithFormat(FormatJSON), WithLevel(LevelDebug))

	Debug("package debug", slog.String("key", "value"))
	Warn("package warn")

	out := buf.String()
	for _, want := range []string{`"msg":"package debug"`, `"key":"value"`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

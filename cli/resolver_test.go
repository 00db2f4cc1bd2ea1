package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func TestLoadYAML_Flatten(t *testing.T) {
	r, err := loadYAML(strings.NewReader(`
log-level: debug
log_format: json
log:
  caller: true
  time:
    layout: Kitchen
follow:
  timeout: 5
  poll: 0.5
sources: [a.spec, b.spec]
`))
	if err != nil {
		t.Fatal(err)
	}

	want := config{
		"log-level":       "debug",
		"log-format":      "json",
		"log-caller":      true,
		"log-time-layout": "Kitchen",
		"follow-timeout":  "5",
		"follow-poll":     "0.5",
		"sources":         "a.spec,b.spec",
	}

	got := r.(config)
	if len(got) != len(want) {
		t.Errorf("want %d keys, got %d: %v", len(want), len(got), got)
	}

	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: want %#v, got %#v", k, v, got[k])
		}
	}
}

func TestLoadYAML_Invalid(t *testing.T) {
	_, err := loadYAML(strings.NewReader("log-level: [unterminated"))
	if !errors.Is(err, ErrLoadConfig) {
		t.Errorf("want ErrLoadConfig, got %v", err)
	}
}

func TestLoadYAML_Empty(t *testing.T) {
	r, err := loadYAML(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}

	if len(r.(config)) != 0 {
		t.Errorf("want no keys, got %v", r)
	}
}

func TestConfig_Resolve(t *testing.T) {
	var cli struct {
		Level   string        `default:"info" name:"log-level"`
		Caller  bool          `name:"log-caller"`
		Timeout time.Duration `default:"30s"`
		Depth   int           `default:"1"`
	}

	r, err := loadYAML(strings.NewReader("log:\n  level: warn\n  caller: true\ntimeout: 2s\ndepth: 4\nunknown: x\n"))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(r))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := parser.Parse([]string{"--log-level", "error"}); err != nil {
		t.Fatal(err)
	}

	// The command line overrides the file.
	if cli.Level != "error" {
		t.Errorf("level: want error, got %s", cli.Level)
	}

	if !cli.Caller || cli.Timeout != 2*time.Second || cli.Depth != 4 {
		t.Errorf("values from the file were not applied: %+v", cli)
	}
}

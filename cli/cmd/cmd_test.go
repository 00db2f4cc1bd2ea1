package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/specscan/specfile"
)

// testCLI mirrors the command set of the specscan CLI.
type testCLI struct {
	Level string `default:"info" name:"log-level"`
	Quiet bool   `name:"log-pretty"`

	Dump   Dump   `cmd:""`
	List   List   `cmd:""`
	Show   Show   `cmd:""`
	Follow Follow `cmd:""`
	Init   Init   `cmd:""`
}

// run parses args and runs the selected command, returning its output.
func run(t *testing.T, vars kong.Vars, args ...string) (string, error) {
	t.Helper()

	var (
		cli testCLI
		out bytes.Buffer
	)

	ctx := context.Background()

	parser, err := kong.New(&cli,
		kong.Writers(&out, &out),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d: %s", code, out.String()) }),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
		vars,
	)
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return "", err
	}

	ctx = WithContext(ctx, ktx)
	err = ktx.Run()

	return out.String(), err
}

func fixture(name string) string { return filepath.Join("testdata", name) }

func TestOpenSource(t *testing.T) {
	r, err := openSource(fixture("duplicates.spec"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(data), "#F /data/duplicates.spec\n") {
		t.Errorf("unexpected content: %q", data)
	}

	_, err = openSource(fixture("nonexistent.spec"))
	if !errors.Is(err, ErrOpenSource) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("want ErrOpenSource wrapping ErrNotExist, got %v", err)
	}
}

func TestOpenSource_Stdin(t *testing.T) {
	saved := stdin
	t.Cleanup(func() { stdin = saved })

	stdin = strings.NewReader("#S 1 a\n1\n")

	reg, err := load(context.Background(), "-", "")
	if err != nil {
		t.Fatal(err)
	}

	if reg.Len() != 1 {
		t.Errorf("want 1 scan from stdin, got %d", reg.Len())
	}
}

func TestLoad_Where(t *testing.T) {
	ctx := context.Background()

	reg, err := load(ctx, fixture("duplicates.spec"), `number == 5`)
	if err != nil {
		t.Fatal(err)
	}

	if reg.Len() != 2 {
		t.Errorf("want 2 scans numbered 5, got %d", reg.Len())
	}

	_, err = load(ctx, fixture("duplicates.spec"), `number ==`)
	if !errors.Is(err, specfile.ErrFilterCompile) {
		t.Errorf("want ErrFilterCompile, got %v", err)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("boom")
	err := ErrWriteOutput.With().Wrap(cause)

	if err.Error() != "write output: boom" {
		t.Errorf("unexpected message %q", err.Error())
	}

	if !errors.Is(err, ErrWriteOutput) || !errors.Is(err, cause) {
		t.Error("error should match its sentinel and its cause")
	}

	if errors.Is(err, ErrOpenSource) {
		t.Error("error should not match an unrelated sentinel")
	}
}

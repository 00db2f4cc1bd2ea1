package cmd

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestFollow(t *testing.T) {
	out, err := run(t, nil, "follow", "--timeout", "0", fixture("simple.spec"))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"#S 1.0 ascan  th 0 1 3 1",
		"Theta\tSeconds\tMonitor\tDetector",
		"0\t1\t1000\t12",
		"0.5\t1\t1000\t15",
		"1\t1\t1000\t21",
		"#S 2.0 timescan  1",
		"1\t20000\t5",
		"2\t20000\t7",
	}

	last := -1

	for _, w := range want {
		i := strings.Index(out, w)
		if i < 0 {
			t.Fatalf("missing %q:\n%s", w, out)
		}

		if i < last {
			t.Errorf("%q out of order:\n%s", w, out)
		}

		last = i
	}
}

func TestFollow_InvalidPoll(t *testing.T) {
	if _, err := run(t, nil, "follow", "--poll", "0s", fixture("simple.spec")); err == nil {
		t.Error("expected an error for a zero poll interval")
	}
}

// trickle returns one chunk per read, with an empty read at end of file
// between chunks, like a file that is appended to while it is read.
type trickle struct {
	chunks []string
	gap    bool
}

func (r *trickle) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}

	if r.gap = !r.gap; r.gap {
		return 0, io.EOF
	}

	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]

	return n, nil
}

func TestFollowReader_Waits(t *testing.T) {
	r := &followReader{
		ctx:     context.Background(),
		r:       &trickle{chunks: []string{"#S 1 a\n", "1\n", "2\n"}},
		poll:    time.Millisecond,
		timeout: time.Second,
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != "#S 1 a\n1\n2\n" {
		t.Errorf("unexpected data %q", data)
	}
}

func TestFollowReader_NoTimeout(t *testing.T) {
	r := &followReader{
		ctx:  context.Background(),
		r:    &trickle{chunks: []string{"data"}},
		poll: time.Hour,
	}

	n, err := r.Read(make([]byte, 8))
	if n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("want immediate EOF without a timeout, got %d, %v", n, err)
	}
}

func TestFollowReader_Timeout(t *testing.T) {
	r := &followReader{
		ctx:     context.Background(),
		r:       strings.NewReader(""),
		poll:    time.Millisecond,
		timeout: 20 * time.Millisecond,
	}

	start := time.Now()

	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, io.EOF) {
		t.Errorf("want EOF after the timeout, got %v", err)
	}

	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("returned after %v, before the timeout", elapsed)
	}
}

func TestFollowReader_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &followReader{
		ctx:     ctx,
		r:       strings.NewReader(""),
		poll:    time.Millisecond,
		timeout: time.Hour,
	}

	if _, err := r.Read(make([]byte, 8)); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

package specfile

import (
	"bufio"
	"io"
	"strings"
)

// DefaultMaxLineLength is the longest line the parser accepts by default.
const DefaultMaxLineLength = 1 << 20

// cursor is a line source with one line of lookahead. The parser decides
// whether a line belongs to the current context before consuming it.
type cursor struct {
	sc *bufio.Scanner

	next   string
	peeked bool
	done   bool
	err    error

	line int // number of the last consumed line
	read int // lines read from the source, including a peeked line
}

func newCursor(r io.Reader, maxLine int) *cursor {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(maxLine, 64*1024)), maxLine)

	return &cursor{sc: sc}
}

// peek returns the next line without consuming it. It reports false once the
// input is exhausted or failed.
func (c *cursor) peek() (string, bool) {
	if c.peeked {
		return c.next, true
	}

	if c.done {
		return "", false
	}

	if !c.sc.Scan() {
		c.done = true
		c.err = c.sc.Err()

		return "", false
	}

	c.next = strings.TrimSuffix(c.sc.Text(), "\r")
	c.peeked = true
	c.read++

	return c.next, true
}

// advance consumes the line returned by the last peek.
func (c *cursor) advance() {
	if c.peeked {
		c.peeked = false
		c.line++
	}
}

// end returns the error that describes why peek reported false.
func (c *cursor) end() error {
	switch {
	case c.err != nil:
		return ErrReadInput.Wrap(c.err)
	case c.read == 0:
		return ErrNoInput
	default:
		return io.EOF
	}
}

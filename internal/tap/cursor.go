package tap

import (
	"iter"
	"strings"
)

// Cursor is a single-line lookahead over a line sequence. It never buffers
// more than one line ahead of the consumption point.
type Cursor struct {
	pull    func() (string, bool)
	stop    func()
	peeked  string
	hasPeek bool
	done    bool
	line    int // 1-based number of the last consumed line
}

// NewCursor wraps seq. Close must be called to release the underlying iterator.
func NewCursor(seq iter.Seq[string]) *Cursor {
	next, stop := iter.Pull(seq)
	return &Cursor{pull: next, stop: stop}
}

// Close releases the underlying iterator.
func (c *Cursor) Close() {
	c.stop()
}

// Peek returns the next unconsumed line without advancing.
func (c *Cursor) Peek() (string, bool) {
	if c.hasPeek {
		return c.peeked, true
	}
	if c.done {
		return "", false
	}
	l, ok := c.pull()
	if !ok {
		c.done = true
		return "", false
	}
	c.peeked, c.hasPeek = l, true
	return l, true
}

// Next consumes the next line, turning every `\\` into `\`.
func (c *Cursor) Next() (string, bool) {
	l, ok := c.advance()
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(l, `\\`, `\`), true
}

// TakeWhile lazily consumes the longest run of lines satisfying pred. The
// first line that fails pred stays available to Peek and Next. Lines are
// yielded raw, without unescaping.
func (c *Cursor) TakeWhile(pred func(string) bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			l, ok := c.Peek()
			if !ok || !pred(l) {
				return
			}
			c.advance()
			if !yield(l) {
				return
			}
		}
	}
}

// Line returns the 1-based number of the last consumed line.
func (c *Cursor) Line() int {
	return c.line
}

func (c *Cursor) advance() (string, bool) {
	l, ok := c.Peek()
	if !ok {
		return "", false
	}
	c.hasPeek = false
	c.peeked = ""
	c.line++
	return l, true
}

package skymodel

import "strings"

// Line is one trimmed input line and its 1-based position in the input
type Line struct {
	Text string
	Num  int
}

// Cursor is a forward-only source of trimmed lines. It does not skip blank
// lines; deciding what a blank line means is up to the caller.
type Cursor struct {
	lines []Line
	pos   int
}

// NewCursor wraps raw text lines, numbering them from 1
func NewCursor(raw []string) *Cursor {
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{Text: strings.TrimSpace(text), Num: i + 1}
	}
	return &Cursor{lines: lines}
}

func newCursorOver(lines []Line) *Cursor {
	return &Cursor{lines: lines}
}

// Next returns the next line and advances. ok is false once the input is
// exhausted.
func (c *Cursor) Next() (line Line, ok bool) {
	if c.pos >= len(c.lines) {
		return Line{}, false
	}
	line = c.lines[c.pos]
	c.pos++
	return line, true
}

// Peek returns the next line without consuming it
func (c *Cursor) Peek() (line Line, ok bool) {
	if c.pos >= len(c.lines) {
		return Line{}, false
	}
	return c.lines[c.pos], true
}

// Remaining returns the number of unread lines
func (c *Cursor) Remaining() int {
	return len(c.lines) - c.pos
}

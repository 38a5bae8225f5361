package skymodel

import (
	"strings"

	skyerr "github.com/msto63/skymodel/pkg/core/error"
)

// opensBlock reports whether a line opens a nested brace block
func opensBlock(text string) bool {
	return strings.HasSuffix(text, "{")
}

// closesBlock reports whether a line closes a brace block
func closesBlock(text string) bool {
	return strings.HasPrefix(text, "}")
}

// collectBlock consumes the body of the block opened by open, which the
// cursor has just returned. Nested blocks are included verbatim. The line
// holding the matching "}" is consumed but not returned.
func collectBlock(c *Cursor, open Line) ([]Line, error) {
	depth := 1
	var body []Line
	for {
		line, ok := c.Next()
		if !ok {
			return nil, skyerr.Newf("line %d: block %q is never closed", open.Num, open.Text).
				WithCode(skyerr.CodeUnexpectedEOF).
				WithDetail("line", open.Num)
		}
		if closesBlock(line.Text) {
			depth--
			if depth == 0 {
				return body, nil
			}
		} else if opensBlock(line.Text) {
			depth++
		}
		body = append(body, line)
	}
}

package board

import (
	"fmt"
	"strconv"
	"strings"
)

// GTP column letters; I is skipped.
const columnLetters = "ABCDEFGHJKLMNOPQRST"

// PassVertex is the GTP spelling of a pass.
const PassVertex = "pass"

// Vertex renders the point in GTP notation, rows counted from the bottom.
func (p Point) Vertex() string {
	if !InBounds(p) {
		return ""
	}
	return fmt.Sprintf("%c%d", columnLetters[p.X], Size-p.Y)
}

// SGF renders the point as two lowercase letters, column then row.
func (p Point) SGF() string {
	return string([]byte{byte('a' + p.X), byte('a' + p.Y)})
}

// ParseVertex reads a GTP vertex such as "D4" or "q16". ok is false for a pass.
func ParseVertex(s string) (p Point, ok bool, err error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" || s == strings.ToUpper(PassVertex) {
		return Point{}, false, nil
	}
	col := strings.IndexByte(columnLetters, s[0])
	if col < 0 {
		return Point{}, false, fmt.Errorf("bad column in vertex %q", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return Point{}, false, fmt.Errorf("bad row in vertex %q: %w", s, err)
	}
	p = Point{X: col, Y: Size - row}
	if !InBounds(p) {
		return Point{}, false, fmt.Errorf("vertex %q is off the board", s)
	}
	return p, true, nil
}

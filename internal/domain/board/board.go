package board

import (
	"fmt"
	"strings"
)

// Size is the side length of the grid.
const Size = 19

type Cell uint8

const (
	Empty Cell = iota
	BlackStone
	WhiteStone
)

// Color is the side owning a stone or the side to move.
type Color uint8

const (
	Black Color = iota + 1
	White
)

func (c Color) Opposite() Color {
	if c == Black {
		return White
	}
	return Black
}

// Stone returns the cell value a stone of this color occupies.
func (c Color) Stone() Cell {
	if c == Black {
		return BlackStone
	}
	return WhiteStone
}

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "none"
}

// Letter is the single-character tag used by SGF and the board serialization.
func (c Color) Letter() string {
	if c == Black {
		return "B"
	}
	return "W"
}

// MarshalText encodes the zero Color as an empty string.
func (c Color) MarshalText() ([]byte, error) {
	switch c {
	case 0:
		return []byte{}, nil
	case Black, White:
		return []byte(c.String()), nil
	}
	return nil, fmt.Errorf("invalid color %d", c)
}

func (c *Color) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = 0
		return nil
	}
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// Color reports which side owns the cell; ok is false for Empty.
func (c Cell) Color() (color Color, ok bool) {
	switch c {
	case BlackStone:
		return Black, true
	case WhiteStone:
		return White, true
	}
	return 0, false
}

func (c Cell) Rune() rune {
	switch c {
	case BlackStone:
		return 'B'
	case WhiteStone:
		return 'W'
	}
	return '.'
}

type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Adjacent returns the four orthogonal neighbours; some may be off the board.
func (p Point) Adjacent() [4]Point {
	return [4]Point{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y + 1},
		{p.X, p.Y - 1},
	}
}

func InBounds(p Point) bool {
	return p.X >= 0 && p.X < Size && p.Y >= 0 && p.Y < Size
}

// Board is the fixed grid of cells. The zero value is an empty board and
// plain assignment copies it.
type Board struct {
	cells [Size * Size]Cell
}

func (b *Board) InBounds(p Point) bool {
	return InBounds(p)
}

// Get returns Empty for points off the board.
func (b *Board) Get(p Point) Cell {
	if !InBounds(p) {
		return Empty
	}
	return b.cells[p.Y*Size+p.X]
}

func (b *Board) Set(p Point, c Cell) {
	if !InBounds(p) {
		return
	}
	b.cells[p.Y*Size+p.X] = c
}

func (b *Board) Clone() *Board {
	cp := *b
	return &cp
}

func (b *Board) Equal(other *Board) bool {
	return b.cells == other.cells
}

func (b *Board) Clear() {
	b.cells = [Size * Size]Cell{}
}

func (b *Board) Count(c Cell) int {
	n := 0
	for _, cell := range b.cells {
		if cell == c {
			n++
		}
	}
	return n
}

// Rows serializes the board row-major, top row first, one character per cell.
func (b *Board) Rows() []string {
	rows := make([]string, Size)
	var sb strings.Builder
	for y := 0; y < Size; y++ {
		sb.Reset()
		for x := 0; x < Size; x++ {
			sb.WriteRune(b.cells[y*Size+x].Rune())
		}
		rows[y] = sb.String()
	}
	return rows
}

// Matrix is Rows split into single-character strings, the shape the
// analysis service expects in JSON.
func (b *Board) Matrix() [][]string {
	matrix := make([][]string, Size)
	for y := 0; y < Size; y++ {
		row := make([]string, Size)
		for x := 0; x < Size; x++ {
			row[x] = string(b.cells[y*Size+x].Rune())
		}
		matrix[y] = row
	}
	return matrix
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

func ParseRows(rows []string) (*Board, error) {
	if len(rows) != Size {
		return nil, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}
	b := &Board{}
	for y, row := range rows {
		if len(row) != Size {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", y, Size, len(row))
		}
		for x := 0; x < Size; x++ {
			switch row[x] {
			case 'B':
				b.cells[y*Size+x] = BlackStone
			case 'W':
				b.cells[y*Size+x] = WhiteStone
			case '.':
			default:
				return nil, fmt.Errorf("row %d col %d: unexpected %q", y, x, row[x])
			}
		}
	}
	return b, nil
}

// ParseMatrix accepts the [][]string form produced by Matrix.
func ParseMatrix(matrix [][]string) (*Board, error) {
	rows := make([]string, len(matrix))
	for y, row := range matrix {
		rows[y] = strings.Join(row, "")
	}
	return ParseRows(rows)
}

package engine

import (
	"time"

	"goban/internal/domain/board"
)

// Sides holds one value per color.
type Sides[T ~int | ~int64] struct {
	Black T `json:"black" bson:"black"`
	White T `json:"white" bson:"white"`
}

func (s Sides[T]) Of(c board.Color) T {
	if c == board.Black {
		return s.Black
	}
	return s.White
}

func (s *Sides[T]) Add(c board.Color, v T) {
	if c == board.Black {
		s.Black += v
		return
	}
	s.White += v
}

// Tally counts prisoners taken by each color.
type Tally = Sides[int]

// Clock accumulates thinking time per color.
type Clock = Sides[time.Duration]

type CaptureOutcome struct {
	Captured []board.Point
}

// removeDeadNeighbours clears every opponent group touching p that has no
// liberty left and returns the removed points.
func removeDeadNeighbours(b *board.Board, p board.Point, color board.Color) []board.Point {
	opponent := color.Opposite().Stone()
	var captured []board.Point
	for _, n := range p.Adjacent() {
		if !board.InBounds(n) || b.Get(n) != opponent {
			continue
		}
		group := FindGroup(b, n)
		if HasLiberty(b, group) {
			continue
		}
		for _, stone := range group {
			b.Set(stone, board.Empty)
		}
		captured = append(captured, group...)
	}
	return captured
}

// applyPlacement puts a stone on the live board, resolves opponent captures
// and credits the mover's tally. Legality must be checked beforehand.
func applyPlacement(g *Game, p board.Point, color board.Color) CaptureOutcome {
	g.board.Set(p, color.Stone())
	captured := removeDeadNeighbours(&g.board, p, color)
	g.captures.Add(color, len(captured))
	return CaptureOutcome{Captured: captured}
}

// koPointAfter returns the point the opponent may not retake on the next
// move: a single stone captured by a lone stone left with that one liberty.
func koPointAfter(b *board.Board, placed board.Point, captured []board.Point) *board.Point {
	if len(captured) != 1 {
		return nil
	}
	group := FindGroup(b, placed)
	if len(group) != 1 {
		return nil
	}
	libs := Liberties(b, group)
	if len(libs) != 1 || libs[0] != captured[0] {
		return nil
	}
	ko := captured[0]
	return &ko
}

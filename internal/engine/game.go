// Package engine implements the board rules: legality, captures, ko, move
// history with undo by replay, and a single-ply move heuristic.
//
// A Game is not safe for concurrent use; callers serialize access to it.
package engine

import (
	"fmt"
	"time"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

type EndReason string

const (
	NotEnded   EndReason = ""
	BothPassed EndReason = "passes"
	Resigned   EndReason = "resignation"
)

type Game struct {
	board    board.Board
	history  History
	toMove   board.Color
	lastMove *board.Point
	captures Tally
	ko       *board.Point
	elapsed  Clock
	end      EndReason
	winner   board.Color
}

// MoveOutcome describes a committed placement.
type MoveOutcome struct {
	Point    board.Point   `json:"point"`
	Color    board.Color   `json:"color"`
	Captured []board.Point `json:"captured,omitempty"`
	Ko       *board.Point  `json:"ko,omitempty"`
}

func New() *Game {
	g := &Game{}
	g.Reset()
	return g
}

// Reset clears the game back to an empty board with black to move.
func (g *Game) Reset() {
	*g = Game{toMove: board.Black}
}

// ApplyMove places a stone for the side to move. spent is added to that
// side's clock. On error the game is unchanged.
func (g *Game) ApplyMove(p board.Point, spent time.Duration) (MoveOutcome, error) {
	if g.Over() {
		return MoveOutcome{}, errs.ErrGameOver
	}
	color := g.toMove
	if legality := CheckMove(g, p, color); legality != Ok {
		return MoveOutcome{}, fmt.Errorf("%s at %s: %w", color, p, legality.Err())
	}

	outcome := applyPlacement(g, p, color)
	g.ko = koPointAfter(&g.board, p, outcome.Captured)
	g.elapsed.Add(color, spent)
	g.history.commit(MoveRecord{
		Point:    p,
		Color:    color,
		Captured: outcome.Captured,
		Elapsed:  g.elapsed,
		Captures: g.captures,
	})
	last := p
	g.lastMove = &last
	g.toMove = color.Opposite()

	return MoveOutcome{Point: p, Color: color, Captured: outcome.Captured, Ko: g.Ko()}, nil
}

// Pass records a pass for the side to move. It reports whether this was
// the second consecutive pass, which ends the game.
func (g *Game) Pass(spent time.Duration) (bool, error) {
	if g.Over() {
		return false, errs.ErrGameOver
	}
	color := g.toMove
	g.elapsed.Add(color, spent)
	g.history.commit(MoveRecord{
		Pass:     true,
		Color:    color,
		Elapsed:  g.elapsed,
		Captures: g.captures,
	})
	g.ko = nil
	g.lastMove = nil
	g.toMove = color.Opposite()

	if g.history.endsWithPasses(2) {
		g.end = BothPassed
	}
	return g.end == BothPassed, nil
}

// Resign ends the game in favour of the other color.
func (g *Game) Resign(color board.Color) error {
	if g.Over() {
		return errs.ErrGameOver
	}
	g.end = Resigned
	g.winner = color.Opposite()
	return nil
}

// Undo drops the last record and rebuilds the position by replaying the
// rest from an empty board. It returns false when there is nothing to undo
// or the game was resigned.
func (g *Game) Undo() bool {
	if g.end == Resigned {
		return false
	}
	if _, ok := g.history.pop(); !ok {
		return false
	}
	g.rebuild()
	return true
}

func (g *Game) rebuild() {
	records := g.history.records
	g.board.Clear()
	g.captures = Tally{}
	g.elapsed = Clock{}
	g.ko = nil
	g.lastMove = nil
	g.toMove = board.Black
	g.end = NotEnded
	g.winner = 0

	for _, r := range records {
		if r.Pass {
			g.ko = nil
			g.lastMove = nil
		} else {
			g.board.Set(r.Point, r.Color.Stone())
			for _, c := range r.Captured {
				g.board.Set(c, board.Empty)
			}
			g.captures.Add(r.Color, len(r.Captured))
			g.ko = koPointAfter(&g.board, r.Point, r.Captured)
			last := r.Point
			g.lastMove = &last
		}
		g.toMove = r.Color.Opposite()
	}
	if tail, ok := g.history.Last(); ok {
		g.elapsed = tail.Elapsed
	}
	if g.history.endsWithPasses(2) {
		g.end = BothPassed
	}
}

// Replay builds a game from stored records, checking every move against
// the rules. Clock values are taken from the records.
func Replay(records []MoveRecord) (*Game, error) {
	g := New()
	for i, r := range records {
		if r.Color != g.toMove {
			return nil, fmt.Errorf("record %d: %s moved out of turn", i, r.Color)
		}
		spent := r.Elapsed.Of(r.Color) - g.elapsed.Of(r.Color)
		if r.Pass {
			if _, err := g.Pass(spent); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			continue
		}
		if _, err := g.ApplyMove(r.Point, spent); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return g, nil
}

// BestMove asks the local heuristic for the side to move. ok is false when
// the game is over or no legal point remains, in which case the caller
// should pass.
func (g *Game) BestMove() (board.Point, bool) {
	if g.Over() {
		return board.Point{}, false
	}
	return SelectMove(g, g.toMove)
}

// Board returns a copy of the current position.
func (g *Game) Board() *board.Board {
	return g.board.Clone()
}

func (g *Game) ToMove() board.Color {
	return g.toMove
}

func (g *Game) LastMove() (board.Point, bool) {
	if g.lastMove == nil {
		return board.Point{}, false
	}
	return *g.lastMove, true
}

func (g *Game) Ko() *board.Point {
	if g.ko == nil {
		return nil
	}
	ko := *g.ko
	return &ko
}

func (g *Game) Captures() Tally {
	return g.captures
}

func (g *Game) Elapsed() Clock {
	return g.elapsed
}

func (g *Game) History() []MoveRecord {
	return g.history.Records()
}

func (g *Game) MoveCount() int {
	return g.history.Len()
}

func (g *Game) Over() bool {
	return g.end != NotEnded
}

func (g *Game) EndReason() EndReason {
	return g.end
}

// Winner is only known after a resignation; scoring is left to callers.
func (g *Game) Winner() (board.Color, bool) {
	if g.end != Resigned {
		return 0, false
	}
	return g.winner, true
}

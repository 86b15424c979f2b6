package engine

import (
	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

type Legality int

const (
	Ok Legality = iota
	OutOfBounds
	Occupied
	Suicide
	KoViolation
)

func (l Legality) String() string {
	switch l {
	case Ok:
		return "ok"
	case OutOfBounds:
		return "out of bounds"
	case Occupied:
		return "occupied"
	case Suicide:
		return "suicide"
	case KoViolation:
		return "ko violation"
	}
	return "unknown"
}

// Err maps a rejection to its sentinel error; Ok maps to nil.
func (l Legality) Err() error {
	switch l {
	case OutOfBounds:
		return errs.ErrOutOfBounds
	case Occupied:
		return errs.ErrOccupied
	case Suicide:
		return errs.ErrSuicide
	case KoViolation:
		return errs.ErrKoViolation
	}
	return nil
}

// CheckMove reports whether color may play at p in the current position.
// The game is not modified.
func CheckMove(g *Game, p board.Point, color board.Color) Legality {
	_, legality := g.simulate(p, color)
	return legality
}

// simulate plays p on a scratch copy of the board. Opponent captures are
// resolved before the new stone's own liberties are examined.
func (g *Game) simulate(p board.Point, color board.Color) ([]board.Point, Legality) {
	if !board.InBounds(p) {
		return nil, OutOfBounds
	}
	if g.board.Get(p) != board.Empty {
		return nil, Occupied
	}

	scratch := g.board.Clone()
	scratch.Set(p, color.Stone())
	captured := removeDeadNeighbours(scratch, p, color)

	if !HasLiberty(scratch, FindGroup(scratch, p)) {
		return nil, Suicide
	}
	if g.ko != nil && *g.ko == p && len(captured) == 1 {
		return nil, KoViolation
	}
	return captured, Ok
}

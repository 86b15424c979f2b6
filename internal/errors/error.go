package errors

import "errors"

var (
	ErrOutOfBounds   = errors.New("point is off the board")
	ErrOccupied      = errors.New("point is already occupied")
	ErrSuicide       = errors.New("move would be suicide")
	ErrKoViolation   = errors.New("move retakes a ko immediately")
	ErrGameOver      = errors.New("game is already over")
	ErrNotYourTurn   = errors.New("it is not this side's turn")
	ErrNothingToUndo = errors.New("no moves to undo")
	ErrStalePosition = errors.New("position changed while waiting for the advisor")
	ErrGameNotFound  = errors.New("game not found")
	ErrAdvisor       = errors.New("advisor request failed")
	ErrBadRequest    = errors.New("bad request")
	ErrInternal      = errors.New("internal error")
)

// IsIllegalMove reports whether err is one of the rule rejections.
func IsIllegalMove(err error) bool {
	return errors.Is(err, ErrOutOfBounds) ||
		errors.Is(err, ErrOccupied) ||
		errors.Is(err, ErrSuicide) ||
		errors.Is(err, ErrKoViolation)
}

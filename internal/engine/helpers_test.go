package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goban/internal/domain/board"
)

func pt(x, y int) board.Point {
	return board.Point{X: x, Y: y}
}

// setup places stones directly, bypassing history, and sets the side to move.
func setup(toMove board.Color, black, white []board.Point) *Game {
	g := New()
	for _, p := range black {
		g.board.Set(p, board.BlackStone)
	}
	for _, p := range white {
		g.board.Set(p, board.WhiteStone)
	}
	g.toMove = toMove
	return g
}

func play(t *testing.T, g *Game, x, y int) MoveOutcome {
	t.Helper()
	out, err := g.ApplyMove(pt(x, y), 0)
	require.NoError(t, err, "move (%d,%d)", x, y)
	return out
}

// requireNoDeadGroups checks that every stone on the board has a liberty.
func requireNoDeadGroups(t *testing.T, g *Game) {
	t.Helper()
	for y := 0; y < board.Size; y++ {
		for x := 0; x < board.Size; x++ {
			p := pt(x, y)
			if g.board.Get(p) == board.Empty {
				continue
			}
			require.True(t, HasLiberty(&g.board, FindGroup(&g.board, p)), "dead group at %s", p)
		}
	}
}

package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

// captureSequence is a legal game in which white's fourth move captures the
// black stone at (9,9).
var captureSequence = []board.Point{
	pt(9, 9), pt(9, 8),
	pt(0, 0), pt(9, 10),
	pt(0, 18), pt(8, 9),
	pt(18, 0), pt(10, 9),
	pt(3, 3), pt(15, 15),
}

func TestUndoIsLeftInverse(t *testing.T) {
	g := New()
	for _, p := range captureSequence {
		_, err := g.ApplyMove(p, time.Second)
		require.NoError(t, err)
	}
	require.Equal(t, 1, g.Captures().White)

	for i := len(captureSequence); i > 0; i-- {
		require.True(t, g.Undo())
		requireNoDeadGroups(t, g)
	}

	var empty board.Board
	require.True(t, empty.Equal(g.Board()))
	require.Equal(t, Tally{}, g.Captures())
	require.Equal(t, Clock{}, g.Elapsed())
	require.Equal(t, board.Black, g.ToMove())
	require.Nil(t, g.Ko())
	_, ok := g.LastMove()
	require.False(t, ok)

	require.False(t, g.Undo(), "undo on empty history is a no-op")
}

func TestUndoRestoresPriorPosition(t *testing.T) {
	g := New()
	var snapshots []*board.Board
	var tallies []Tally
	for _, p := range captureSequence {
		snapshots = append(snapshots, g.Board())
		tallies = append(tallies, g.Captures())
		play(t, g, p.X, p.Y)
	}

	for i := len(captureSequence) - 1; i >= 0; i-- {
		require.True(t, g.Undo())
		require.True(t, snapshots[i].Equal(g.Board()), "position before move %d", i)
		require.Equal(t, tallies[i], g.Captures())
	}
}

func TestUndoRestoresClockAndTurn(t *testing.T) {
	g := New()
	_, err := g.ApplyMove(pt(3, 3), 2*time.Second)
	require.NoError(t, err)
	_, err = g.ApplyMove(pt(15, 15), 5*time.Second)
	require.NoError(t, err)
	_, err = g.ApplyMove(pt(3, 15), 7*time.Second)
	require.NoError(t, err)
	require.Equal(t, 9*time.Second, g.Elapsed().Black)

	require.True(t, g.Undo())
	require.Equal(t, Clock{Black: 2 * time.Second, White: 5 * time.Second}, g.Elapsed())
	require.Equal(t, board.Black, g.ToMove())
	last, ok := g.LastMove()
	require.True(t, ok)
	require.Equal(t, pt(15, 15), last)
}

func TestUndoRestoresKo(t *testing.T) {
	// Same shape as koShape, built through moves so it is in the history.
	g := New()
	for _, p := range []board.Point{
		pt(1, 0), pt(2, 0),
		pt(0, 1), pt(1, 1),
		pt(1, 2), pt(3, 1),
		pt(18, 18), pt(2, 2),
		pt(2, 1), // black takes the ko
		pt(10, 10),
	} {
		play(t, g, p.X, p.Y)
	}
	require.Nil(t, g.Ko())

	require.True(t, g.Undo())
	require.NotNil(t, g.Ko())
	require.Equal(t, pt(1, 1), *g.Ko())
	require.Equal(t, KoViolation, CheckMove(g, pt(1, 1), board.White))
}

func TestPass(t *testing.T) {
	t.Run("two consecutive passes end the game", func(t *testing.T) {
		g := New()
		ended, err := g.Pass(0)
		require.NoError(t, err)
		require.False(t, ended)
		require.Equal(t, board.White, g.ToMove())

		ended, err = g.Pass(0)
		require.NoError(t, err)
		require.True(t, ended)
		require.True(t, g.Over())
		require.Equal(t, BothPassed, g.EndReason())

		_, err = g.ApplyMove(pt(3, 3), 0)
		require.ErrorIs(t, err, errs.ErrGameOver)
		_, err = g.Pass(0)
		require.ErrorIs(t, err, errs.ErrGameOver)
		_, ok := g.BestMove()
		require.False(t, ok)
	})

	t.Run("a move between passes keeps the game going", func(t *testing.T) {
		g := New()
		_, err := g.Pass(0)
		require.NoError(t, err)
		play(t, g, 3, 3)
		ended, err := g.Pass(0)
		require.NoError(t, err)
		require.False(t, ended)
		require.False(t, g.Over())
	})

	t.Run("undo reopens a passed-out game", func(t *testing.T) {
		g := New()
		play(t, g, 3, 3)
		_, _ = g.Pass(0)
		_, _ = g.Pass(0)
		require.True(t, g.Over())

		require.True(t, g.Undo())
		require.False(t, g.Over())
		require.Equal(t, board.Black, g.ToMove())
	})
}

func TestResign(t *testing.T) {
	g := New()
	play(t, g, 3, 3)
	require.NoError(t, g.Resign(board.White))

	winner, ok := g.Winner()
	require.True(t, ok)
	require.Equal(t, board.Black, winner)
	require.Equal(t, Resigned, g.EndReason())
	require.False(t, g.Undo(), "resignation is final")
	require.ErrorIs(t, g.Resign(board.Black), errs.ErrGameOver)
}

func TestReset(t *testing.T) {
	g := New()
	for _, p := range captureSequence {
		play(t, g, p.X, p.Y)
	}
	g.Reset()
	require.Zero(t, g.MoveCount())
	require.Equal(t, New(), g)
}

func TestReplay(t *testing.T) {
	g := New()
	for i, p := range captureSequence {
		_, err := g.ApplyMove(p, time.Duration(i+1)*time.Second)
		require.NoError(t, err)
	}
	_, err := g.Pass(3 * time.Second)
	require.NoError(t, err)

	restored, err := Replay(g.History())
	require.NoError(t, err)
	require.True(t, g.Board().Equal(restored.Board()))
	require.Equal(t, g.Captures(), restored.Captures())
	require.Equal(t, g.Elapsed(), restored.Elapsed())
	require.Equal(t, g.ToMove(), restored.ToMove())
	require.Equal(t, g.History(), restored.History())
}

func TestReplayRejectsBadRecords(t *testing.T) {
	t.Run("out of turn", func(t *testing.T) {
		_, err := Replay([]MoveRecord{{Point: pt(3, 3), Color: board.White}})
		require.Error(t, err)
	})

	t.Run("occupied point", func(t *testing.T) {
		_, err := Replay([]MoveRecord{
			{Point: pt(3, 3), Color: board.Black},
			{Point: pt(3, 3), Color: board.White},
		})
		require.ErrorIs(t, err, errs.ErrOccupied)
	})
}

func TestHistoryRecordsCaptures(t *testing.T) {
	g := New()
	for _, p := range captureSequence[:8] {
		play(t, g, p.X, p.Y)
	}
	records := g.History()
	require.Len(t, records, 8)

	last := records[7]
	require.Equal(t, board.White, last.Color)
	require.Equal(t, []board.Point{pt(9, 9)}, last.Captured)
	require.Equal(t, 1, last.Captures.White)
	require.False(t, last.Pass)
}

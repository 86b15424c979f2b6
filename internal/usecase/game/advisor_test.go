package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"goban/internal/bootstrap"
	"goban/internal/domain"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	gobanErrors "goban/internal/errors"
)

func suggest(x, y int) domain.MoveResponse {
	return domain.MoveResponse{Success: true, Move: &domain.SuggestedMove{X: x, Y: y}}
}

func TestAIReplyFromAdvisor(t *testing.T) {
	advisor := &advisorMock{}
	advisor.On("GenerateMove", mock.Anything, mock.MatchedBy(func(req domain.MoveRequest) bool {
		return req.Color == board.White && req.Rank == "2k" && req.Playouts == 1500 &&
			len(req.Board) == board.Size && req.Board[3][3] == "B"
	})).Return(suggest(15, 15), nil).Once()

	uc, _ := newUseCase(testConfig(), advisor)
	id := create(t, uc, game.CreateGameRequest{AIColor: board.White, Rank: "2k"})

	turn, err := uc.PlayMove(context.Background(), id, board.Point{X: 3, Y: 3})
	require.NoError(t, err)
	require.NotNil(t, turn.Reply)
	require.Equal(t, game.SourceAdvisor, turn.Reply.Source)
	require.Equal(t, board.White, turn.Reply.Color)
	require.Equal(t, byte('W'), stoneAt(turn.State, 15, 15))
	require.Equal(t, board.Black, turn.State.ToMove)
	advisor.AssertExpectations(t)
}

func TestAIPlaysFirstAsBlack(t *testing.T) {
	advisor := &advisorMock{}
	advisor.On("GenerateMove", mock.Anything, mock.Anything).Return(suggest(3, 15), nil).Once()

	uc, _ := newUseCase(testConfig(), advisor)
	turn, err := uc.CreateGame(context.Background(), game.CreateGameRequest{AIColor: board.Black})
	require.NoError(t, err)
	require.NotNil(t, turn.Reply)
	require.Equal(t, byte('B'), stoneAt(turn.State, 3, 15))
	require.Equal(t, board.White, turn.State.ToMove)
}

func TestAdvisorErrorFallsBackToHeuristic(t *testing.T) {
	advisor := &advisorMock{}
	advisor.On("GenerateMove", mock.Anything, mock.Anything).Return(domain.MoveResponse{}, errors.New("unavailable"))

	uc, _ := newUseCase(testConfig(), advisor)
	id := create(t, uc, game.CreateGameRequest{})

	turn, err := uc.RequestAIMove(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, game.SourceHeuristic, turn.Source)
	require.Equal(t, game.EventMove, turn.Event)
	// Tengen is the best point on an empty board.
	require.Equal(t, board.Point{X: 9, Y: 9}, turn.Outcome.Point)
}

func TestAdvisorErrorFallsBackToPass(t *testing.T) {
	advisor := &advisorMock{}
	advisor.On("GenerateMove", mock.Anything, mock.Anything).Return(domain.MoveResponse{}, errors.New("timeout"))

	cfg := testConfig()
	cfg.AIFallback = bootstrap.FallbackPass
	uc, _ := newUseCase(cfg, advisor)
	id := create(t, uc, game.CreateGameRequest{})

	turn, err := uc.RequestAIMove(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, game.EventPass, turn.Event)
	require.Equal(t, board.White, turn.State.ToMove)
}

func TestAdvisorPassAndFailureResponses(t *testing.T) {
	for name, resp := range map[string]domain.MoveResponse{
		"no move":      {Success: true},
		"unsuccessful": {Success: false, Error: "engine crashed", Move: &domain.SuggestedMove{X: 1, Y: 1}},
	} {
		t.Run(name, func(t *testing.T) {
			advisor := &advisorMock{}
			advisor.On("GenerateMove", mock.Anything, mock.Anything).Return(resp, nil)

			uc, _ := newUseCase(testConfig(), advisor)
			id := create(t, uc, game.CreateGameRequest{})

			turn, err := uc.RequestAIMove(context.Background(), id)
			require.NoError(t, err)
			require.Equal(t, game.EventPass, turn.Event)
			require.Equal(t, game.SourceAdvisor, turn.Source)
			require.Nil(t, turn.State.LastMove)
		})
	}
}

func TestIllegalSuggestionFallsBackToHeuristic(t *testing.T) {
	advisor := &advisorMock{}
	advisor.On("GenerateMove", mock.Anything, mock.Anything).Return(suggest(3, 3), nil)

	uc, _ := newUseCase(testConfig(), advisor)
	id := create(t, uc, game.CreateGameRequest{})
	_, err := uc.PlayMove(context.Background(), id, board.Point{X: 3, Y: 3})
	require.NoError(t, err)

	turn, err := uc.RequestAIMove(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, game.SourceHeuristic, turn.Source)
	require.NotEqual(t, board.Point{X: 3, Y: 3}, turn.Outcome.Point)
	require.Len(t, turn.State.Moves, 2)
}

func TestStaleAdvice(t *testing.T) {
	advisor := &advisorMock{}
	uc, _ := newUseCase(testConfig(), advisor)
	id := create(t, uc, game.CreateGameRequest{})

	advisor.On("GenerateMove", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		_, err := uc.PlayMove(context.Background(), id, board.Point{X: 4, Y: 4})
		require.NoError(t, err)
	}).Return(suggest(15, 15), nil)

	_, err := uc.RequestAIMove(context.Background(), id)
	require.ErrorIs(t, err, gobanErrors.ErrStalePosition)

	state, err := uc.GetGame(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, state.Moves, 1)
	require.Equal(t, byte('.'), stoneAt(state, 15, 15))
}

func TestAIMoveWhenOver(t *testing.T) {
	uc, _ := newUseCase(testConfig(), nil)
	id := create(t, uc, game.CreateGameRequest{})
	_, err := uc.Resign(context.Background(), id, board.Black)
	require.NoError(t, err)

	_, err = uc.RequestAIMove(context.Background(), id)
	require.ErrorIs(t, err, gobanErrors.ErrGameOver)
}

func TestAnalyze(t *testing.T) {
	territory := make([][]float64, board.Size)
	for y := range territory {
		territory[y] = make([]float64, board.Size)
	}
	territory[0][0] = 0.9
	territory[18][18] = -0.7

	advisor := &advisorMock{}
	advisor.On("Analyze", mock.Anything, mock.Anything).Return(domain.AnalysisResponse{
		Success:  true,
		Analysis: &domain.Analysis{WinRate: 0.55, ScoreLead: 1.5, Territory: territory},
	}, nil).Once()

	uc, _ := newUseCase(testConfig(), advisor)
	id := create(t, uc, game.CreateGameRequest{})

	resp, err := uc.Analyze(context.Background(), id)
	require.NoError(t, err)
	require.InDelta(t, 0.55, resp.WinRate, 1e-9)
	require.Equal(t, 1, resp.Summary.Black)
	require.Equal(t, 1, resp.Summary.White)
	require.Equal(t, board.Size*board.Size-2, resp.Summary.Dame)
}

func TestAnalyzeFailures(t *testing.T) {
	ctx := context.Background()

	uc, _ := newUseCase(testConfig(), nil)
	id := create(t, uc, game.CreateGameRequest{})
	_, err := uc.Analyze(ctx, id)
	require.ErrorIs(t, err, gobanErrors.ErrAdvisor)

	advisor := &advisorMock{}
	advisor.On("Analyze", mock.Anything, mock.Anything).Return(domain.AnalysisResponse{
		Success:  true,
		Analysis: &domain.Analysis{Territory: [][]float64{{2}}},
	}, nil).Once()
	advisor.On("Analyze", mock.Anything, mock.Anything).Return(domain.AnalysisResponse{Error: "busy"}, nil).Once()
	advisor.On("Analyze", mock.Anything, mock.Anything).Return(domain.AnalysisResponse{}, errors.New("down")).Once()

	uc, _ = newUseCase(testConfig(), advisor)
	id = create(t, uc, game.CreateGameRequest{})
	for i := 0; i < 3; i++ {
		_, err = uc.Analyze(ctx, id)
		require.ErrorIs(t, err, gobanErrors.ErrAdvisor)
	}
	advisor.AssertExpectations(t)
}

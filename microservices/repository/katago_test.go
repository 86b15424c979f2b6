package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain"
	"goban/internal/domain/board"
)

func newBridge(t *testing.T, handler http.HandlerFunc) *KatagoRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := &bootstrap.Config{KatagoUrl: server.URL + "/", AdvisorTimeout: time.Second}
	return NewKatagoRepository(cfg, zap.NewNop().Sugar())
}

func TestGenerateMove(t *testing.T) {
	repo := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, movePath, r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var req domain.MoveRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, board.White, req.Color)
		assert.Equal(t, "1d", req.Rank)

		_ = json.NewEncoder(w).Encode(domain.MoveResponse{Success: true, Move: &domain.SuggestedMove{X: 16, Y: 3}})
	})

	resp, err := repo.GenerateMove(context.Background(), domain.MoveRequest{
		Board: new(board.Board).Matrix(),
		Rank:  "1d",
		Color: board.White,
	})
	require.NoError(t, err)
	require.False(t, resp.Passes())
	require.Equal(t, board.Point{X: 16, Y: 3}, resp.Move.Point())
}

func TestAnalyze(t *testing.T) {
	repo := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, analyzePath, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"analysis":{"win_rate":0.4,"score_lead":-3.5,"territory":[[0.5]]}}`))
	})

	resp, err := repo.Analyze(context.Background(), domain.AnalysisRequest{})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.InDelta(t, -3.5, resp.Analysis.ScoreLead, 1e-9)
}

func TestBridgeErrors(t *testing.T) {
	repo := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == movePath {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("not json"))
	})

	_, err := repo.GenerateMove(context.Background(), domain.MoveRequest{})
	require.ErrorContains(t, err, "unexpected status code: 503")

	_, err = repo.Analyze(context.Background(), domain.AnalysisRequest{})
	require.ErrorContains(t, err, "failed to decode response")
}

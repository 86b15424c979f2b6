package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"goban/internal/domain"
	"goban/internal/domain/game"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) SaveSession(ctx context.Context, snapshot game.SessionSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *storeMock) LoadSession(ctx context.Context, id string) (game.SessionSnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(game.SessionSnapshot), args.Error(1)
}

func (m *storeMock) ArchiveGame(ctx context.Context, archived game.ArchivedGame) error {
	return m.Called(ctx, archived).Error(0)
}

func (m *storeMock) GetArchivedGame(ctx context.Context, id string) (game.ArchivedGame, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(game.ArchivedGame), args.Error(1)
}

type advisorMock struct {
	mock.Mock
}

func (m *advisorMock) GenerateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.MoveResponse), args.Error(1)
}

func (m *advisorMock) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.AnalysisResponse), args.Error(1)
}

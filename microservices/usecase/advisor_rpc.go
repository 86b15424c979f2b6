package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"goban/internal/domain"
	"goban/internal/domain/board"
	advisorRPC "goban/microservices/proto"
)

type AdvisorStore interface {
	GenerateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error)
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

// AdvisorUseCase serves the advisor RPCs from the KataGo bridge.
type AdvisorUseCase struct {
	store AdvisorStore
	log   *zap.SugaredLogger
}

func NewAdvisorUseCase(store AdvisorStore, log *zap.SugaredLogger) *AdvisorUseCase {
	return &AdvisorUseCase{
		store: store,
		log:   log,
	}
}

var _ advisorRPC.AdvisorServer = (*AdvisorUseCase)(nil)

func (a *AdvisorUseCase) GenerateMove(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req domain.MoveRequest
	if err := advisorRPC.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := checkBoard(req.Board); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.Color != board.Black && req.Color != board.White {
		return nil, status.Error(codes.InvalidArgument, "color must be black or white")
	}
	req.Rank = domain.NormalizeRank(req.Rank)
	if req.Playouts <= 0 {
		req.Playouts = domain.RankPlayouts[req.Rank]
	}

	resp, err := a.store.GenerateMove(ctx, req)
	if err != nil {
		a.log.Errorf("generate move: %v", err)
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	if resp.Move != nil && !board.InBounds(resp.Move.Point()) {
		a.log.Warnf("engine suggested off-board move (%d,%d)", resp.Move.X, resp.Move.Y)
		return nil, status.Errorf(codes.Internal, "engine suggested off-board move (%d,%d)", resp.Move.X, resp.Move.Y)
	}

	return advisorRPC.Encode(resp)
}

func (a *AdvisorUseCase) Analyze(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req domain.AnalysisRequest
	if err := advisorRPC.Decode(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := checkBoard(req.Board); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := a.store.Analyze(ctx, req)
	if err != nil {
		a.log.Errorf("analyze: %v", err)
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return advisorRPC.Encode(resp)
}

func checkBoard(matrix [][]string) error {
	if _, err := board.ParseMatrix(matrix); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	return nil
}

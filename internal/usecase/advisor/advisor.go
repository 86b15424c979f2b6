package advisor

import (
	"context"

	"go.uber.org/zap"

	"goban/internal/domain"
	advisorRPC "goban/microservices/proto"
)

// GRPCAdvisor asks the advisor microservice for moves and analyses.
type GRPCAdvisor struct {
	client advisorRPC.AdvisorClient
	log    *zap.SugaredLogger
}

func NewGRPCAdvisor(client advisorRPC.AdvisorClient, log *zap.SugaredLogger) *GRPCAdvisor {
	return &GRPCAdvisor{
		client: client,
		log:    log,
	}
}

func (a *GRPCAdvisor) GenerateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error) {
	in, err := advisorRPC.Encode(req)
	if err != nil {
		return domain.MoveResponse{}, err
	}

	out, err := a.client.GenerateMove(ctx, in)
	if err != nil {
		return domain.MoveResponse{}, err
	}

	var resp domain.MoveResponse
	if err = advisorRPC.Decode(out, &resp); err != nil {
		return domain.MoveResponse{}, err
	}
	a.log.Debugf("advisor move for %s at %s: %+v", req.Color, req.Rank, resp)
	return resp, nil
}

func (a *GRPCAdvisor) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error) {
	in, err := advisorRPC.Encode(req)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}

	out, err := a.client.Analyze(ctx, in)
	if err != nil {
		return domain.AnalysisResponse{}, err
	}

	var resp domain.AnalysisResponse
	if err = advisorRPC.Decode(out, &resp); err != nil {
		return domain.AnalysisResponse{}, err
	}
	return resp, nil
}

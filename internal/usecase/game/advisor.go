package game

import (
	"context"
	"fmt"

	"goban/internal/bootstrap"
	"goban/internal/domain"
	"goban/internal/domain/game"
	gobanErrors "goban/internal/errors"
)

// RequestAIMove plays one move for the side to move, chosen by the advisor
// or, failing that, by the local heuristic.
func (g *GameUseCase) RequestAIMove(ctx context.Context, id string) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}
	return g.aiTurn(ctx, s)
}

// withAIReply lets the AI answer when it is its turn and attaches the reply
// to turn. A failed reply is logged and leaves turn as it was.
func (g *GameUseCase) withAIReply(ctx context.Context, s *session, turn game.Turn) game.Turn {
	s.mu.Lock()
	due := s.aiColor != 0 && !s.game.Over() && s.game.ToMove() == s.aiColor
	s.mu.Unlock()
	if !due {
		return turn
	}

	reply, err := g.aiTurn(ctx, s)
	if err != nil {
		g.log.Warnf("game %s: ai reply: %v", s.id, err)
		return turn
	}
	turn.Reply = &reply
	turn.State = reply.State
	return turn
}

// aiTurn asks the advisor without holding the session lock and commits the
// answer only if the position did not change meanwhile.
func (g *GameUseCase) aiTurn(ctx context.Context, s *session) (game.Turn, error) {
	s.mu.Lock()
	if s.game.Over() {
		s.mu.Unlock()
		return game.Turn{}, gobanErrors.ErrGameOver
	}
	version := s.version
	req := domain.MoveRequest{
		Board:    s.game.Board().Matrix(),
		Rank:     s.rank,
		Color:    s.game.ToMove(),
		Playouts: domain.RankPlayouts[s.rank],
	}
	s.mu.Unlock()

	var (
		resp domain.MoveResponse
		err  error
	)
	if g.advisor != nil {
		advisorCtx, cancel := context.WithTimeout(ctx, g.cfg.AdvisorTimeout)
		resp, err = g.advisor.GenerateMove(advisorCtx, req)
		cancel()
	}

	s.mu.Lock()
	if s.version != version {
		s.mu.Unlock()
		return game.Turn{}, gobanErrors.ErrStalePosition
	}
	turn, err := g.playAdvice(ctx, s, resp, err)
	s.mu.Unlock()
	if err != nil {
		return game.Turn{}, err
	}

	g.notify(s.id, turn)
	return turn, nil
}

// playAdvice commits the advisor's answer. advisorErr is the error of the
// advisor call, if any. Must hold s.mu.
func (g *GameUseCase) playAdvice(ctx context.Context, s *session, resp domain.MoveResponse, advisorErr error) (game.Turn, error) {
	color := s.game.ToMove()

	switch {
	case g.advisor == nil:
		return g.playHeuristic(ctx, s)
	case advisorErr != nil:
		g.log.Warnf("game %s: advisor: %v", s.id, advisorErr)
		if g.cfg.AIFallback == bootstrap.FallbackPass {
			return g.playPass(ctx, s, game.SourceAdvisor)
		}
		return g.playHeuristic(ctx, s)
	case resp.Passes():
		if resp.Error != "" {
			g.log.Infof("game %s: advisor passed: %s", s.id, resp.Error)
		}
		return g.playPass(ctx, s, game.SourceAdvisor)
	}

	p := resp.Move.Point()
	outcome, err := s.game.ApplyMove(p, g.spent(s))
	if err != nil {
		g.log.Warnf("game %s: advisor suggested %s for %s: %v", s.id, p, color, err)
		return g.playHeuristic(ctx, s)
	}
	return g.commit(ctx, s, game.Turn{
		Event:   game.EventMove,
		Source:  game.SourceAdvisor,
		Color:   color,
		Outcome: &outcome,
	}), nil
}

func (g *GameUseCase) playHeuristic(ctx context.Context, s *session) (game.Turn, error) {
	p, ok := s.game.BestMove()
	if !ok {
		return g.playPass(ctx, s, game.SourceHeuristic)
	}
	color := s.game.ToMove()
	outcome, err := s.game.ApplyMove(p, g.spent(s))
	if err != nil {
		return game.Turn{}, fmt.Errorf("%w: heuristic chose %s: %v", gobanErrors.ErrInternal, p, err)
	}
	return g.commit(ctx, s, game.Turn{
		Event:   game.EventMove,
		Source:  game.SourceHeuristic,
		Color:   color,
		Outcome: &outcome,
	}), nil
}

func (g *GameUseCase) playPass(ctx context.Context, s *session, source string) (game.Turn, error) {
	color := s.game.ToMove()
	if _, err := s.game.Pass(g.spent(s)); err != nil {
		return game.Turn{}, err
	}
	return g.commit(ctx, s, game.Turn{Event: game.EventPass, Source: source, Color: color}), nil
}

// Analyze asks the advisor for an evaluation of the current position.
func (g *GameUseCase) Analyze(ctx context.Context, id string) (game.AnalysisResponse, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.AnalysisResponse{}, err
	}
	if g.advisor == nil {
		return game.AnalysisResponse{}, fmt.Errorf("%w: no advisor configured", gobanErrors.ErrAdvisor)
	}

	s.mu.Lock()
	req := domain.AnalysisRequest{Board: s.game.Board().Matrix()}
	s.mu.Unlock()

	advisorCtx, cancel := context.WithTimeout(ctx, g.cfg.AdvisorTimeout)
	defer cancel()

	resp, err := g.advisor.Analyze(advisorCtx, req)
	if err != nil {
		return game.AnalysisResponse{}, fmt.Errorf("%w: %v", gobanErrors.ErrAdvisor, err)
	}
	if !resp.Success || resp.Analysis == nil {
		return game.AnalysisResponse{}, fmt.Errorf("%w: %s", gobanErrors.ErrAdvisor, resp.Error)
	}
	if err = resp.Analysis.Validate(); err != nil {
		return game.AnalysisResponse{}, fmt.Errorf("%w: %v", gobanErrors.ErrAdvisor, err)
	}

	return game.AnalysisResponse{
		Analysis: *resp.Analysis,
		Summary:  domain.SummarizeTerritory(resp.Analysis.Territory, domain.DefaultTerritoryThreshold),
	}, nil
}


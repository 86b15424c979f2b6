package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/engine"
	gobanErrors "goban/internal/errors"
)

type GameStore interface {
	SaveSession(ctx context.Context, snapshot game.SessionSnapshot) error
	LoadSession(ctx context.Context, id string) (game.SessionSnapshot, error)
	ArchiveGame(ctx context.Context, archived game.ArchivedGame) error
	GetArchivedGame(ctx context.Context, id string) (game.ArchivedGame, error)
}

// Advisor is the external move engine. A nil Advisor means only the local
// heuristic is used.
type Advisor interface {
	GenerateMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error)
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResponse, error)
}

// session is one live game. mu guards every field below it.
type session struct {
	mu          sync.Mutex
	id          string
	rank        string
	aiColor     board.Color
	createdAt   time.Time
	game        *engine.Game
	turnStarted time.Time
	version     uint64
}

type GameUseCase struct {
	cfg     bootstrap.Config
	log     *zap.SugaredLogger
	store   GameStore
	advisor Advisor
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session

	listenersMu sync.RWMutex
	listeners   []func(id string, turn game.Turn)
}

func NewGameUseCase(cfg bootstrap.Config, log *zap.SugaredLogger, store GameStore, advisor Advisor) *GameUseCase {
	return &GameUseCase{
		cfg:      cfg,
		log:      log,
		store:    store,
		advisor:  advisor,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Subscribe registers fn to receive every turn committed in any game.
func (g *GameUseCase) Subscribe(fn func(id string, turn game.Turn)) {
	g.listenersMu.Lock()
	defer g.listenersMu.Unlock()
	g.listeners = append(g.listeners, fn)
}

func (g *GameUseCase) notify(id string, turn game.Turn) {
	g.listenersMu.RLock()
	defer g.listenersMu.RUnlock()
	for _, fn := range g.listeners {
		fn(id, turn)
	}
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.Turn, error) {
	switch req.AIColor {
	case 0, board.Black, board.White:
	default:
		return game.Turn{}, fmt.Errorf("ai_color %d: %w", req.AIColor, gobanErrors.ErrBadRequest)
	}
	rank := req.Rank
	if rank == "" {
		rank = g.cfg.DefaultRank
	}

	now := g.now()
	s := &session{
		id:          uuid.NewString(),
		rank:        domain.NormalizeRank(rank),
		aiColor:     req.AIColor,
		createdAt:   now,
		game:        engine.New(),
		turnStarted: now,
	}

	g.mu.Lock()
	g.sessions[s.id] = s
	g.mu.Unlock()

	s.mu.Lock()
	g.persist(ctx, s)
	turn := game.Turn{Event: game.EventCreate, State: g.stateOf(s)}
	s.mu.Unlock()

	g.log.Infof("game %s created (rank %s, ai %s)", s.id, s.rank, s.aiColor)
	return g.withAIReply(ctx, s, turn), nil
}

func (g *GameUseCase) GetGame(ctx context.Context, id string) (game.GameState, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.GameState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return g.stateOf(s), nil
}

func (g *GameUseCase) PlayMove(ctx context.Context, id string, p board.Point) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}

	s.mu.Lock()
	if err = g.checkHumanTurn(s); err != nil {
		s.mu.Unlock()
		return game.Turn{}, err
	}
	outcome, err := s.game.ApplyMove(p, g.spent(s))
	if err != nil {
		s.mu.Unlock()
		return game.Turn{}, err
	}
	turn := g.commit(ctx, s, game.Turn{
		Event:   game.EventMove,
		Source:  game.SourceHuman,
		Color:   outcome.Color,
		Outcome: &outcome,
	})
	s.mu.Unlock()

	g.notify(id, turn)
	return g.withAIReply(ctx, s, turn), nil
}

func (g *GameUseCase) Pass(ctx context.Context, id string) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}

	s.mu.Lock()
	if err = g.checkHumanTurn(s); err != nil {
		s.mu.Unlock()
		return game.Turn{}, err
	}
	color := s.game.ToMove()
	if _, err = s.game.Pass(g.spent(s)); err != nil {
		s.mu.Unlock()
		return game.Turn{}, err
	}
	turn := g.commit(ctx, s, game.Turn{Event: game.EventPass, Source: game.SourceHuman, Color: color})
	s.mu.Unlock()

	g.notify(id, turn)
	return g.withAIReply(ctx, s, turn), nil
}

// Undo takes back the last move. Against the AI it also takes back the
// AI's reply so the human is to move again. An undone AI opening is
// replayed.
func (g *GameUseCase) Undo(ctx context.Context, id string) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}

	s.mu.Lock()
	if !s.game.Undo() {
		err = gobanErrors.ErrNothingToUndo
		if s.game.EndReason() == engine.Resigned {
			err = gobanErrors.ErrGameOver
		}
		s.mu.Unlock()
		return game.Turn{}, err
	}
	if s.aiColor != 0 && s.game.ToMove() == s.aiColor && s.game.MoveCount() > 0 {
		s.game.Undo()
	}
	turn := g.commit(ctx, s, game.Turn{Event: game.EventUndo, Source: game.SourceHuman})
	s.mu.Unlock()

	g.notify(id, turn)
	return g.withAIReply(ctx, s, turn), nil
}

// Resign ends the game. A zero color resigns for the human side.
func (g *GameUseCase) Resign(ctx context.Context, id string, color board.Color) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}

	s.mu.Lock()
	if color == 0 {
		color = s.game.ToMove()
		if s.aiColor != 0 {
			color = s.aiColor.Opposite()
		}
	}
	if color != board.Black && color != board.White {
		s.mu.Unlock()
		return game.Turn{}, fmt.Errorf("resign color %d: %w", color, gobanErrors.ErrBadRequest)
	}
	if err = s.game.Resign(color); err != nil {
		s.mu.Unlock()
		return game.Turn{}, err
	}
	turn := g.commit(ctx, s, game.Turn{Event: game.EventResign, Source: game.SourceHuman, Color: color})
	s.mu.Unlock()

	g.notify(id, turn)
	return turn, nil
}

// Reset starts the session over on an empty board, keeping its settings.
func (g *GameUseCase) Reset(ctx context.Context, id string) (game.Turn, error) {
	s, err := g.session(ctx, id)
	if err != nil {
		return game.Turn{}, err
	}

	s.mu.Lock()
	s.game.Reset()
	turn := g.commit(ctx, s, game.Turn{Event: game.EventReset, Source: game.SourceHuman})
	s.mu.Unlock()

	g.notify(id, turn)
	return g.withAIReply(ctx, s, turn), nil
}

func (g *GameUseCase) GetArchivedGame(ctx context.Context, id string) (game.ArchivedGame, error) {
	return g.store.GetArchivedGame(ctx, id)
}

// session returns the live session, restoring it from the store when it is
// not in memory.
func (g *GameUseCase) session(ctx context.Context, id string) (*session, error) {
	g.mu.RLock()
	s, ok := g.sessions[id]
	g.mu.RUnlock()
	if ok {
		return s, nil
	}

	snapshot, err := g.store.LoadSession(ctx, id)
	if err != nil {
		if errors.Is(err, gobanErrors.ErrGameNotFound) {
			return nil, err
		}
		g.log.Errorf("load session %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", gobanErrors.ErrInternal, err)
	}
	restored, err := restore(snapshot, g.now())
	if err != nil {
		g.log.Errorf("restore session %s: %v", id, err)
		return nil, fmt.Errorf("%w: %v", gobanErrors.ErrInternal, err)
	}

	g.mu.Lock()
	if s, ok = g.sessions[id]; ok {
		g.mu.Unlock()
		return s, nil
	}
	g.sessions[id] = restored
	g.mu.Unlock()
	g.log.Infof("game %s restored with %d moves", id, len(snapshot.Records))

	// A snapshot saved while the AI was thinking resumes with its reply.
	if turn := g.withAIReply(ctx, restored, game.Turn{}); turn.Reply != nil {
		g.log.Infof("game %s: ai resumed after restore", id)
	}
	return restored, nil
}

func restore(snapshot game.SessionSnapshot, now time.Time) (*session, error) {
	replayed, err := engine.Replay(snapshot.Records)
	if err != nil {
		return nil, err
	}
	if snapshot.Resigned != 0 {
		if err = replayed.Resign(snapshot.Resigned); err != nil {
			return nil, err
		}
	}
	return &session{
		id:          snapshot.ID,
		rank:        domain.NormalizeRank(snapshot.Rank),
		aiColor:     snapshot.AIColor,
		createdAt:   snapshot.CreatedAt,
		game:        replayed,
		turnStarted: now,
	}, nil
}

func (g *GameUseCase) checkHumanTurn(s *session) error {
	if s.game.Over() {
		return gobanErrors.ErrGameOver
	}
	if s.aiColor != 0 && s.game.ToMove() == s.aiColor {
		return gobanErrors.ErrNotYourTurn
	}
	return nil
}

// spent is the time since the side to move got the turn. Must hold s.mu.
func (g *GameUseCase) spent(s *session) time.Duration {
	d := g.now().Sub(s.turnStarted)
	if d < 0 {
		return 0
	}
	return d
}

// commit finishes a mutation: it bumps the version, restarts the turn
// clock, persists the session and fills in the resulting state. Must hold
// s.mu.
func (g *GameUseCase) commit(ctx context.Context, s *session, turn game.Turn) game.Turn {
	s.version++
	s.turnStarted = g.now()
	g.persist(ctx, s)
	turn.State = g.stateOf(s)
	return turn
}

// persist writes the game to the session cache and archives it once it is
// over. A finished game keeps its snapshot until the TTL so it can still be
// viewed and restored. Failures are logged; the in-memory session stays
// authoritative.
func (g *GameUseCase) persist(ctx context.Context, s *session) {
	if s.game.Over() {
		if err := g.store.ArchiveGame(ctx, g.archiveOf(s)); err != nil {
			g.log.Errorf("archive game %s: %v", s.id, err)
		}
	}
	if err := g.store.SaveSession(ctx, g.snapshotOf(s)); err != nil {
		g.log.Warnf("save session %s: %v", s.id, err)
	}
}

// EvictIdle drops in-memory sessions with no committed activity for the
// session TTL. Their snapshots have expired from the cache by then too.
// Sessions busy with a request are skipped.
func (g *GameUseCase) EvictIdle() int {
	if g.cfg.SessionTTL <= 0 {
		return 0
	}
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()
	evicted := 0
	for id, s := range g.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if now.Sub(s.turnStarted) >= g.cfg.SessionTTL {
			delete(g.sessions, id)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

// RunJanitor calls EvictIdle every interval until ctx is done.
func (g *GameUseCase) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.EvictIdle(); n > 0 {
				g.log.Infof("evicted %d idle games", n)
			}
		}
	}
}

func (g *GameUseCase) snapshotOf(s *session) game.SessionSnapshot {
	snapshot := game.SessionSnapshot{
		ID:        s.id,
		Rank:      s.rank,
		AIColor:   s.aiColor,
		CreatedAt: s.createdAt,
		Records:   s.game.History(),
	}
	if winner, ok := s.game.Winner(); ok && s.game.EndReason() == engine.Resigned {
		snapshot.Resigned = winner.Opposite()
	}
	return snapshot
}

func (g *GameUseCase) archiveOf(s *session) game.ArchivedGame {
	archived := game.ArchivedGame{
		ID:         s.id,
		CreatedAt:  s.createdAt,
		FinishedAt: g.now(),
		Rank:       s.rank,
		AIColor:    s.aiColor.String(),
		EndReason:  string(s.game.EndReason()),
		Captures:   s.game.Captures(),
		FinalBoard: s.game.Board().Rows(),
		Moves:      s.game.History(),
		SGF:        SerializeSGF(g.sgfOf(s)),
	}
	if s.aiColor == 0 {
		archived.AIColor = ""
	}
	if winner, ok := s.game.Winner(); ok {
		archived.Winner = winner.String()
	}
	return archived
}

func (g *GameUseCase) stateOf(s *session) game.GameState {
	state := game.GameState{
		ID:        s.id,
		Board:     s.game.Board().Rows(),
		ToMove:    s.game.ToMove(),
		Ko:        s.game.Ko(),
		Captures:  s.game.Captures(),
		Elapsed:   game.NewElapsedMillis(s.game.Elapsed()),
		Moves:     s.game.History(),
		Over:      s.game.Over(),
		EndReason: s.game.EndReason(),
		AIColor:   s.aiColor,
		Rank:      s.rank,
		CreatedAt: s.createdAt,
	}
	if last, ok := s.game.LastMove(); ok {
		state.LastMove = &last
	}
	if winner, ok := s.game.Winner(); ok {
		state.Winner = winner
	}
	return state
}

package game

import (
	"time"

	"goban/internal/domain"
	"goban/internal/domain/board"
	"goban/internal/engine"
)

// Move sources reported with every turn.
const (
	SourceHuman     = "human"
	SourceAdvisor   = "advisor"
	SourceHeuristic = "heuristic"
)

// Turn event types.
const (
	EventCreate = "create"
	EventMove   = "move"
	EventPass   = "pass"
	EventUndo   = "undo"
	EventResign = "resign"
	EventReset  = "reset"
)

type CreateGameRequest struct {
	AIColor board.Color `json:"ai_color,omitempty"`
	Rank    string      `json:"rank,omitempty"`
}

// MoveRequest names the point either by coordinates or by a GTP vertex
// such as "D4". The vertex "pass" asks for a pass.
type MoveRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Vertex string `json:"vertex,omitempty"`
}

// Target resolves the request. ok is false for a pass.
func (r MoveRequest) Target() (p board.Point, ok bool, err error) {
	if r.Vertex == "" {
		return board.Point{X: r.X, Y: r.Y}, true, nil
	}
	return board.ParseVertex(r.Vertex)
}

type ResignRequest struct {
	Color board.Color `json:"color,omitempty"`
}

// ElapsedMillis is the per-side clock in milliseconds.
type ElapsedMillis struct {
	Black int64 `json:"black"`
	White int64 `json:"white"`
}

func NewElapsedMillis(c engine.Clock) ElapsedMillis {
	return ElapsedMillis{Black: c.Black.Milliseconds(), White: c.White.Milliseconds()}
}

// GameState is the presentation view of a session.
type GameState struct {
	ID        string              `json:"id"`
	Board     []string            `json:"board"`
	ToMove    board.Color         `json:"to_move"`
	LastMove  *board.Point        `json:"last_move,omitempty"`
	Ko        *board.Point        `json:"ko,omitempty"`
	Captures  engine.Tally        `json:"captures"`
	Elapsed   ElapsedMillis       `json:"elapsed_ms"`
	Moves     []engine.MoveRecord `json:"moves"`
	Over      bool                `json:"over"`
	EndReason engine.EndReason    `json:"end_reason,omitempty"`
	Winner    board.Color         `json:"winner,omitempty"`
	AIColor   board.Color         `json:"ai_color,omitempty"`
	Rank      string              `json:"rank"`
	CreatedAt time.Time           `json:"created_at"`
}

// Turn is what a mutation returns and what subscribers receive.
type Turn struct {
	Event   string              `json:"event"`
	Source  string              `json:"source,omitempty"`
	Color   board.Color         `json:"color,omitempty"`
	Outcome *engine.MoveOutcome `json:"outcome,omitempty"`
	Reply   *Turn               `json:"reply,omitempty"`
	State   GameState           `json:"state"`
}

type AnalysisResponse struct {
	domain.Analysis
	Summary domain.TerritorySummary `json:"summary"`
}

// SessionSnapshot is the cached form of a live session. The position is
// rebuilt from Records.
type SessionSnapshot struct {
	ID        string              `json:"id"`
	Rank      string              `json:"rank"`
	AIColor   board.Color         `json:"ai_color,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	Records   []engine.MoveRecord `json:"records"`
	Resigned  board.Color         `json:"resigned,omitempty"`
}

// ArchivedGame is a finished game as stored in the archive.
type ArchivedGame struct {
	ID         string              `json:"id" bson:"_id"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	FinishedAt time.Time           `json:"finished_at" bson:"finished_at"`
	Rank       string              `json:"rank" bson:"rank"`
	AIColor    string              `json:"ai_color,omitempty" bson:"ai_color,omitempty"`
	EndReason  string              `json:"end_reason" bson:"end_reason"`
	Winner     string              `json:"winner,omitempty" bson:"winner,omitempty"`
	Captures   engine.Tally        `json:"captures" bson:"captures"`
	FinalBoard []string            `json:"final_board" bson:"final_board"`
	Moves      []engine.MoveRecord `json:"moves" bson:"moves"`
	SGF        string              `json:"sgf" bson:"sgf"`
}

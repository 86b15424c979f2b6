package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	gobanErrors "goban/internal/errors"
	"goban/internal/httpresponse"
	gameuc "goban/internal/usecase/game"
	"goban/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
	hub    *Hub
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	hub := NewHub(log)
	gameUC.Subscribe(hub.Broadcast)
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
		hub:    hub,
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Post("/games", g.HandleNewGame)
	r.Route("/games/{id}", func(r chi.Router) {
		r.Get("/", g.HandleGetGame)
		r.Post("/move", g.HandleMove)
		r.Post("/pass", g.HandlePass)
		r.Post("/undo", g.HandleUndo)
		r.Post("/resign", g.HandleResign)
		r.Post("/reset", g.HandleReset)
		r.Post("/ai-move", g.HandleAIMove)
		r.Post("/analyze", g.HandleAnalyze)
		r.Get("/sgf", g.HandleSGF)
		r.Get("/record.pdf", g.HandleRecord)
		r.Get("/ws", g.HandleWS)
	})
	r.Get("/archive/{id}", g.HandleGetArchivedGame)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeOptionalJSONRequest(r, &req); err != nil {
		g.log.Debugf("new game: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, turn)
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	state, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, state)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	turn, err := g.play(r, chi.URLParam(r, "id"), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, turn)
}

func (g *GameHandler) play(r *http.Request, id string, req game.MoveRequest) (game.Turn, error) {
	p, ok, err := req.Target()
	if err != nil {
		return game.Turn{}, errors.Join(gobanErrors.ErrBadRequest, err)
	}
	if !ok {
		return g.gameUC.Pass(r.Context(), id)
	}
	return g.gameUC.PlayMove(r.Context(), id, p)
}

func (g *GameHandler) HandlePass(w http.ResponseWriter, r *http.Request) {
	turn, err := g.gameUC.Pass(r.Context(), chi.URLParam(r, "id"))
	g.writeTurn(w, turn, err)
}

func (g *GameHandler) HandleUndo(w http.ResponseWriter, r *http.Request) {
	turn, err := g.gameUC.Undo(r.Context(), chi.URLParam(r, "id"))
	g.writeTurn(w, turn, err)
}

func (g *GameHandler) HandleResign(w http.ResponseWriter, r *http.Request) {
	var req game.ResignRequest
	if err := utils.DecodeOptionalJSONRequest(r, &req); err != nil {
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	turn, err := g.gameUC.Resign(r.Context(), chi.URLParam(r, "id"), req.Color)
	g.writeTurn(w, turn, err)
}

func (g *GameHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	turn, err := g.gameUC.Reset(r.Context(), chi.URLParam(r, "id"))
	g.writeTurn(w, turn, err)
}

func (g *GameHandler) HandleAIMove(w http.ResponseWriter, r *http.Request) {
	turn, err := g.gameUC.RequestAIMove(r.Context(), chi.URLParam(r, "id"))
	g.writeTurn(w, turn, err)
}

func (g *GameHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := g.gameUC.Analyze(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, analysis)
}

func (g *GameHandler) HandleSGF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	record, err := g.gameUC.ExportSGF(r.Context(), id)
	if err != nil {
		g.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-go-sgf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.sgf"`)
	_, _ = w.Write([]byte(record))
}

func (g *GameHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.pdf"`)

	var buf bytes.Buffer
	if err := g.gameUC.ExportRecord(r.Context(), id, &buf); err != nil {
		w.Header().Del("Content-Disposition")
		g.writeError(w, err)
		return
	}
	_, _ = buf.WriteTo(w)
}

func (g *GameHandler) HandleGetArchivedGame(w http.ResponseWriter, r *http.Request) {
	archived, err := g.gameUC.GetArchivedGame(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, archived)
}

func (g *GameHandler) writeTurn(w http.ResponseWriter, turn game.Turn, err error) {
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, turn)
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		g.log.Errorf("request failed: %v", err)
		httpresponse.WriteErrorResponse(w, status, gobanErrors.ErrInternal.Error())
		return
	}
	g.log.Debugf("request rejected (%d): %v", status, err)
	httpresponse.WriteErrorResponse(w, status, err.Error())
}

func statusOf(err error) int {
	switch {
	case gobanErrors.IsIllegalMove(err), errors.Is(err, gobanErrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, gobanErrors.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, gobanErrors.ErrGameOver),
		errors.Is(err, gobanErrors.ErrNotYourTurn),
		errors.Is(err, gobanErrors.ErrNothingToUndo),
		errors.Is(err, gobanErrors.ErrStalePosition):
		return http.StatusConflict
	case errors.Is(err, gobanErrors.ErrAdvisor):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Command is a message a websocket subscriber sends to act on the game.
type Command struct {
	Type   string      `json:"type"`
	X      int         `json:"x,omitempty"`
	Y      int         `json:"y,omitempty"`
	Vertex string      `json:"vertex,omitempty"`
	Color  board.Color `json:"color,omitempty"`
}

type wsError struct {
	Event string `json:"event"`
	Error string `json:"error"`
}

// HandleWS subscribes the caller to the game's turns. The current state is
// sent first; commands may then be sent on the same socket.
func (g *GameHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := g.gameUC.GetGame(r.Context(), id); err != nil {
		g.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("websocket upgrade for game %s: %v", id, err)
		return
	}

	c := &client{gameID: id, conn: conn, send: make(chan []byte, sendBufferSize)}
	go c.writePump()
	state, err := g.attach(r.Context(), c)
	if err != nil {
		g.log.Errorf("websocket for game %s: %v", id, err)
		return
	}
	g.hub.reply(c, game.Turn{Event: "state", State: state})

	defer g.hub.unregister(c)
	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err = conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warnf("websocket for game %s: %v", id, err)
			}
			return
		}
		if err = g.runCommand(r, id, cmd); err != nil {
			g.hub.reply(c, wsError{Event: "error", Error: err.Error()})
		}
	}
}

// attach subscribes c and then reads the state it starts from, so every
// turn committed after that state is also queued for c.
func (g *GameHandler) attach(ctx context.Context, c *client) (game.GameState, error) {
	g.hub.register(c)
	state, err := g.gameUC.GetGame(ctx, c.gameID)
	if err != nil {
		g.hub.unregister(c)
		return game.GameState{}, err
	}
	return state, nil
}

// runCommand applies cmd; the resulting turn reaches every subscriber
// through the hub.
func (g *GameHandler) runCommand(r *http.Request, id string, cmd Command) error {
	ctx := r.Context()
	var err error
	switch cmd.Type {
	case game.EventMove:
		_, err = g.play(r, id, game.MoveRequest{X: cmd.X, Y: cmd.Y, Vertex: cmd.Vertex})
	case game.EventPass:
		_, err = g.gameUC.Pass(ctx, id)
	case game.EventUndo:
		_, err = g.gameUC.Undo(ctx, id)
	case game.EventResign:
		_, err = g.gameUC.Resign(ctx, id, cmd.Color)
	case game.EventReset:
		_, err = g.gameUC.Reset(ctx, id)
	case "ai-move":
		_, err = g.gameUC.RequestAIMove(ctx, id)
	default:
		err = fmt.Errorf("unknown command %q", cmd.Type)
	}
	return err
}

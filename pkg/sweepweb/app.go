// Package sweepweb serves minesweeper games over HTTP and websockets.
package sweepweb

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
)

const maxBodySize = 1 << 12

// App serves the games of a store over HTTP.
type App struct {
	Router *mux.Router

	logger   *slog.Logger
	cfg      Config
	store    *game.Store
	upgrader websocket.Upgrader
}

// MakeApp registers the game routes on a new router.
func MakeApp(logger *slog.Logger, cfg Config, store *game.Store) *App {
	cfg = cfg.withDefaults()
	app := &App{
		Router: mux.NewRouter(),
		logger: logger,
		cfg:    cfg,
		store:  store,
	}
	origins := cors.New(cors.Options{AllowedOrigins: cfg.AllowedOrigins})
	app.upgrader.CheckOrigin = func(r *http.Request) bool {
		// non-browser clients send no Origin
		return r.Header.Get("Origin") == "" || origins.OriginAllowed(r)
	}

	app.Router.HandleFunc("/healthz", app.handleHealth).Methods(http.MethodGet)
	app.Router.HandleFunc("/games", app.handleCreate).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}", app.handleGet).Methods(http.MethodGet)
	app.Router.HandleFunc("/games/{id}", app.handleDelete).Methods(http.MethodDelete)
	app.Router.HandleFunc("/games/{id}/open", app.handleMove(openMove)).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}/mark", app.handleMove(markMove)).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}/release", app.handleMove(releaseMove)).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}/press", app.handlePress).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}/restart", app.handleRestart).Methods(http.MethodPost)
	app.Router.HandleFunc("/games/{id}/ws", app.handleWebsocket).Methods(http.MethodGet)
	app.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
	return app
}

// Handler returns the router wrapped with CORS handling.
func (app *App) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: app.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(app.Router)
}

type createRequest struct {
	Preset string `json:"preset"`
	game.Config
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"games": app.store.Len()})
}

func (app *App) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cfg := req.Config
	if cfg == (game.Config{}) {
		name := req.Preset
		if name == "" {
			name = app.cfg.Preset
		}
		var err error
		if cfg, err = game.Preset(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	id, g, err := app.store.Create(cfg, game.WithLogger(app.logger))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	app.logger.Info("game created", "id", id, "config", cfg.String())
	writeJSON(w, http.StatusCreated, NewGameView(id, g.Snapshot(), g.Elapsed()))
}

func (app *App) handleGet(w http.ResponseWriter, r *http.Request) {
	id, g, ok := app.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewGameView(id, g.Snapshot(), g.Elapsed()))
}

func (app *App) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := app.store.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	app.logger.Info("game deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type move func(g *game.Game, c board.Coord) (*board.Board, error)

func openMove(g *game.Game, c board.Coord) (*board.Board, error) { return g.Open(c) }

func markMove(g *game.Game, c board.Coord) (*board.Board, error) { return g.Mark(c) }

func releaseMove(g *game.Game, c board.Coord) (*board.Board, error) { return g.Release(c) }

func (app *App) handleMove(fn move) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, g, ok := app.lookup(w, r)
		if !ok {
			return
		}
		var req moveRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b, err := fn(g, board.Coord{Row: req.Row, Col: req.Col})
		switch {
		case errors.Is(err, board.ErrOutOfBounds):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		case err != nil:
			app.logger.Error("unable to apply move", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, NewGameView(id, b, g.Elapsed()))
	}
}

func (app *App) handlePress(w http.ResponseWriter, r *http.Request) {
	id, g, ok := app.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, NewGameView(id, g.Press(), g.Elapsed()))
}

func (app *App) handleRestart(w http.ResponseWriter, r *http.Request) {
	id, g, ok := app.lookup(w, r)
	if !ok {
		return
	}
	b, err := g.Restart()
	if err != nil {
		app.logger.Error("unable to restart", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, NewGameView(id, b, g.Elapsed()))
}

// handleWebsocket streams a view after every change until the game is
// deleted or the client goes away.
func (app *App) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id, g, ok := app.lookup(w, r)
	if !ok {
		return
	}
	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.logger.Debug("websocket upgrade failed", "id", id, "error", err)
		return
	}
	defer conn.Close()

	sub := g.Subscribe()
	defer g.Unsubscribe(sub)

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(b *board.Board) error {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(NewGameView(id, b, g.Elapsed()))
	}
	if err := send(g.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case b, ok := <-sub:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game deleted"),
					time.Now().Add(time.Second))
				conn.SetReadDeadline(time.Now().Add(time.Second))
				<-gone
				return
			}
			if err := send(b); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

func (app *App) lookup(w http.ResponseWriter, r *http.Request) (string, *game.Game, bool) {
	id := mux.Vars(r)["id"]
	g, err := app.store.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return "", nil, false
	}
	return id, g, true
}

// decodeBody accepts an empty body as the zero value.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

package sweepweb

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gotuna/gotuna/test/assert"
	"github.com/rs/xid"

	"github.com/grepsuzette/minesweeper/pkg/board"
	"github.com/grepsuzette/minesweeper/pkg/game"
	"github.com/grepsuzette/minesweeper/pkg/log"
)

// smallLayout leaves real mines on (2,0) and (2,2) after the first click.
var smallLayout = board.WithLayout(
	board.Coord{Row: 0, Col: 2},
	board.Coord{Row: 2, Col: 0},
	board.Coord{Row: 2, Col: 2},
)

const smallGame = `{"rows":3,"cols":3,"mines":2}`

// newTestApp returns an app whose store deals the small layout, plus the
// id of one game already created in it.
func newTestApp(t *testing.T) (*App, string) {
	t.Helper()

	store := game.NewStore(game.WithBoardOptions(smallLayout))
	id, _, err := store.Create(game.Config{Rows: 3, Cols: 3, Mines: 2})
	if err != nil {
		t.Fatal(err)
	}
	return MakeApp(log.NewTestingLogger(t), NewDefaultConfig(), store), id
}

func serve(app *App, method, route, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, route, strings.NewReader(body))
	response := httptest.NewRecorder()
	app.Router.ServeHTTP(response, request)
	return response
}

func TestRoutes(t *testing.T) {
	const (
		ok          = http.StatusOK
		badRequest  = http.StatusBadRequest
		notFound    = http.StatusNotFound
		notAllowed  = http.StatusMethodNotAllowed
		unprocessed = http.StatusUnprocessableEntity
	)

	app, id := newTestApp(t)
	routes := []struct {
		method    string
		route     string
		body      string
		status    int
		substring string
	}{
		{http.MethodGet, "/healthz", "", ok, `"games":1`},
		{http.MethodGet, "/games/" + id, "", ok, `"status":"ready"`},
		{http.MethodGet, "/games/" + id, "", ok, `"counters":[[0,0,2],[0,0,0]]`},
		{http.MethodGet, "/games/" + xid.New().String(), "", notFound, "game not found"},
		{http.MethodGet, "/games/not-an-id", "", notFound, "malformed id"},
		{http.MethodPost, "/games/" + id + "/open", `{"row":9,"col":0}`, unprocessed, "out of bounds"},
		{http.MethodPost, "/games/" + id + "/mark", `{"row":`, badRequest, "unexpected EOF"},
		{http.MethodPost, "/games", `{"preset":"impossible"}`, badRequest, "unknown preset"},
		{http.MethodPost, "/games", `{"rows":2,"cols":2,"mines":4}`, badRequest, "invalid board configuration"},
		{http.MethodPut, "/games/" + id, "", notAllowed, ""},
		{http.MethodGet, "/nowhere", "", notFound, "not found: /nowhere"},
	}
	for _, r := range routes {
		t.Run(fmt.Sprintf("test route %s %s", r.method, r.route), func(t *testing.T) {
			response := serve(app, r.method, r.route, r.body)
			assert.Equal(t, r.status, response.Code)
			assert.Contains(t, response.Body.String(), r.substring)
		})
	}
}

func TestCreate_Presets(t *testing.T) {
	store := game.NewStore()

	t.Run("default", func(t *testing.T) {
		app := MakeApp(log.NewTestingLogger(t), Config{Preset: "beginner"}, store)
		response := serve(app, http.MethodPost, "/games", "")
		assert.Equal(t, http.StatusCreated, response.Code)
		assert.Contains(t, response.Body.String(), `"rows":9,"cols":9,"mines":10`)
	})
	t.Run("named", func(t *testing.T) {
		app := MakeApp(log.NewTestingLogger(t), NewDefaultConfig(), store)
		response := serve(app, http.MethodPost, "/games", `{"preset":"expert"}`)
		assert.Equal(t, http.StatusCreated, response.Code)
		assert.Contains(t, response.Body.String(), `"rows":16,"cols":30,"mines":99`)
	})
	t.Run("fallback to config", func(t *testing.T) {
		app := MakeApp(log.NewTestingLogger(t), Config{}, store)
		response := serve(app, http.MethodPost, "/games", "{}")
		assert.Equal(t, http.StatusCreated, response.Code)
		assert.Contains(t, response.Body.String(), `"rows":16,"cols":16,"mines":40`)
	})
}

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{BindAddress: "0.0.0.0:1234"}.withDefaults()
	assert.Equal(t, "0.0.0.0:1234", cfg.BindAddress)
	assert.Equal(t, "intermediate", cfg.Preset)
	assert.Equal(t, 1, len(cfg.AllowedOrigins))
	assert.Equal(t, "*", cfg.AllowedOrigins[0])
}

package sweepweb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeView(t *testing.T, body []byte) GameView {
	t.Helper()

	var v GameView
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestGameFlow(t *testing.T) {
	app, _ := newTestApp(t)

	response := serve(app, http.MethodPost, "/games", smallGame)
	require.Equal(t, http.StatusCreated, response.Code)
	v := decodeView(t, response.Body.Bytes())
	id := v.ID
	require.NotEmpty(t, id)
	assert.Equal(t, "ready", v.Status)
	assert.Equal(t, 2, v.RemainingMarks)
	for _, row := range v.Cells {
		for _, cell := range row {
			assert.Equal(t, CellView{State: "closed"}, cell)
		}
	}

	step := func(action, body string) GameView {
		t.Helper()
		response := serve(app, http.MethodPost, "/games/"+id+"/"+action, body)
		require.Equal(t, http.StatusOK, response.Code, response.Body.String())
		return decodeView(t, response.Body.Bytes())
	}

	v = step("press", "")
	assert.True(t, v.Waiting)

	v = step("release", `{"row":0,"col":0}`)
	assert.False(t, v.Waiting)
	assert.Equal(t, "in-progress", v.Status)
	assert.Equal(t, 6, v.OpenedCells)
	assert.Equal(t, CellView{State: "open"}, v.Cells[0][0])
	assert.Equal(t, CellView{State: "open", Count: 2}, v.Cells[1][1])
	assert.Equal(t, CellView{State: "closed"}, v.Cells[2][0])

	v = step("mark", `{"row":2,"col":1}`)
	assert.Equal(t, CellView{State: "flag"}, v.Cells[2][1])
	assert.Equal(t, [3]int{0, 0, 1}, v.Counters[0])

	v = step("open", `{"row":2,"col":0}`)
	assert.Equal(t, "lost", v.Status)
	assert.Equal(t, CellView{State: "mine"}, v.Cells[2][0])
	assert.Equal(t, CellView{State: "wrongflag"}, v.Cells[2][1])
	assert.Equal(t, CellView{State: "mine"}, v.Cells[2][2])

	v = step("restart", "")
	assert.Equal(t, "ready", v.Status)
	assert.Equal(t, 0, v.OpenedCells)
	assert.Equal(t, 0, v.Elapsed)

	response = serve(app, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNoContent, response.Code)
	response = serve(app, http.MethodGet, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, response.Code)
	response = serve(app, http.MethodDelete, "/games/"+id, "")
	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestHandler_CORS(t *testing.T) {
	app, id := newTestApp(t)
	app.cfg.AllowedOrigins = []string{"https://sweeper.example"}
	handler := app.Handler()

	for origin, want := range map[string]string{
		"https://sweeper.example": "https://sweeper.example",
		"https://elsewhere.test":  "",
	} {
		request, err := http.NewRequest(http.MethodGet, "/games/"+id, nil)
		require.NoError(t, err)
		request.Header.Set("Origin", origin)
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)
		assert.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, want, response.Header().Get("Access-Control-Allow-Origin"), origin)
	}
}

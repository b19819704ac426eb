package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pdrpinto/gridpath/internal/cache"
	"github.com/pdrpinto/gridpath/internal/metrics"
	"github.com/pdrpinto/gridpath/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoBody = `{
  "width": 10, "height": 10,
  "start": [0, 0], "goal": [9, 9],
  "obstacles": [{"cell": [3, 2]}, {"row": 5, "from": 0, "to": 5}]
}`

type pathBody struct {
	Found    bool     `json:"found"`
	Cost     int      `json:"cost"`
	Expanded int      `json:"expanded"`
	Cached   bool     `json:"cached"`
	Path     [][2]int `json:"path"`
}

type snapshotBody struct {
	Step    int      `json:"step"`
	Walls   [][2]int `json:"walls"`
	Open    [][2]int `json:"open"`
	Closed  [][2]int `json:"closed"`
	Current [2]int   `json:"current"`
	Done    bool     `json:"done"`
	Found   bool     `json:"found"`
	Path    [][2]int `json:"path"`
}

func newTestServer(t *testing.T, opts ...server.Option) (*server.Server, *httptest.Server) {
	t.Helper()
	srv := server.New(opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestFindPath(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := metrics.New(reg)
	require.NoError(t, err)
	_, ts := newTestServer(t,
		server.WithCache(cache.NewMemory(16)),
		server.WithObserver(collector),
		server.WithGatherer(reg),
	)

	resp := post(t, ts.URL+"/v1/paths", demoBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first pathBody
	decode(t, resp, &first)
	assert.True(t, first.Found)
	assert.Equal(t, 18, first.Cost)
	assert.Len(t, first.Path, 18)
	assert.Equal(t, [2]int{1, 0}, first.Path[0])
	assert.False(t, first.Cached)

	resp = post(t, ts.URL+"/v1/paths", demoBody)
	var second pathBody
	decode(t, resp, &second)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Path, second.Path)

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	text, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(text), `gridpath_searches_total{outcome="found"} 1`, "cached answers skip the search")
}

func TestFindPath_Unreachable(t *testing.T) {
	_, ts := newTestServer(t)
	resp := post(t, ts.URL+"/v1/paths", `{"start": [0, 1], "goal": [2, 1], "map": ".#.\n.#.\n.#."}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body pathBody
	decode(t, resp, &body)
	assert.False(t, body.Found)
	assert.Empty(t, body.Path)
	assert.NotNil(t, body.Path)
}

func TestFindPath_Errors(t *testing.T) {
	_, ts := newTestServer(t, server.WithMaxExpansions(3))

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "malformed", body: `{"width":`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"width": 3, "height": 3, "speed": 2}`, status: http.StatusBadRequest},
		{name: "obstacle outside grid", body: `{"width": 3, "height": 3, "obstacles": [{"cell": [5, 5]}]}`, status: http.StatusBadRequest},
		{name: "goal outside grid", body: `{"width": 3, "height": 3, "goal": [3, 0]}`, status: http.StatusBadRequest},
		{name: "expansion limit", body: demoBody, status: http.StatusUnprocessableEntity},
		{name: "grid above cell limit", body: `{"width": 100000, "height": 100000}`, status: http.StatusBadRequest},
		{name: "cell count overflows", body: `{"width": 4294967296, "height": 4294967296}`, status: http.StatusBadRequest},
		{name: "random walk too long", body: `{"width": 3, "height": 3, "random": {"clusters": 1000000000, "steps": 1000000000}}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/paths", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var body map[string]string
			decode(t, resp, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestSessions(t *testing.T) {
	srv, ts := newTestServer(t)

	resp := post(t, ts.URL+"/v1/sessions", demoBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
		W  int    `json:"w"`
		H  int    `json:"h"`
	}
	decode(t, resp, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 10, created.W)
	assert.Equal(t, 1, srv.SessionCount())

	stepURL := ts.URL + "/v1/sessions/" + created.ID + "/step"
	resp = post(t, stepURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first snapshotBody
	decode(t, resp, &first)
	assert.Equal(t, 1, first.Step)
	assert.Equal(t, [2]int{0, 0}, first.Current)
	assert.Equal(t, [][2]int{{1, 0}, {0, 1}}, first.Open, "row-major order")
	assert.Equal(t, [][2]int{{0, 0}}, first.Closed)
	assert.Len(t, first.Walls, 7)

	var last snapshotBody
	for i := 0; i < 200 && !last.Done; i++ {
		resp = post(t, stepURL, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decode(t, resp, &last)
	}
	assert.True(t, last.Done)
	assert.True(t, last.Found)
	assert.Equal(t, 69, last.Step)
	assert.Len(t, last.Path, 18)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/sessions/"+created.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
	assert.Equal(t, 0, srv.SessionCount())

	resp = post(t, stepURL, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFindPath_GridTooLargeWithoutCellLimit(t *testing.T) {
	_, ts := newTestServer(t, server.WithMaxCells(0))
	resp := post(t, ts.URL+"/v1/paths", `{"width": 4294967296, "height": 4294967296, "goal": [5, 5]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessions_IdleExpiry(t *testing.T) {
	srv, ts := newTestServer(t, server.WithMaxSessions(1), server.WithSessionTTL(20*time.Millisecond))

	resp := post(t, ts.URL+"/v1/sessions", demoBody)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var abandoned struct {
		ID string `json:"id"`
	}
	decode(t, resp, &abandoned)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusCreated, post(t, ts.URL+"/v1/sessions", demoBody).StatusCode)
	assert.Equal(t, 1, srv.SessionCount())
	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/v1/sessions/"+abandoned.ID+"/step", "").StatusCode)
}

func TestSessions_Limit(t *testing.T) {
	_, ts := newTestServer(t, server.WithMaxSessions(1))
	assert.Equal(t, http.StatusCreated, post(t, ts.URL+"/v1/sessions", demoBody).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, post(t, ts.URL+"/v1/sessions", demoBody).StatusCode)
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "metrics are only served with a gatherer")
}

func TestSessions_RandomWalls(t *testing.T) {
	_, ts := newTestServer(t)
	body := `{"width": 20, "height": 12, "start": [0, 0], "goal": [19, 11],
	  "random": {"clusters": 4, "steps": 60, "density": 0.3, "seed": 7}}`
	resp := post(t, ts.URL+"/v1/sessions", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, resp, &created)

	resp = post(t, ts.URL+"/v1/sessions/"+created.ID+"/step", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first snapshotBody
	decode(t, resp, &first)
	assert.NotEmpty(t, first.Walls)
	assert.NotContains(t, first.Walls, [2]int{0, 0})
	assert.NotContains(t, first.Walls, [2]int{19, 11})
}

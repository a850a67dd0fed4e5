package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loykin/proctop/internal/logger"
	"github.com/loykin/proctop/internal/metrics"
	"github.com/loykin/proctop/internal/process"
)

var rows = []process.Record{
	{PID: 1, Owner: "root", Name: "init", State: 'S'},
	{PID: 42, Owner: "alice", Name: "bash", State: 'R'},
	{PID: 77, Owner: "1001", Name: "defunct", State: 'Z'},
}

func setupRouter(t *testing.T, base string, mh http.Handler) (http.Handler, *process.Table) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	table := process.NewTable(process.DefaultCapacity)
	table.Replace(rows)
	r := NewRouter(table, func() string { return "shutting_down" }, mh, base)
	return r.Handler(), table
}

func doReq(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type processesBody struct {
	Count     int              `json:"count"`
	Processes []process.Record `json:"processes"`
}

func TestProcesses(t *testing.T) {
	h, _ := setupRouter(t, "/api", nil)
	rec := doReq(t, h, "/api/processes")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body processesBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Count)
	assert.Equal(t, rows, body.Processes)
	assert.Contains(t, rec.Body.String(), `"state":"Z"`)
}

func TestProcessesLimit(t *testing.T) {
	h, _ := setupRouter(t, "", nil)
	var body processesBody
	rec := doReq(t, h, "/processes?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, rows[:2], body.Processes)

	for _, bad := range []string{"x", "-1"} {
		rec = doReq(t, h, "/processes?limit="+bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, bad)
	}
}

func TestProcessesEmptyTable(t *testing.T) {
	h, table := setupRouter(t, "/api", nil)
	table.Replace(nil)
	rec := doReq(t, h, "/api/processes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"processes":[]}`, rec.Body.String())
}

func TestHealthz(t *testing.T) {
	h, _ := setupRouter(t, "/api/", nil)
	rec := doReq(t, h, "/api/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"shutting_down"}`, rec.Body.String())
}

func TestNoSignalEndpoint(t *testing.T) {
	h, _ := setupRouter(t, "/api", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/processes", strings.NewReader(`{"pid":1,"signal":9}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupRouter(t, "/api", nil)
	assert.Equal(t, http.StatusNotFound, doReq(t, h, "/metrics").Code)

	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))
	metrics.ObserveScan(0.01, 3, 0)
	h, _ = setupRouter(t, "/api", metrics.HandlerFor(reg))
	rec := doReq(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "proctop_scan_total")
}

func TestNewServerServes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	table := process.NewTable(process.DefaultCapacity)
	table.Replace(rows)
	srv, err := NewServer("127.0.0.1:0", NewRouter(table, nil, nil, "/api"), logger.Discard())
	require.NoError(t, err)
	defer func() { _ = srv.Shutdown(context.Background()) }()

	resp, err := http.Get("http://" + srv.Addr + "/api/healthz")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"running"}`, string(b))
}

func TestNewServerListenError(t *testing.T) {
	_, err := NewServer("256.0.0.1:bad", NewRouter(process.NewTable(1), nil, nil, ""), logger.Discard())
	require.Error(t, err)
}

func TestSanitizeBase(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"api", "/api"},
		{"/api", "/api"},
		{"/api/", "/api"},
		{" api ", "/api"},
	}
	for _, c := range cases {
		if got := sanitizeBase(c.in); got != c.want {
			t.Fatalf("sanitizeBase(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loykin/proctop/internal/process"
)

// Router provides read-only HTTP handlers over the process table.
// Endpoints:
//
//	GET {basePath}/processes   query: limit=N (optional)
//	GET {basePath}/healthz
//	GET /metrics               when a metrics handler is set
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	table    *process.Table
	state    func() string
	metrics  http.Handler
	basePath string
}

// NewRouter constructs a Router. state reports the monitor state for
// healthz; metrics may be nil to disable /metrics.
func NewRouter(table *process.Table, state func() string, metrics http.Handler, basePath string) *Router {
	if state == nil {
		state = func() string { return "running" }
	}
	return &Router{table: table, state: state, metrics: metrics, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/processes", r.handleProcesses)
	group.GET("/healthz", r.handleHealthz)
	if r.metrics != nil {
		g.GET("/metrics", gin.WrapH(r.metrics))
	}
	return g
}

// NewServer listens on addr and serves r in the background. Listen errors
// are returned; errors after that are logged.
func NewServer(addr string, r *Router, logger *slog.Logger) (*http.Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	server := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server stopped", slog.String("addr", server.Addr), slog.Any("error", err))
		}
	}()
	logger.Info("status server listening", slog.String("addr", server.Addr))
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

type processesResp struct {
	Count     int              `json:"count"`
	Processes []process.Record `json:"processes"`
}

type healthResp struct {
	State string `json:"state"`
}

func (r *Router) handleProcesses(c *gin.Context) {
	rows := r.table.Snapshot()
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: "limit must be a non-negative integer"})
			return
		}
		if n < len(rows) {
			rows = rows[:n]
		}
	}
	if rows == nil {
		rows = []process.Record{}
	}
	writeJSON(c, http.StatusOK, processesResp{Count: len(rows), Processes: rows})
}

func (r *Router) handleHealthz(c *gin.Context) {
	writeJSON(c, http.StatusOK, healthResp{State: r.state()})
}

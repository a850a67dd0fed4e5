package proctop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	cfg "github.com/loykin/proctop/internal/config"
	"github.com/loykin/proctop/internal/metrics"
	"github.com/loykin/proctop/internal/monitor"
	"github.com/loykin/proctop/internal/process"
	"github.com/loykin/proctop/internal/render"
	iapi "github.com/loykin/proctop/internal/server"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Record = process.Record

type State = process.State

type Result = process.Result

type Table = process.Table

type Config = cfg.Config

func LoadConfig(path string) (*Config, error) { return cfg.Load(nil, path) }

func DefaultConfig() Config { return cfg.Default() }

func newScanner(c *Config, logger *slog.Logger) (*process.Scanner, error) {
	src, err := process.NewSource(c.Monitor.Source, c.Monitor.ProcRoot)
	if err != nil {
		return nil, fmt.Errorf("process source: %w", err)
	}
	return process.NewScanner(src, process.NewSystemUsers(), c.Monitor.Capacity, logger), nil
}

// Snapshot scans the process table once.
func Snapshot(ctx context.Context, c *Config, logger *slog.Logger) ([]Record, error) {
	s, err := newScanner(c, logger)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx)
}

// Signal sends sig to pid through the same validation as the monitor.
func Signal(pid, sig int, logger *slog.Logger) Result {
	return process.NewDispatcher(nil, logger).Dispatch(pid, sig)
}

// Monitor is a thin facade over internal/monitor.Monitor.
// It provides a stable public API for embedding.
type Monitor struct {
	inner *monitor.Monitor
	cfg   *Config
}

// NewMonitor wires a monitor reading commands from in and drawing to out.
// The screen is cleared between frames only when out is a terminal.
func NewMonitor(c *Config, in io.Reader, out io.Writer, logger *slog.Logger) (*Monitor, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	scanner, err := newScanner(c, logger)
	if err != nil {
		return nil, err
	}
	tty := render.IsTerminal(out)
	inner := monitor.New(monitor.Config{
		Interval:  c.Monitor.Interval,
		QuitOnEOF: c.Monitor.QuitOnEOF,
	}, monitor.Deps{
		Scanner:    scanner,
		Table:      process.NewTable(c.Monitor.Capacity),
		Dispatcher: process.NewDispatcher(nil, logger),
		Screen:     render.New(out, render.Options{Clear: tty, Color: tty && c.Monitor.Color}),
		Input:      in,
		Logger:     logger,
	})
	return &Monitor{inner: inner, cfg: c}, nil
}

func (m *Monitor) Run(ctx context.Context) error { return m.inner.Run(ctx) }
func (m *Monitor) RequestShutdown()              { m.inner.RequestShutdown() }
func (m *Monitor) State() string                 { return m.inner.State().String() }
func (m *Monitor) Table() *Table                 { return m.inner.Table() }

// StatusHandler returns the read-only status API over this monitor's table.
// /metrics is included when metrics are enabled in the config.
func (m *Monitor) StatusHandler(basePath string) http.Handler {
	return m.router(basePath).Handler()
}

// NewHTTPServer starts the status API on addr.
func (m *Monitor) NewHTTPServer(addr, basePath string, logger *slog.Logger) (*http.Server, error) {
	return iapi.NewServer(addr, m.router(basePath), logger)
}

func (m *Monitor) router(basePath string) *iapi.Router {
	var mh http.Handler
	if m.cfg.Metrics.Enabled {
		mh = metrics.Handler()
	}
	return iapi.NewRouter(m.inner.Table(), m.State, mh, basePath)
}

// Metrics helpers (public facade)

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	scans = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "proctop",
			Subsystem: "scan",
			Name:      "total",
			Help:      "Number of completed process table scans.",
		},
	)
	scanErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "proctop",
			Subsystem: "scan",
			Name:      "errors_total",
			Help:      "Number of scans that could not enumerate the process table.",
		},
	)
	scanSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "proctop",
			Subsystem: "scan",
			Name:      "skipped_total",
			Help:      "Processes skipped because they vanished or could not be read.",
		},
	)
	scanDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "proctop",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Time spent enumerating and reading the process table.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	tableRows = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "proctop",
			Subsystem: "table",
			Name:      "rows",
			Help:      "Rows published by the most recent scan.",
		},
	)
	commands = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proctop",
			Subsystem: "input",
			Name:      "commands_total",
			Help:      "Operator input lines by parsed kind.",
		}, []string{"kind"},
	)
	signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "proctop",
			Subsystem: "input",
			Name:      "signals_total",
			Help:      "Signal dispatches by result.",
		}, []string{"result"},
	)
	monitorState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "proctop",
			Subsystem: "monitor",
			Name:      "state",
			Help:      "Current monitor state (1 = active state, 0 = inactive).",
		}, []string{"state"},
	)
)

// Register registers all metrics with the provided registerer.
// It is safe to call multiple times; subsequent calls after success are no-ops.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{scans, scanErrors, scanSkipped, scanDuration, tableRows, commands, signals, monitorState}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			// If already registered, ignore (allows double Register with default registry)
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler returns an http.Handler that serves Prometheus metrics for the DefaultGatherer.
func Handler() http.Handler { return promhttp.Handler() }

// HandlerFor serves metrics gathered from g.
func HandlerFor(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func ObserveScan(seconds float64, rows, skipped int) {
	if regOK.Load() {
		scans.Inc()
		scanDuration.Observe(seconds)
		scanSkipped.Add(float64(skipped))
		tableRows.Set(float64(rows))
	}
}

func IncScanError() {
	if regOK.Load() {
		scanErrors.Inc()
	}
}

func IncCommand(kind string) {
	if regOK.Load() {
		commands.WithLabelValues(kind).Inc()
	}
}

func IncSignal(ok bool) {
	if regOK.Load() {
		result := "failed"
		if ok {
			result = "ok"
		}
		signals.WithLabelValues(result).Inc()
	}
}

// SetState marks state as the active monitor state among all.
func SetState(state string, all []string) {
	if regOK.Load() {
		for _, s := range all {
			var value float64
			if s == state {
				value = 1
			}
			monitorState.WithLabelValues(s).Set(value)
		}
	}
}

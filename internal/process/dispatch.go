package process

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/loykin/proctop/internal/metrics"
)

var (
	ErrInvalidPID    = errors.New("invalid pid")
	ErrInvalidSignal = errors.New("invalid signal")
)

// KillFunc delivers signal sig to pid.
type KillFunc func(pid int, sig int) error

// Result is the outcome of one signal dispatch.
type Result struct {
	PID    int
	Signal int
	Err    error
}

func (r Result) OK() bool { return r.Err == nil }

// Message is the one-line acknowledgement shown to the operator.
func (r Result) Message() string {
	if r.Err != nil {
		return fmt.Sprintf("Failed to send signal to PID %d: %s", r.PID, r.Err)
	}
	if name := signalName(r.Signal); name != "" {
		return fmt.Sprintf("Signal %d (%s) sent to PID %d.", r.Signal, name, r.PID)
	}
	return fmt.Sprintf("Signal %d sent to PID %d.", r.Signal, r.PID)
}

// Dispatcher sends operator-requested signals. Failures are reported in the
// Result and never panic or stop the caller.
type Dispatcher struct {
	kill   KillFunc
	logger *slog.Logger
}

// NewDispatcher returns a Dispatcher using kill, or the OS when kill is nil.
func NewDispatcher(kill KillFunc, logger *slog.Logger) *Dispatcher {
	if kill == nil {
		kill = killProcess
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{kill: kill, logger: logger}
}

// Dispatch validates pid and sig and delivers the signal. pid must be in
// 1..MaxInt32: 0 and negative values address process groups in kill(2), and
// larger values wrap to those when the kernel reads them as 32-bit ints.
// sig must be in 0..maxSignal.
func (d *Dispatcher) Dispatch(pid, sig int) Result {
	res := Result{PID: pid, Signal: sig}
	switch {
	case pid <= 0 || pid > math.MaxInt32:
		res.Err = ErrInvalidPID
	case sig < 0 || sig > maxSignal:
		res.Err = ErrInvalidSignal
	default:
		res.Err = d.kill(pid, sig)
	}
	metrics.IncSignal(res.OK())
	if res.Err != nil {
		d.logger.Warn("signal dispatch failed", slog.Int("pid", pid), slog.Int("signal", sig), slog.Any("error", res.Err))
	} else {
		d.logger.Info("signal sent", slog.Int("pid", pid), slog.Int("signal", sig))
	}
	return res
}

// Package monitor runs the refresh loop and the operator input loop and
// coordinates their shutdown.
package monitor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/loykin/proctop/internal/command"
	"github.com/loykin/proctop/internal/metrics"
	"github.com/loykin/proctop/internal/process"
)

// DefaultInterval is the refresh cadence.
const DefaultInterval = time.Second

// ExitMessage is printed once both loops have stopped.
const ExitMessage = "Exiting proctop."

// maxLine bounds a single operator input line.
const maxLine = 64 * 1024

var ErrAlreadyRunning = errors.New("monitor already running")

type Scanner interface {
	Scan(ctx context.Context) ([]process.Record, error)
}

type Dispatcher interface {
	Dispatch(pid, sig int) process.Result
}

// Screen is the shared output. Implementations must serialize Render and
// Println so that a frame and a message never interleave.
type Screen interface {
	Render(records []process.Record) error
	Println(msg string) error
}

type Config struct {
	Interval  time.Duration
	QuitOnEOF bool // treat end of input as quit
}

type Deps struct {
	Scanner    Scanner
	Table      *process.Table
	Dispatcher Dispatcher
	Screen     Screen
	Input      io.Reader
	Logger     *slog.Logger
}

type Monitor struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	shutdown atomic.Bool
	state    atomic.Int32
	started  atomic.Bool
	done     chan struct{}
	once     sync.Once
}

func New(cfg Config, deps Deps) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if deps.Table == nil {
		deps.Table = process.NewTable(process.DefaultCapacity)
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Monitor{cfg: cfg, deps: deps, log: log, done: make(chan struct{})}
}

// Table returns the table the refresh loop publishes to.
func (m *Monitor) Table() *process.Table { return m.deps.Table }

func (m *Monitor) State() State { return State(m.state.Load()) }

// ShuttingDown reports whether shutdown has been requested.
func (m *Monitor) ShuttingDown() bool { return m.shutdown.Load() }

// RequestShutdown sets the shutdown flag and wakes both loops. It is safe to
// call any number of times from any goroutine.
func (m *Monitor) RequestShutdown() {
	m.once.Do(func() {
		m.shutdown.Store(true)
		m.setState(ShuttingDown)
		close(m.done)
	})
}

// Run starts the refresh loop and the input loop and blocks until both have
// returned. Cancelling ctx is treated like a quit command. A Monitor can run
// only once.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	metrics.SetState(m.State().String(), stateNames)
	m.log.Info("monitor started", slog.Duration("interval", m.cfg.Interval), slog.Int("capacity", m.deps.Table.Cap()))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.refreshLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		m.inputLoop(ctx)
	}()
	wg.Wait()

	m.setState(Stopped)
	m.log.Info("monitor stopped")
	if err := m.deps.Screen.Println(ExitMessage); err != nil {
		m.log.Warn("write exit message", slog.Any("error", err))
	}
	return nil
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
	metrics.SetState(s.String(), stateNames)
}

func (m *Monitor) refreshLoop(ctx context.Context) {
	timer := time.NewTimer(m.cfg.Interval)
	defer timer.Stop()
	for !m.shutdown.Load() {
		m.refresh(ctx)
		timer.Reset(m.cfg.Interval)
		select {
		case <-timer.C:
		case <-m.done:
			return
		case <-ctx.Done():
			m.RequestShutdown()
			return
		}
	}
}

// refresh runs one cycle. The scan is not interrupted by cancellation; the
// loop observes shutdown only between cycles.
func (m *Monitor) refresh(ctx context.Context) {
	records, err := m.deps.Scanner.Scan(context.WithoutCancel(ctx))
	if err != nil {
		m.log.Warn("process scan failed, keeping previous table", slog.Any("error", err))
	} else {
		m.deps.Table.Replace(records)
	}
	if err := m.deps.Screen.Render(m.deps.Table.Snapshot()); err != nil {
		m.log.Warn("render failed", slog.Any("error", err))
	}
}

func (m *Monitor) inputLoop(ctx context.Context) {
	lines := m.pump()
	for {
		select {
		case <-m.done:
			return
		case <-ctx.Done():
			m.RequestShutdown()
			return
		case line, ok := <-lines:
			if !ok {
				// a nil channel blocks forever, so a closed input does not spin
				lines = nil
				if m.cfg.QuitOnEOF {
					m.log.Info("end of input, quitting")
					m.RequestShutdown()
					return
				}
				m.log.Debug("end of input, waiting for shutdown")
				continue
			}
			if m.handle(line) {
				return
			}
		}
	}
}

// pump reads input lines on its own goroutine. A read blocked in the OS
// cannot be interrupted; the goroutine exits at the next line or EOF once
// shutdown is requested. Lines longer than maxLine are cut to maxLine and
// still delivered, so reading continues after them.
func (m *Monitor) pump() <-chan string {
	lines := make(chan string)
	if m.deps.Input == nil {
		close(lines)
		return lines
	}
	go func() {
		defer close(lines)
		r := bufio.NewReader(m.deps.Input)
		for {
			line, err := readLine(r)
			if err == nil || line != "" {
				select {
				case lines <- line:
				case <-m.done:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					m.log.Warn("read input", slog.Any("error", err))
				}
				return
			}
		}
	}()
	return lines
}

// readLine returns the next line without its terminator, keeping at most
// maxLine bytes and discarding the rest of the line.
func readLine(r *bufio.Reader) (string, error) {
	var buf []byte
	for {
		chunk, isPrefix, err := r.ReadLine()
		if room := maxLine - len(buf); room > 0 {
			buf = append(buf, chunk[:min(len(chunk), room)]...)
		}
		if err != nil || !isPrefix {
			return string(buf), err
		}
	}
}

// handle executes one input line and reports whether it was a quit.
func (m *Monitor) handle(line string) bool {
	cmd := command.Parse(line)
	metrics.IncCommand(string(cmd.Kind))
	switch cmd.Kind {
	case command.KindQuit:
		m.log.Info("quit requested")
		m.RequestShutdown()
		return true
	case command.KindSignal:
		res := m.deps.Dispatcher.Dispatch(cmd.PID, cmd.Signal)
		m.println(res.Message())
	default:
		m.log.Debug("invalid input", slog.String("raw", cmd.Raw))
		m.println(command.InvalidMessage)
	}
	return false
}

func (m *Monitor) println(msg string) {
	if err := m.deps.Screen.Println(msg); err != nil {
		m.log.Warn("write message", slog.Any("error", err))
	}
}

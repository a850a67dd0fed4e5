package process

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/loykin/proctop/internal/metrics"
)

// Scanner turns the OS process table into at most capacity records.
type Scanner struct {
	src      Source
	users    UserResolver
	capacity int
	logger   *slog.Logger
}

func NewScanner(src Source, users UserResolver, capacity int, logger *slog.Logger) *Scanner {
	if users == nil {
		users = NewSystemUsers()
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{src: src, users: users, capacity: capacity, logger: logger}
}

// Scan enumerates processes in OS order and keeps the first capacity that
// could be read. Processes that disappear or cannot be inspected between
// enumeration and read are skipped; only a failure to enumerate at all is
// returned as an error.
func (s *Scanner) Scan(ctx context.Context) ([]Record, error) {
	start := time.Now()
	pids, err := s.src.PIDs(ctx)
	if err != nil {
		metrics.IncScanError()
		return nil, fmt.Errorf("enumerate processes: %w", err)
	}

	n := len(pids)
	if n > s.capacity {
		n = s.capacity
	}
	out := make([]Record, 0, n)
	seen := make(map[int]struct{}, n)
	skipped := 0
	for _, pid := range pids {
		if len(out) >= s.capacity {
			break
		}
		if pid <= 0 {
			continue
		}
		if _, dup := seen[pid]; dup {
			continue
		}
		e, err := s.src.Read(ctx, pid)
		if err != nil {
			skipped++
			s.logger.Debug("skip unreadable process", slog.Int("pid", pid), slog.Any("error", err))
			continue
		}
		owner := e.Owner
		if owner == "" {
			owner = s.users.Username(e.UID)
		}
		state := e.State
		if state == 0 {
			state = StateUnknown
		}
		seen[pid] = struct{}{}
		out = append(out, Record{PID: pid, Owner: owner, Name: truncateName(e.Name), State: state})
	}
	metrics.ObserveScan(time.Since(start).Seconds(), len(out), skipped)
	return out, nil
}

func (s *Scanner) Capacity() int { return s.capacity }

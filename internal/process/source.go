package process

import (
	"context"
	"fmt"
)

// Source kinds accepted by NewSource.
const (
	SourceAuto   = "auto"
	SourceProcFS = "procfs"
	SourcePSUtil = "gopsutil"
)

// Source is the OS process table. PIDs enumerates candidate processes in
// OS order; Read fetches one of them. Read fails for processes that vanished
// or cannot be inspected, which callers treat as a skip.
type Source interface {
	PIDs(ctx context.Context) ([]int, error)
	Read(ctx context.Context, pid int) (Entry, error)
}

// NewSource builds the Source named by kind. procRoot is only used by the
// procfs source; empty means the default mount point.
func NewSource(kind, procRoot string) (Source, error) {
	switch kind {
	case "", SourceAuto:
		return defaultSource(procRoot)
	case SourceProcFS:
		return NewProcFS(procRoot)
	case SourcePSUtil:
		return NewPSUtil(), nil
	default:
		return nil, fmt.Errorf("unknown process source %q", kind)
	}
}

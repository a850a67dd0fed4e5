//go:build linux

package process

import (
	"context"
	"fmt"

	"github.com/prometheus/procfs"
)

// ProcFS reads the process table from a procfs mount.
type ProcFS struct {
	fs procfs.FS
}

// NewProcFS opens the procfs mounted at root (procfs.DefaultMountPoint when empty).
func NewProcFS(root string) (Source, error) {
	if root == "" {
		root = procfs.DefaultMountPoint
	}
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open procfs at %s: %w", root, err)
	}
	return &ProcFS{fs: fs}, nil
}

func (p *ProcFS) PIDs(context.Context) ([]int, error) {
	procs, err := p.fs.AllProcs()
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(procs))
	for _, pr := range procs {
		pids = append(pids, pr.PID)
	}
	return pids, nil
}

// Read takes name and state from /proc/<pid>/stat and the effective uid from
// /proc/<pid>/status.
func (p *ProcFS) Read(_ context.Context, pid int) (Entry, error) {
	pr, err := p.fs.Proc(pid)
	if err != nil {
		return Entry{}, err
	}
	stat, err := pr.Stat()
	if err != nil {
		return Entry{}, err
	}
	status, err := pr.NewStatus()
	if err != nil {
		return Entry{}, err
	}
	state := StateUnknown
	if stat.State != "" {
		state = State(stat.State[0])
	}
	return Entry{
		PID:   pid,
		Name:  stat.Comm,
		State: state,
		UID:   uint32(status.UIDs[1]),
	}, nil
}

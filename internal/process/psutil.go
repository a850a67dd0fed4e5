package process

import (
	"context"
	"fmt"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// PSUtil reads the process table through gopsutil. It works on every
// platform gopsutil supports and is the default off linux.
type PSUtil struct{}

func NewPSUtil() *PSUtil { return &PSUtil{} }

func (*PSUtil) PIDs(ctx context.Context) ([]int, error) {
	raw, err := gopsproc.PidsWithContext(ctx)
	if err != nil {
		return nil, err
	}
	pids := make([]int, 0, len(raw))
	for _, pid := range raw {
		pids = append(pids, int(pid))
	}
	return pids, nil
}

func (*PSUtil) Read(ctx context.Context, pid int) (Entry, error) {
	p, err := gopsproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return Entry{}, err
	}
	name, err := p.NameWithContext(ctx)
	if err != nil {
		return Entry{}, err
	}
	status, err := p.StatusWithContext(ctx)
	if err != nil {
		return Entry{}, err
	}
	e := Entry{PID: pid, Name: name, State: stateFromStatus(status)}

	uids, err := p.UidsWithContext(ctx)
	switch {
	case err == nil && len(uids) > 1:
		e.UID = uids[1]
	case err == nil && len(uids) == 1:
		e.UID = uids[0]
	default:
		// No numeric owner on this platform (windows); fall back to the name.
		owner, uerr := p.UsernameWithContext(ctx)
		if uerr != nil {
			return Entry{}, fmt.Errorf("owner of pid %d: %w", pid, uerr)
		}
		e.Owner = owner
	}
	return e, nil
}

// stateFromStatus maps gopsutil's status words back to the ps letter.
func stateFromStatus(status []string) State {
	if len(status) == 0 {
		return StateUnknown
	}
	switch status[0] {
	case gopsproc.Running:
		return 'R'
	case gopsproc.Sleep:
		return 'S'
	case gopsproc.Blocked:
		return 'D'
	case gopsproc.Zombie:
		return 'Z'
	case gopsproc.Stop:
		return 'T'
	case gopsproc.Idle:
		return 'I'
	case gopsproc.Wait:
		return 'W'
	case gopsproc.Lock:
		return 'L'
	default:
		return StateUnknown
	}
}

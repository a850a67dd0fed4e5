package process

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// fakeSource serves entries from memory. Pids listed in order but missing
// from entries fail to read, like a process that exited mid-scan.
type fakeSource struct {
	order   []int
	entries map[int]Entry
	listErr error
	reads   int
}

func (f *fakeSource) PIDs(context.Context) ([]int, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]int(nil), f.order...), nil
}

func (f *fakeSource) Read(_ context.Context, pid int) (Entry, error) {
	f.reads++
	e, ok := f.entries[pid]
	if !ok {
		return Entry{}, fmt.Errorf("read pid %d: %w", pid, errors.New("no such file or directory"))
	}
	return e, nil
}

func newFakeSource(n int) *fakeSource {
	f := &fakeSource{entries: make(map[int]Entry)}
	for i := 1; i <= n; i++ {
		pid := 100 + i
		f.order = append(f.order, pid)
		f.entries[pid] = Entry{PID: pid, Name: "proc" + strconv.Itoa(i), State: 'S', UID: uint32(1000 + i%2)}
	}
	return f
}

// mapUsers resolves from a fixed map with the numeric fallback.
type mapUsers map[uint32]string

func (m mapUsers) Username(uid uint32) string {
	if n, ok := m[uid]; ok {
		return n
	}
	return strconv.FormatUint(uint64(uid), 10)
}

//go:build !linux

package process

import "errors"

var errProcFSUnsupported = errors.New("procfs source is only available on linux")

func defaultSource(string) (Source, error) { return NewPSUtil(), nil }

// NewProcFS is unavailable off linux; use the gopsutil source instead.
func NewProcFS(string) (Source, error) { return nil, errProcFSUnsupported }

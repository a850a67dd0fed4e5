//go:build linux

package process

func defaultSource(procRoot string) (Source, error) { return NewProcFS(procRoot) }

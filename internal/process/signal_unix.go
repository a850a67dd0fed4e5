//go:build !windows

package process

import "golang.org/x/sys/unix"

// maxSignal is the highest signal number kill(2) accepts (SIGRTMAX on linux).
const maxSignal = 64

// killProcess delivers sig to pid.
func killProcess(pid int, sig int) error {
	return unix.Kill(pid, unix.Signal(sig))
}

// signalName returns the SIG* name for sig, or "" when the platform has none.
func signalName(sig int) string {
	return unix.SignalName(unix.Signal(sig))
}

//go:build windows

package process

import (
	"errors"
	"syscall"
)

var (
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procOpenProcess      = kernel32.NewProc("OpenProcess")
	procTerminateProcess = kernel32.NewProc("TerminateProcess")
	procCloseHandle      = kernel32.NewProc("CloseHandle")
)

const (
	processTerminate        = 0x0001
	processQueryInformation = 0x0400
)

// maxSignal bounds the posix numbering emulated by killProcess.
const maxSignal = 64

var errSignalUnsupported = errors.New("signal not supported on windows")

// killProcess emulates kill(2): 0 probes for existence, SIGKILL and SIGTERM
// terminate, anything else is unsupported.
func killProcess(pid int, sig int) error {
	switch syscall.Signal(sig) {
	case 0:
		h, err := openProcess(processQueryInformation, uint32(pid))
		if err != nil {
			return err
		}
		return closeHandle(h)
	case syscall.SIGKILL, syscall.SIGTERM:
		h, err := openProcess(processTerminate, uint32(pid))
		if err != nil {
			return err
		}
		defer func() { _ = closeHandle(h) }()
		if ret, _, err := procTerminateProcess.Call(uintptr(h), uintptr(1)); ret == 0 {
			return err
		}
		return nil
	default:
		return errSignalUnsupported
	}
}

func signalName(sig int) string {
	switch syscall.Signal(sig) {
	case syscall.SIGKILL:
		return "SIGKILL"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return ""
}

func openProcess(access uint32, pid uint32) (syscall.Handle, error) {
	ret, _, err := procOpenProcess.Call(uintptr(access), 0, uintptr(pid))
	if ret == 0 {
		return 0, err
	}
	return syscall.Handle(ret), nil
}

func closeHandle(h syscall.Handle) error {
	if ret, _, err := procCloseHandle.Call(uintptr(h)); ret == 0 {
		return err
	}
	return nil
}

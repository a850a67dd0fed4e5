// Package command parses operator input lines.
package command

import (
	"strconv"
	"strings"
)

// Kind tags a Command.
type Kind string

const (
	KindQuit    Kind = "quit"
	KindSignal  Kind = "signal"
	KindInvalid Kind = "invalid"
)

// QuitMarker is the first character of a quit line.
const QuitMarker = 'q'

// Command is one parsed input line. PID and Signal are set for KindSignal,
// Raw for KindInvalid.
type Command struct {
	Kind   Kind
	PID    int
	Signal int
	Raw    string
}

func Quit() Command { return Command{Kind: KindQuit} }
func SendSignal(pid, sig int) Command { return Command{Kind: KindSignal, PID: pid, Signal: sig} }
func Invalid(raw string) Command { return Command{Kind: KindInvalid, Raw: raw} }

// Parse classifies one line of input. A line starting with the quit marker
// quits; exactly two whitespace-separated integers request a signal; anything
// else is invalid. Ranges are not checked here.
func Parse(line string) Command {
	line = strings.TrimRight(line, "\r\n")
	if line != "" && line[0] == QuitMarker {
		return Quit()
	}
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Invalid(line)
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil {
		return Invalid(line)
	}
	sig, err := strconv.Atoi(fields[1])
	if err != nil {
		return Invalid(line)
	}
	return SendSignal(pid, sig)
}

// InvalidMessage is the diagnostic printed for a rejected line.
const InvalidMessage = "Invalid input. Please enter '<PID> <SIGNAL>' or 'q' to quit."

package process

import (
	"fmt"
	"unicode/utf8"
)

// MaxNameLen bounds the length of Record.Name in characters.
const MaxNameLen = 255

// State is the single-letter process state code reported by the OS
// (R, S, D, Z, T, I, ...). The set is OS-defined and passed through verbatim.
type State byte

// StateUnknown is used when a source reports no state letter.
const StateUnknown State = '?'

func (s State) String() string {
	if s == 0 {
		return string(StateUnknown)
	}
	return string(rune(s))
}

// MarshalText encodes the state as a one-character string.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	if len(b) != 1 {
		return fmt.Errorf("invalid process state %q", string(b))
	}
	*s = State(b[0])
	return nil
}

// Record is one row of the process table.
type Record struct {
	PID   int    `json:"pid"`
	Owner string `json:"owner"`
	Name  string `json:"name"`
	State State  `json:"state"`
}

// Entry is what a Source reports for a single pid before owner resolution.
// Owner is only set by sources that resolve names themselves; otherwise the
// scanner resolves UID.
type Entry struct {
	PID   int
	Name  string
	State State
	UID   uint32
	Owner string
}

// truncateName cuts name to at most MaxNameLen characters, keeping the prefix.
func truncateName(name string) string {
	if utf8.RuneCountInString(name) <= MaxNameLen {
		return name
	}
	n := 0
	for i := range name {
		if n == MaxNameLen {
			return name[:i]
		}
		n++
	}
	return name
}

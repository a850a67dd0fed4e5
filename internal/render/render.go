// Package render draws the process table as fixed-width text.
package render

import (
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/loykin/proctop/internal/process"
)

// Column widths in terminal cells.
const (
	PIDWidth   = 7
	OwnerWidth = 16
	NameWidth  = 18
)

// ClearScreen moves the cursor home and erases the display.
const ClearScreen = "\033[H\033[2J"

var (
	header    = cell("PID", PIDWidth) + "| " + cell("User", OwnerWidth) + "| " + cell("PROCNAME", NameWidth) + "| Estado/State"
	separator = strings.Repeat("-", PIDWidth) + "|" + strings.Repeat("-", OwnerWidth+1) + "|" +
		strings.Repeat("-", NameWidth+1) + "|" + strings.Repeat("-", len(" Estado/State"))
)

// Options controls terminal behavior.
type Options struct {
	Clear bool // emit ClearScreen before each frame
	Color bool // bold header
}

// Renderer owns the output stream. Frames and message lines are each
// written with a single Write under one lock, so they never interleave.
type Renderer struct {
	mu          sync.Mutex
	w           io.Writer
	opts        Options
	headerStyle lipgloss.Style
}

func New(w io.Writer, opts Options) *Renderer {
	r := &Renderer{w: w, opts: opts}
	if opts.Color {
		r.headerStyle = lipgloss.NewRenderer(w).NewStyle().Bold(true)
	}
	return r
}

// IsTerminal reports whether w is a terminal. Non-file writers never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render writes the frame for records in a single Write.
func (r *Renderer) Render(records []process.Record) error {
	return r.write(r.Frame(records))
}

// Println writes msg as one line between frames.
func (r *Renderer) Println(msg string) error {
	return r.write(msg + "\n")
}

func (r *Renderer) write(s string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := io.WriteString(r.w, s)
	return err
}

// Frame returns the text Render would write.
func (r *Renderer) Frame(records []process.Record) string {
	var b strings.Builder
	if r.opts.Clear {
		b.WriteString(ClearScreen)
	}
	if r.opts.Color {
		b.WriteString(r.headerStyle.Render(header))
	} else {
		b.WriteString(header)
	}
	b.WriteByte('\n')
	b.WriteString(separator)
	b.WriteByte('\n')
	for _, rec := range records {
		b.WriteString(Row(rec))
		b.WriteByte('\n')
	}
	return b.String()
}

// Row formats one record. Every cell is cut to its column width, so an
// overlong value keeps its leading characters and the columns stay aligned.
func Row(rec process.Record) string {
	return cell(strconv.Itoa(rec.PID), PIDWidth) + "| " +
		cell(rec.Owner, OwnerWidth) + "| " +
		cell(rec.Name, NameWidth) + "| " +
		rec.State.String()
}

// cell hard-cuts s to width display cells and pads it with spaces.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, ""), width)
}

// Package console is the operator-facing display shared by the host and
// the client. Writes are serialized so concurrent session goroutines never
// interleave mid-line.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const clearSeq = "\033[H\033[2J"

type Display struct {
	mu  sync.Mutex
	w   io.Writer
	tty bool
}

// New wraps w. Prompts and screen clearing are only emitted when w is a
// terminal.
func New(w io.Writer) *Display {
	d := &Display{w: w}
	if f, ok := w.(*os.File); ok {
		fd := f.Fd()
		d.tty = isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
	return d
}

func (d *Display) Println(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintln(d.w, line)
}

func (d *Display) Printf(format string, args ...any) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = fmt.Fprintf(d.w, format, args...)
}

// Prompt prints "> " without a newline.
func (d *Display) Prompt() {
	if !d.tty {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = io.WriteString(d.w, "> ")
}

func (d *Display) Clear() {
	if !d.tty {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, _ = io.WriteString(d.w, clearSeq)
}

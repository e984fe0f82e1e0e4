// Package render prints completion results and faults for the terminal.
// Color is applied only when the destination is a TTY, so piped output
// stays clean.
package render

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
	ansiBold   = "\033[1m"
	ansiReset  = "\033[0m"
)

// noticeText is printed to standard output before the request is dispatched.
const noticeText = "Generating response..."

// Printer writes the pipeline's user-facing output.
type Printer struct {
	out      io.Writer
	errOut   io.Writer
	colorOut bool
	colorErr bool
}

// New creates a Printer. colorOut and colorErr enable ANSI color on the
// respective writers; pass the IsTerminal result for each.
func New(out, errOut io.Writer, colorOut, colorErr bool) *Printer {
	return &Printer{
		out:      out,
		errOut:   errOut,
		colorOut: colorOut,
		colorErr: colorErr,
	}
}

// Notice prints the fixed progress line.
func (p *Printer) Notice() {
	if p.colorOut {
		fmt.Fprintln(p.out, ansiYellow+noticeText+ansiReset)
		return
	}
	fmt.Fprintln(p.out, noticeText)
}

// Result prints the generated text followed by a trailing newline. The text
// itself is never colored.
func (p *Printer) Result(text string) {
	fmt.Fprintln(p.out, text)
}

// Fault reports err on the error writer.
func (p *Printer) Fault(err error) {
	if p.colorErr {
		fmt.Fprintln(p.errOut, ansiRed+ansiBold+"Error: "+err.Error()+ansiReset)
		return
	}
	fmt.Fprintln(p.errOut, "Error: "+err.Error())
}

// IsTerminal reports whether w is a terminal. Only *os.File writers can be;
// buffers and pipes never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

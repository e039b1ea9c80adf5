package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	ansiCyan    = "\033[36m%s\033[0m"
	ansiYellow  = "\033[33m%s\033[0m"
	ansiRed     = "\033[31m%s\033[0m"
	ansiGreen   = "\033[32m%s\033[0m"
	ansiMagenta = "\033[35m%s\033[0m"
)

// Printer writes colored status lines for the CLI
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
}

// NewPrinter writes to out, coloring only when color is true
func NewPrinter(out io.Writer, color bool) *Printer {
	return &Printer{out: out, color: color}
}

// Stdout returns a printer that colors when stdout is a terminal
func Stdout(noColor bool) *Printer {
	return NewPrinter(os.Stdout, !noColor && term.IsTerminal(int(os.Stdout.Fd())))
}

func (p *Printer) paint(format, text string) string {
	if !p.color {
		return text
	}
	return fmt.Sprintf(format, text)
}

func (p *Printer) line(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

// Error prints msg and an optional detail in red
func (p *Printer) Error(msg string, detail ...interface{}) {
	if len(detail) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, detail[0])
	}
	p.line(p.paint(ansiRed, msg))
}

// Warning prints msg and an optional detail in yellow
func (p *Printer) Warning(msg string, detail ...interface{}) {
	if len(detail) > 0 {
		msg = fmt.Sprintf("%s: %v", msg, detail[0])
	}
	p.line(p.paint(ansiYellow, msg))
}

// Success prints msg in green
func (p *Printer) Success(msg string) {
	p.line(p.paint(ansiGreen, msg))
}

// Info prints a label and value pair
func (p *Printer) Info(label, value string) {
	p.line(fmt.Sprintf("%s: %s", p.paint(ansiCyan, label), p.paint(ansiYellow, value)))
}

// Highlight prints msg in magenta
func (p *Printer) Highlight(msg string) {
	p.line(p.paint(ansiMagenta, msg))
}

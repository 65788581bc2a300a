// Package output provides terminal output for the relkit CLI. Verbosity is
// carried by an explicit Printer value handed to whoever needs to print,
// never by process-wide flags. The package has minimal dependencies to
// avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Verbosity controls how much a Printer emits.
type Verbosity int

const (
	// Quiet suppresses everything except final results and warnings.
	Quiet Verbosity = iota
	// Normal prints step and change lines.
	Normal
	// Verbose additionally prints diagnostic detail.
	Verbose
)

var (
	infoPrefix   = color.New(color.FgCyan).SprintFunc()
	changePrefix = color.New(color.FgGreen).SprintFunc()
	warnPrefix   = color.New(color.FgYellow, color.Bold).SprintFunc()
	successMark  = color.New(color.FgGreen, color.Bold).SprintFunc()
	dim          = color.New(color.Faint).SprintFunc()
)

// Printer writes leveled, optionally colored lines. The zero value is not
// usable; construct with New.
type Printer struct {
	out   io.Writer
	err   io.Writer
	level Verbosity
}

// New returns a Printer at the given verbosity writing to stdout/stderr.
func New(level Verbosity) *Printer {
	return &Printer{out: os.Stdout, err: os.Stderr, level: level}
}

// NewWithWriters returns a Printer with explicit writers, for tests.
func NewWithWriters(out, err io.Writer, level Verbosity) *Printer {
	return &Printer{out: out, err: err, level: level}
}

// Info prints a step line, suppressed in quiet mode.
func (p *Printer) Info(format string, args ...any) {
	if p.level >= Normal {
		fmt.Fprintf(p.out, "%s %s\n", infoPrefix("[info]"), fmt.Sprintf(format, args...))
	}
}

// Verbose prints diagnostic detail, only in verbose mode.
func (p *Printer) Verbose(format string, args ...any) {
	if p.level >= Verbose {
		fmt.Fprintf(p.out, "%s\n", dim(fmt.Sprintf(format, args...)))
	}
}

// Change reports a file mutation the run performed.
func (p *Printer) Change(format string, args ...any) {
	if p.level >= Normal {
		fmt.Fprintf(p.out, "%s %s\n", changePrefix("[change]"), fmt.Sprintf(format, args...))
	}
}

// Warn reports a non-fatal problem. Warnings survive quiet mode.
func (p *Printer) Warn(format string, args ...any) {
	fmt.Fprintf(p.err, "%s %s\n", warnPrefix("[warn]"), fmt.Sprintf(format, args...))
}

// Success prints a completed-step line, suppressed in quiet mode.
func (p *Printer) Success(format string, args ...any) {
	if p.level >= Normal {
		fmt.Fprintf(p.out, "%s %s\n", successMark("✓"), fmt.Sprintf(format, args...))
	}
}

// Result prints final output that must appear even in quiet mode, such as
// PR URLs and follow-up commands.
func (p *Printer) Result(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// GetTerminalWidth returns the terminal width, defaulting to 80 when stdout
// is not a terminal.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsTTY reports whether stdout is a terminal. Used to decide whether a
// spinner is worth showing.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

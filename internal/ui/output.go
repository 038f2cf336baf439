// Package ui provides consistent plain-text output for the installer.
package ui

import (
	"fmt"
	"io"
	"os"
)

// Writer prints user-facing progress lines. Progress goes to out; warnings
// and errors go to errOut.
type Writer struct {
	out    io.Writer
	errOut io.Writer
}

// NewWriter creates a Writer that writes to stdout/stderr.
func NewWriter() *Writer {
	return &Writer{
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// NewWriterWithOutputs creates a Writer with custom output destinations.
// Intended for testing.
func NewWriterWithOutputs(out, errOut io.Writer) *Writer {
	return &Writer{
		out:    out,
		errOut: errOut,
	}
}

// Discard returns a Writer that drops everything.
func Discard() *Writer {
	return NewWriterWithOutputs(io.Discard, io.Discard)
}

// Step prints a progress line for a pipeline stage.
func (w *Writer) Step(msg string) {
	writeLine(w.out, "==>", msg)
}

// Success prints a success message with a checkmark prefix.
func (w *Writer) Success(msg string) {
	writeLine(w.out, "✓", msg)
}

// Warning prints a warning message to stderr.
func (w *Writer) Warning(msg string) {
	writeLine(w.errOut, "warning:", msg)
}

// Error prints an error message to stderr.
func (w *Writer) Error(msg string) {
	writeLine(w.errOut, "error:", msg)
}

// Info prints an informational message.
func (w *Writer) Info(msg string) {
	writeLine(w.out, "info:", msg)
}

// Stepf prints a formatted progress line.
func (w *Writer) Stepf(format string, args ...any) {
	w.Step(fmt.Sprintf(format, args...))
}

// Successf prints a formatted success message.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Infof prints a formatted informational message.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

func writeLine(out io.Writer, prefix, msg string) {
	if _, err := fmt.Fprintf(out, "%s %s\n", prefix, msg); err != nil {
		// Best-effort output; if stderr fails there's nothing useful to do.
		return
	}
}

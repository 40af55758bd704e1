// Package logging builds the leveled console logger used across git-todos.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every log line
const Prefix = "git-todos"

// New returns a text logger writing to w.
// Only warnings and errors are shown unless verbose is set.
func New(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: verbose,
		Prefix:          Prefix,
	})
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

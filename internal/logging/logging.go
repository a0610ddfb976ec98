// Package logging builds the structured logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error; empty = info
	Format string // text, logfmt, json; empty picks text on a terminal and logfmt otherwise
	Prefix string
	Output io.Writer // defaults to os.Stderr
}

// New creates a logger for opts.
func New(opts Options) (*log.Logger, error) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	formatter, err := pickFormatter(opts.Format, out)
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          opts.Prefix,
		Level:           level,
		Formatter:       formatter,
	})
	if formatter == log.TextFormatter {
		logger.SetStyles(styles())
	}

	return logger, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func pickFormatter(format string, out io.Writer) (log.Formatter, error) {
	switch format {
	case "":
		if isTerminal(out) {
			return log.TextFormatter, nil
		}
		return log.LogfmtFormatter, nil
	case "text":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("logging: unknown format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// styles tints level labels and highlights the keys the agent logs most.
func styles() *log.Styles {
	s := log.DefaultStyles()
	s.Levels[log.DebugLevel] = lipgloss.NewStyle().
		SetString("DEBU").
		Bold(true).
		Foreground(lipgloss.Color("63"))
	s.Levels[log.InfoLevel] = lipgloss.NewStyle().
		SetString("INFO").
		Bold(true).
		Foreground(lipgloss.Color("86"))
	s.Levels[log.WarnLevel] = lipgloss.NewStyle().
		SetString("WARN").
		Bold(true).
		Foreground(lipgloss.Color("192"))
	s.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERRO").
		Bold(true).
		Foreground(lipgloss.Color("204"))

	s.Keys["score"] = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	s.Keys["max_tile"] = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	s.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	return s
}

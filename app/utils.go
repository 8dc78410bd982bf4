package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger writes text records to w, which is stderr outside of tests.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// setupColor decides whether fatih/color emits escape codes for this run.
func setupColor(mode string, noColor bool, out io.Writer) {
	switch {
	case noColor || mode == colorNever:
		color.NoColor = true
	case mode == colorAlways:
		color.NoColor = false
	default:
		color.NoColor = !isTerminal(out)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	matchColor = color.New(color.FgRed, color.Bold)
	fileColor  = color.New(color.FgMagenta)
	passColor  = color.New(color.FgGreen)
	failColor  = color.New(color.FgRed)
)

// highlight marks line[start:end] as the match.
func highlight(line string, start, end int) string {
	return line[:start] + matchColor.Sprint(line[start:end]) + line[end:]
}

// groupTable renders capture groups as a light go-pretty table.
func groupTable(header table.Row, rows []table.Row) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(header)
	tbl.AppendRows(rows)
	return tbl.Render()
}

// checkArgs validates that exactly one argument was provided.
func checkArgs(args []string, usage string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected 1 argument, got %d\nUsage: %s", len(args), usage)
	}
	if strings.TrimSpace(args[0]) == "" {
		return fmt.Errorf("empty argument\nUsage: %s", usage)
	}
	return nil
}

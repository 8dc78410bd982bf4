package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/funkybooboo/regexr/engine"
)

type grepOptions struct {
	recursive  bool
	ignoreCase bool
	expr       string
}

func newGrepCmd(_ *options) *cobra.Command {
	g := &grepOptions{}
	cmd := &cobra.Command{
		Use:   "grep [-r] [-i] -E PATTERN [PATH...]",
		Short: "Print lines matching a pattern",
		Long: `grep prints every line that matches PATTERN. With no PATH it reads
standard input; with -r every file under each PATH is searched.

Exit status is 0 if a line matched, 1 if none did and 2 on error.

Example:
  regexr grep -E '^(?P<open>\()?\d{3}(?(open)\))$' numbers.txt
  regexr grep -r -i -E 'todo|fixme' ./src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGrep(cmd, g, args)
		},
	}
	cmd.Flags().BoolVarP(&g.recursive, "recursive", "r", false, "Search directories recursively")
	cmd.Flags().BoolVarP(&g.ignoreCase, "ignore-case", "i", false, "Ignore case distinctions")
	cmd.Flags().StringVarP(&g.expr, "regexp", "E", "", "Pattern to search for")
	_ = cmd.MarkFlagRequired("regexp")
	return cmd
}

func runGrep(cmd *cobra.Command, g *grepOptions, paths []string) error {
	var flags engine.Flags
	if g.ignoreCase {
		flags |= engine.IgnoreCase
	}
	re, err := engine.Compile(g.expr, flags)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	s := &lineScanner{re: re, out: cmd.OutOrStdout()}
	multi := g.recursive || len(paths) > 1

	switch {
	case len(paths) == 0:
		err = s.scan("(standard input)", cmd.InOrStdin(), false)
	case g.recursive:
		for _, root := range paths {
			if err = s.walk(root); err != nil {
				break
			}
		}
	default:
		for _, name := range paths {
			if err = s.scanFile(name, multi); err != nil {
				break
			}
		}
	}
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if !s.found {
		return &exitError{code: 1}
	}
	return nil
}

// lineScanner prints the lines of its inputs that match re.
type lineScanner struct {
	re    *engine.Regexp
	out   io.Writer
	found bool
}

func (s *lineScanner) walk(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := s.scanFile(path, true); err != nil {
			slog.Warn("skipping file", "path", path, "error", err)
		}
		return nil
	})
}

func (s *lineScanner) scanFile(name string, addPrefix bool) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open file %q: %w", name, err)
	}
	defer f.Close()
	return s.scan(name, f, addPrefix)
}

// scan reads r line by line and prints the matching lines, prefixed with
// name when addPrefix is set.
func (s *lineScanner) scan(name string, r io.Reader, addPrefix bool) error {
	slog.Debug("scanning", "input", name)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		loc := s.re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		s.found = true
		if addPrefix {
			fmt.Fprintf(s.out, "%s:%s\n", fileColor.Sprint(name), highlight(line, loc[0], loc[1]))
		} else {
			fmt.Fprintln(s.out, highlight(line, loc[0], loc[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", name, err)
	}
	return nil
}

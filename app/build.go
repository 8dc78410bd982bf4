package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/funkybooboo/regexr/engine"
	"github.com/funkybooboo/regexr/internal/treefile"
	"github.com/funkybooboo/regexr/pattern"
)

var errExamples = errors.New("examples failed")

type buildOptions struct {
	pretty bool
	groups bool
}

func newBuildCmd(opts *options) *cobra.Command {
	b := &buildOptions{}
	cmd := &cobra.Command{
		Use:   "build FILE",
		Short: "Compile a YAML pattern tree",
		Long: `build reads a pattern tree from a YAML file and prints the compiled
pattern. Examples listed in the file must match it and counterexamples must
not; a failing example makes the exit status 1.

Example:
  regexr build phone.yaml
  regexr build phone.yaml --pretty --groups`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkArgs(args, "regexr build FILE"); err != nil {
				return err
			}
			return runBuild(cmd.OutOrStdout(), args[0], b, opts.cfg)
		},
	}
	cmd.Flags().BoolVar(&b.pretty, "pretty", false, "Print the pattern indented over several lines")
	cmd.Flags().BoolVar(&b.groups, "groups", false, "Print the capture groups")
	return cmd
}

func runBuild(w io.Writer, path string, b *buildOptions, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := treefile.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	src, err := pattern.Compile(doc.Pattern)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if b.pretty {
		pretty, err := pattern.Pretty(doc.Pattern, pattern.PrettyOptions{Indent: cfg.Pretty.Indent})
		if err != nil {
			return err
		}
		fmt.Fprintln(w, pretty)
	} else {
		fmt.Fprintln(w, src)
	}

	if b.groups {
		groups, err := pattern.Groups(doc.Pattern)
		if err != nil {
			return err
		}
		rows := make([]table.Row, 0, len(groups))
		for _, g := range groups {
			rows = append(rows, table.Row{g.Number, g.Name, g.Path})
		}
		fmt.Fprintln(w, groupTable(table.Row{"#", "Name", "Node"}, rows))
	}

	if len(doc.Examples) == 0 && len(doc.Counterexamples) == 0 {
		return nil
	}
	re, err := engine.Compile(src, doc.Flags)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return checkExamples(w, re, doc)
}

func checkExamples(w io.Writer, re *engine.Regexp, doc *treefile.Document) error {
	failed := 0
	report := func(ok bool, msg string) {
		if ok {
			passColor.Fprintf(w, "ok   %s\n", msg)
			return
		}
		failed++
		failColor.Fprintf(w, "FAIL %s\n", msg)
	}
	for _, ex := range doc.Examples {
		report(re.MatchString(ex), fmt.Sprintf("%q matches", ex))
	}
	for _, ex := range doc.Counterexamples {
		report(!re.MatchString(ex), fmt.Sprintf("%q does not match", ex))
	}
	if failed > 0 {
		total := len(doc.Examples) + len(doc.Counterexamples)
		return &exitError{code: 1, err: fmt.Errorf("%w: %d of %d", errExamples, failed, total)}
	}
	return nil
}

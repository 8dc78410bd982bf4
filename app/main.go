// Package main is the regexr command: a grep built on the pattern engine and
// tools for building patterns from YAML tree files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// exitError ends the process with code, printing err first if it is set.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

// options is shared by every subcommand.
type options struct {
	cfgFile string
	verbose bool
	noColor bool
	cfg     *Config
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// execute runs the command line and returns the exit status: 0 on success,
// 1 when grep finds nothing or examples fail, 2 on any other error.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		if exitErr.err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.err)
		}
		return exitErr.code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 2
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "regexr",
		Short: "Build, inspect and run structured regular expressions",
		Long: `regexr builds regular expressions from YAML tree files, checks
patterns written by hand, and searches files with them.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default is ./regexr.yaml or $HOME/.config/regexr/regexr.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newGrepCmd(opts))
	rootCmd.AddCommand(newBuildCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))

	return rootCmd
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.cfgFile)
	if err != nil {
		return err
	}
	o.cfg = cfg

	level := cfg.LogLevel()
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), level))
	setupColor(cfg.Color, o.noColor, cmd.OutOrStdout())

	slog.Debug("configuration loaded", "color", cfg.Color, "indent", fmt.Sprintf("%q", cfg.Pretty.Indent))
	return nil
}

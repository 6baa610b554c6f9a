// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/bigfile

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// command is one bff subcommand.
type command struct {
	// flags registers command flags on fs. Nil means only the common flags.
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, env *env, args []string) error
	name    string
	summary string
	usage   string
	// minArgs and maxArgs bound positional arguments; maxArgs < 0 is unbounded.
	minArgs int
	maxArgs int
}

// exitError carries a non-zero exit code for outcomes the command already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// ExitCode returns the process exit code.
func (e *exitError) ExitCode() int {
	return e.code
}

// execute dispatches args to a subcommand.
func execute(ctx context.Context, commands []*command, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 || isHelpFlag(args[0]) {
		printHelp(stderr, commands)
		if len(args) == 0 {
			return errors.New("command required")
		}
		return nil
	}

	for _, cmd := range commands {
		if cmd.name == args[0] {
			return cmd.execute(ctx, args[1:], stdin, stdout, stderr)
		}
	}

	return fmt.Errorf("unknown command %q\n\nRun 'bff --help' for usage", args[0])
}

// execute parses flags, loads configuration and runs the command.
func (c *command) execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := pflag.NewFlagSet("bff "+c.name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	e.common.register(fs)
	if c.flags != nil {
		c.flags(fs)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			c.printHelp(stderr, fs)
			return nil
		}

		return fmt.Errorf("%w\n\nRun 'bff %s --help' for usage", err, c.name)
	}

	rest := fs.Args()
	if len(rest) < c.minArgs || (c.maxArgs >= 0 && len(rest) > c.maxArgs) {
		c.printHelp(stderr, fs)
		return fmt.Errorf("%s: wrong number of arguments", c.name)
	}

	if err := e.setup(fs); err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	return c.run(ctx, e, rest)
}

func (c *command) printHelp(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "%s\n\nUsage:\n  bff %s\n", c.summary, c.usage)

	var flagHelp strings.Builder
	fs.SetOutput(&flagHelp)
	fs.PrintDefaults()
	fs.SetOutput(io.Discard)
	if flagHelp.Len() > 0 {
		fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
	}
}

func printHelp(w io.Writer, commands []*command) {
	fmt.Fprintf(w, "bff decodes, verifies and extracts bigfile archives.\n\nUsage:\n  bff <command> [flags]\n\nCommands:\n")

	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
	for _, cmd := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", cmd.name, cmd.summary)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nRun 'bff <command> --help' for more information on a command.\n")
}

// isHelpFlag returns true for common help flag variants.
func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/writewhisker/whisker-script/internal/interp"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive Whisker session",
	Long: `repl reads one statement per line from standard input, executing each
against a single ExecutionContext shared across the whole session — global
variables, function definitions and math.random's seed all persist between
lines, the same way they persist across interpreter calls within one story
session (§5).`,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, _ []string) error {
	ctx := newExecutionContext()
	in := bufio.NewScanner(os.Stdin)
	out := cmd.OutOrStdout()

	fmt.Fprint(out, "> ")
	for in.Scan() {
		line := in.Text()
		if line == "" {
			fmt.Fprint(out, "> ")
			continue
		}

		prevOutput := len(ctx.Output)
		prevErrors := len(ctx.Errors)
		_ = interp.Run(ctx, line)

		for _, printed := range ctx.Output[prevOutput:] {
			fmt.Fprintln(out, printed)
		}
		for _, e := range ctx.Errors[prevErrors:] {
			fmt.Fprintln(os.Stderr, e.Format("<repl>"))
		}

		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)

	if err := in.Err(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

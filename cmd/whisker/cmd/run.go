package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/writewhisker/whisker-script/internal/interp"
	"github.com/writewhisker/whisker-script/internal/interperr"
)

var (
	evalExpr string
	dumpAST  bool
	trace    bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Whisker script file or inline expression",
	Long: `Execute a Whisker story script from a file or inline source.

Examples:
  # Run a script file
  whisker run story.wsk

  # Evaluate inline code instead of reading from a file
  whisker run -e "print(1 + 2)"

  # Dump the split statement stream before executing
  whisker run --dump-ast story.wsk

  # Trace each statement as it dispatches
  whisker run --trace story.wsk`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the split statement stream before executing (for debugging)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "trace statement dispatch during execution (for debugging)")
}

func runScript(_ *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case evalExpr != "":
		input = evalExpr
		filename = "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		return fmt.Errorf("either provide a file path or use -e for inline code")
	}

	ctx := newExecutionContext()

	if dumpAST {
		fmt.Println("Statements:")
		for _, stmt := range interp.Split(input) {
			fmt.Printf("  %4d | %s\n", stmt.Line, stmt.Text)
		}
		fmt.Println()
	}

	if trace {
		ctx.Trace = func(stmt interp.Statement) {
			fmt.Fprintf(os.Stderr, "[trace] line %d: %s\n", stmt.Line, stmt.Text)
		}
	}

	runErr := interp.Run(ctx, input)

	for _, line := range ctx.Output {
		fmt.Println(line)
	}

	if !ctx.Success() {
		fmt.Fprint(os.Stderr, interperr.FormatAll(ctx.Errors, filename))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("execution failed with %d error(s)", len(ctx.Errors))
	}

	return runErr
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/writewhisker/whisker-script/internal/interp"
	"github.com/writewhisker/whisker-script/internal/interperr"
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run a script and report errors without printing its output",
	Long: `check executes a Whisker script exactly as "run" does, but suppresses
print() output and reports only the collected errors, making it suitable
for a CI gate over story scripts.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	ctx := newExecutionContext()
	_ = interp.Run(ctx, string(content))

	if !ctx.Success() {
		fmt.Fprint(os.Stderr, interperr.FormatAll(ctx.Errors, filename))
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("%s: %d error(s)", filename, len(ctx.Errors))
	}

	fmt.Printf("%s: ok\n", filename)
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/writewhisker/whisker-script/internal/interp"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose      bool
	maxLoopIters int
	maxCallDepth int
	rngSeed      int64
)

var rootCmd = &cobra.Command{
	Use:   "whisker",
	Short: "Whisker interactive-fiction scripting runtime",
	Long: `whisker is a Go implementation of the Whisker scripting language, a
Lua-subset interpreter embedded in an interactive-fiction runtime:
passages, choices, history, LIST state machines and a host API for
reading and writing story state from interpreted script.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().IntVar(&maxLoopIters, "max-loop-iterations", interp.DefaultMaxLoopIterations, "loop iteration cap before IterationCapExceeded")
	rootCmd.PersistentFlags().IntVar(&maxCallDepth, "max-call-depth", interp.DefaultMaxCallDepth, "call-stack depth cap before CallDepthExceeded")
	rootCmd.PersistentFlags().Int64Var(&rngSeed, "rng-seed", 1, "seed for math.random in this run")
}

// newExecutionContext builds an ExecutionContext wired from the persistent
// flags above, so every subcommand shares the same cap/seed configuration
// (§A.3: the CLI's InterpreterOptions are cobra persistent flags, not a
// config file).
func newExecutionContext() *interp.ExecutionContext {
	ctx := interp.NewExecutionContext()
	ctx.MaxLoopIterations = maxLoopIters
	ctx.MaxCallDepth = maxCallDepth
	ctx.RandSeed(rngSeed)
	return ctx
}

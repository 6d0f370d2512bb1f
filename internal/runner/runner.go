// Package runner drives end-to-end `.wsk` story-script fixtures through the
// string interpreter and reports captured output/errors, the harness
// exercised by the golden fixture tests in fixtures_test.go (§A.4).
//
// Grounded on the teacher's internal/interp/fixture_test.go, which loads
// `.pas`-flavored script fixtures from testdata and snapshots the
// compiler's diagnostics; this package performs the equivalent load for
// `.wsk` Lua-subset scripts, snapshotting interpreter output and errors
// instead of compiler diagnostics.
package runner

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/writewhisker/whisker-script/internal/interp"
)

// Result is what a fixture run produces: the captured print output and the
// per-statement errors recorded during execution (§7's "success =
// errors.is_empty()").
type Result struct {
	Output  []string
	Errors  []string
	Success bool
}

// RunFile reads path and executes it against a fresh ExecutionContext,
// returning the observable Result.
func RunFile(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return RunSource(string(src)), nil
}

// RunSource executes src against a fresh ExecutionContext.
func RunSource(src string) Result {
	ctx := interp.NewExecutionContext()
	_ = interp.Run(ctx, src) // fatal errors are already reflected in ctx.Errors

	errs := make([]string, 0, len(ctx.Errors))
	for _, e := range ctx.Errors {
		errs = append(errs, e.Format(""))
	}

	return Result{
		Output:  append([]string(nil), ctx.Output...),
		Errors:  errs,
		Success: ctx.Success(),
	}
}

// DiscoverFixtures lists every `.wsk` file under dir, sorted for
// deterministic test iteration order.
func DiscoverFixtures(dir string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".wsk" {
			out = append(out, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

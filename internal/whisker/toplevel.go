package whisker

import (
	"math/rand"
	"strconv"

	"github.com/writewhisker/whisker-script/internal/value"
)

// topLevelRand is the shared source backing the bare random()/pick()
// functions; it is independent of any per-ExecutionContext RNG seeded
// through math.randomseed (§4.7's math.random has its own contract), since
// the host-level visited/random/pick surface has no seeding operation in
// §4.8.
var topLevelRand = rand.New(rand.NewSource(1))

// registerTopLevel wires the bare whisker.visited/random/pick/print
// functions (§4.8), which operate without a namespace prefix.
func registerTopLevel(r *Registry) {
	r.Register(NSGlobal, "visited", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id := ""
		if len(args) > 0 {
			var err error
			id, err = argStr("visited", args, 0)
			if err != nil {
				return nil, err
			}
		} else if p, ok := rc.CurrentPassage(); ok {
			id = p.ID
		}
		return value.Num(rc.VisitCount(id)), nil
	})

	r.Register(NSGlobal, "random", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		switch len(args) {
		case 0:
			return value.Num(topLevelRand.Float64()), nil
		case 1:
			hi, err := argNum("random", args, 0)
			if err != nil {
				return nil, err
			}
			return value.Num(1 + topLevelRand.Int63n(int64(hi))), nil
		default:
			lo, err := argNum("random", args, 0)
			if err != nil {
				return nil, err
			}
			hi, err := argNum("random", args, 1)
			if err != nil {
				return nil, err
			}
			span := int64(hi) - int64(lo) + 1
			return value.Num(int64(lo) + topLevelRand.Int63n(span)), nil
		}
	})

	r.Register(NSGlobal, "pick", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, argErr("pick", 1, 0)
		}
		if len(args) == 1 {
			if t, ok := args[0].(*value.Table); ok {
				n := t.Len()
				if n == 0 {
					return value.Nil, nil
				}
				return t.Get(strconv.Itoa(1 + topLevelRand.Intn(n))), nil
			}
		}
		return args[topLevelRand.Intn(len(args))], nil
	})

	r.Register(NSGlobal, "print", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return value.Str(value.JoinTabbed(args)), nil
	})
}

package whisker

import (
	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/value"
)

func passageToTable(p *Passage) *value.Table {
	t := value.NewTable()
	t.Set("id", value.Str(p.ID))
	t.Set("content", value.Str(p.Content))
	t.Set("tags", stringsToArray(p.Tags))
	meta := value.NewTable()
	for k, v := range p.Metadata {
		meta.Set(k, value.Str(v))
	}
	t.Set("metadata", meta)
	return t
}

// registerPassage wires whisker.passage.* (§4.8): current, get, go,
// exists, all, tags, and visit-count lookup.
//
// Grounded on the teacher's Registry pattern; go() enforces the
// unknown-id invariant before touching history, matching §4.8's
// navigation contract.
func registerPassage(r *Registry) {
	r.Register(NSPassage, "current", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		p, ok := rc.CurrentPassage()
		if !ok {
			return value.Nil, nil
		}
		return passageToTable(p), nil
	})

	r.Register(NSPassage, "get", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id, err := argStr("passage.get", args, 0)
		if err != nil {
			return nil, err
		}
		p, ok := rc.GetPassage(id)
		if !ok {
			return value.Nil, nil
		}
		return passageToTable(p), nil
	})

	r.Register(NSPassage, "exists", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id, err := argStr("passage.exists", args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := rc.GetPassage(id)
		return value.Bool(ok), nil
	})

	r.Register(NSPassage, "go", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id, err := argStr("passage.go", args, 0)
		if err != nil {
			return nil, err
		}
		if _, ok := rc.GetPassage(id); !ok {
			return nil, interperr.New(interperr.PassageNotFound, "passage %q does not exist", id)
		}
		if err := rc.GoToPassage(id); err != nil {
			return nil, err
		}
		return value.Nil, nil
	})

	r.Register(NSPassage, "all", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		ps := rc.AllPassages()
		elems := make([]value.Value, len(ps))
		for i, p := range ps {
			elems[i] = passageToTable(p)
		}
		return value.NewArrayTable(elems), nil
	})

	r.Register(NSPassage, "tags", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		tag, err := argStr("passage.tags", args, 0)
		if err != nil {
			return nil, err
		}
		ps := rc.PassagesByTag(tag)
		elems := make([]value.Value, len(ps))
		for i, p := range ps {
			elems[i] = passageToTable(p)
		}
		return value.NewArrayTable(elems), nil
	})

	r.Register(NSPassage, "visitCount", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id, err := argStr("passage.visitCount", args, 0)
		if err != nil {
			return nil, err
		}
		return value.Num(rc.VisitCount(id)), nil
	})
}

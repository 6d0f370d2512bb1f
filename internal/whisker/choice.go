package whisker

import "github.com/writewhisker/whisker-script/internal/value"

func choiceToTable(c Choice) *value.Table {
	t := value.NewTable()
	t.Set("text", value.Str(c.Text))
	t.Set("target", value.Str(c.Target))
	return t
}

// registerChoice wires whisker.choice.* (§4.8): available, select (1-based,
// per §4.8's ChoiceIndex error on an out-of-range index) and count.
func registerChoice(r *Registry) {
	r.Register(NSChoice, "available", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		cs := rc.CurrentChoices()
		elems := make([]value.Value, len(cs))
		for i, c := range cs {
			elems[i] = choiceToTable(c)
		}
		return value.NewArrayTable(elems), nil
	})

	r.Register(NSChoice, "count", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return value.Num(len(rc.CurrentChoices())), nil
	})

	r.Register(NSChoice, "select", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		idx, err := argNum("choice.select", args, 0)
		if err != nil {
			return nil, err
		}
		c, err := rc.SelectChoice(int(idx))
		if err != nil {
			return nil, err
		}
		return choiceToTable(*c), nil
	})
}

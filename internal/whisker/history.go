package whisker

import "github.com/writewhisker/whisker-script/internal/value"

// registerHistory wires whisker.history.* (§4.8): back, canBack, list,
// count, contains, clear over the host's visited-passage stack.
func registerHistory(r *Registry) {
	r.Register(NSHistory, "list", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return stringsToArray(rc.HistoryList()), nil
	})

	r.Register(NSHistory, "count", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return value.Num(len(rc.HistoryList())), nil
	})

	r.Register(NSHistory, "canBack", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return value.Bool(len(rc.HistoryList()) > 0), nil
	})

	r.Register(NSHistory, "back", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		_, ok := rc.HistoryBack()
		return value.Bool(ok), nil
	})

	r.Register(NSHistory, "contains", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		id, err := argStr("history.contains", args, 0)
		if err != nil {
			return nil, err
		}
		for _, h := range rc.HistoryList() {
			if h == id {
				return value.True, nil
			}
		}
		return value.False, nil
	})

	r.Register(NSHistory, "clear", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		rc.HistoryClear()
		return value.Nil, nil
	})
}

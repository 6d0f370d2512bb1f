package whisker

import (
	"strings"

	"github.com/writewhisker/whisker-script/internal/value"
)

// registerHook wires whisker.hook.* (§4.8): existence/visibility queries,
// content replacement, and the visible/hidden toggles that back
// conditional story-text fragments.
func registerHook(r *Registry) {
	r.Register(NSHook, "exists", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.exists", args, 0)
		if err != nil {
			return nil, err
		}
		_, ok := rc.GetHook(name)
		return value.Bool(ok), nil
	})

	r.Register(NSHook, "visible", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.visible", args, 0)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		return value.Bool(ok && h.Visible), nil
	})

	r.Register(NSHook, "hidden", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.hidden", args, 0)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		return value.Bool(ok && !h.Visible), nil
	})

	r.Register(NSHook, "get", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.get", args, 0)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			return value.Nil, nil
		}
		return value.Str(h.Content), nil
	})

	r.Register(NSHook, "number", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		return value.Num(len(rc.AllHookNames())), nil
	})

	r.Register(NSHook, "replace", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.replace", args, 0)
		if err != nil {
			return nil, err
		}
		text, err := argStr("hook.replace", args, 1)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		visible := true
		if ok {
			visible = h.Visible
		}
		rc.SetHook(name, &Hook{Content: text, Visible: visible})
		return value.Nil, nil
	})

	r.Register(NSHook, "append", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.append", args, 0)
		if err != nil {
			return nil, err
		}
		text, err := argStr("hook.append", args, 1)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			rc.SetHook(name, &Hook{Content: text, Visible: true})
			return value.Nil, nil
		}
		rc.SetHook(name, &Hook{Content: h.Content + text, Visible: h.Visible})
		return value.Nil, nil
	})

	r.Register(NSHook, "prepend", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.prepend", args, 0)
		if err != nil {
			return nil, err
		}
		text, err := argStr("hook.prepend", args, 1)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			rc.SetHook(name, &Hook{Content: text, Visible: true})
			return value.Nil, nil
		}
		rc.SetHook(name, &Hook{Content: text + h.Content, Visible: h.Visible})
		return value.Nil, nil
	})

	r.Register(NSHook, "show", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.show", args, 0)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			rc.SetHook(name, &Hook{Content: "", Visible: true})
			return value.Nil, nil
		}
		h.Visible = true
		rc.SetHook(name, h)
		return value.Nil, nil
	})

	r.Register(NSHook, "hide", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.hide", args, 0)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			rc.SetHook(name, &Hook{Content: "", Visible: false})
			return value.Nil, nil
		}
		h.Visible = false
		rc.SetHook(name, h)
		return value.Nil, nil
	})

	r.Register(NSHook, "contains", func(rc RuntimeContext, args []value.Value) (value.Value, error) {
		name, err := argStr("hook.contains", args, 0)
		if err != nil {
			return nil, err
		}
		needle, err := argStr("hook.contains", args, 1)
		if err != nil {
			return nil, err
		}
		h, ok := rc.GetHook(name)
		if !ok {
			return value.False, nil
		}
		return value.Bool(strings.Contains(h.Content, needle)), nil
	})
}

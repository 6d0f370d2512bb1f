package whisker_test

import (
	"testing"

	"github.com/writewhisker/whisker-script/internal/list"
	"github.com/writewhisker/whisker-script/internal/memory"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

func TestStateGetSetHasDelete(t *testing.T) {
	rc := memory.New()

	if _, err := whisker.Default.Call(rc, whisker.NSState, "set", []value.Value{value.Str("gold"), value.Num(10)}); err != nil {
		t.Fatalf("state.set error = %v", err)
	}

	got, err := whisker.Default.Call(rc, whisker.NSState, "get", []value.Value{value.Str("gold")})
	if err != nil || got != value.Num(10) {
		t.Errorf("state.get(gold) = %v, %v, want 10, nil", got, err)
	}

	has, err := whisker.Default.Call(rc, whisker.NSState, "has", []value.Value{value.Str("gold")})
	if err != nil || has != value.Bool(true) {
		t.Errorf("state.has(gold) = %v, %v, want true, nil", has, err)
	}

	if _, err := whisker.Default.Call(rc, whisker.NSState, "delete", []value.Value{value.Str("gold")}); err != nil {
		t.Fatalf("state.delete error = %v", err)
	}
	has, _ = whisker.Default.Call(rc, whisker.NSState, "has", []value.Value{value.Str("gold")})
	if has != value.Bool(false) {
		t.Errorf("state.has(gold) after delete = %v, want false", has)
	}
}

func TestStateGetDefault(t *testing.T) {
	rc := memory.New()
	got, err := whisker.Default.Call(rc, whisker.NSState, "get", []value.Value{value.Str("missing"), value.Num(99)})
	if err != nil || got != value.Num(99) {
		t.Errorf("state.get(missing, 99) = %v, %v, want 99, nil", got, err)
	}
}

func TestStateArrayRoundTrip(t *testing.T) {
	rc := memory.New()
	rc.SetArray("inventory", value.NewArrayTable([]value.Value{value.Str("sword")}))

	if _, err := whisker.Default.Call(rc, whisker.NSState, "arrayPush", []value.Value{value.Str("inventory"), value.Str("shield")}); err != nil {
		t.Fatalf("state.arrayPush error = %v", err)
	}
	length, err := whisker.Default.Call(rc, whisker.NSState, "arrayLength", []value.Value{value.Str("inventory")})
	if err != nil || length != value.Num(2) {
		t.Errorf("state.arrayLength(inventory) = %v, %v, want 2, nil", length, err)
	}

	contains, err := whisker.Default.Call(rc, whisker.NSState, "arrayContains", []value.Value{value.Str("inventory"), value.Str("shield")})
	if err != nil || contains != value.Bool(true) {
		t.Errorf("state.arrayContains(inventory, shield) = %v, %v, want true, nil", contains, err)
	}
}

func TestStateMapRoundTrip(t *testing.T) {
	rc := memory.New()
	rc.SetMap("stats", value.NewTable())

	if _, err := whisker.Default.Call(rc, whisker.NSState, "mapSet", []value.Value{value.Str("stats"), value.Str("str"), value.Num(12)}); err != nil {
		t.Fatalf("state.mapSet error = %v", err)
	}
	got, err := whisker.Default.Call(rc, whisker.NSState, "mapGet", []value.Value{value.Str("stats"), value.Str("str")})
	if err != nil || got != value.Num(12) {
		t.Errorf("state.mapGet(stats, str) = %v, %v, want 12, nil", got, err)
	}
	size, err := whisker.Default.Call(rc, whisker.NSState, "mapSize", []value.Value{value.Str("stats")})
	if err != nil || size != value.Num(1) {
		t.Errorf("state.mapSize(stats) = %v, %v, want 1, nil", size, err)
	}
}

func TestStateListDispatchesToListType(t *testing.T) {
	rc := memory.New()
	l := list.New("mood", []string{"happy", "sad", "angry"}, list.Config{})
	rc.SetList("mood", l)

	if _, err := whisker.Default.Call(rc, whisker.NSState, "listAdd", []value.Value{value.Str("mood"), value.Str("happy")}); err != nil {
		t.Fatalf("state.listAdd error = %v", err)
	}
	contains, err := whisker.Default.Call(rc, whisker.NSState, "listContains", []value.Value{value.Str("mood"), value.Str("happy")})
	if err != nil || contains != value.Bool(true) {
		t.Errorf("state.listContains(mood, happy) = %v, %v, want true, nil", contains, err)
	}
	count, err := whisker.Default.Call(rc, whisker.NSState, "listCount", []value.Value{value.Str("mood")})
	if err != nil || count != value.Num(1) {
		t.Errorf("state.listCount(mood) = %v, %v, want 1, nil", count, err)
	}
}

func TestPassageNavigationAndVisitCount(t *testing.T) {
	rc := memory.New()
	rc.AddPassage(&whisker.Passage{ID: "start", Content: "Welcome"})
	rc.AddPassage(&whisker.Passage{ID: "forest", Content: "Dark woods", Tags: []string{"outdoor"}})

	if _, err := whisker.Default.Call(rc, whisker.NSPassage, "go", []value.Value{value.Str("start")}); err != nil {
		t.Fatalf("passage.go(start) error = %v", err)
	}
	if _, err := whisker.Default.Call(rc, whisker.NSPassage, "go", []value.Value{value.Str("forest")}); err != nil {
		t.Fatalf("passage.go(forest) error = %v", err)
	}

	cur, err := whisker.Default.Call(rc, whisker.NSPassage, "current", nil)
	if err != nil {
		t.Fatalf("passage.current error = %v", err)
	}
	tbl, ok := cur.(*value.Table)
	if !ok || tbl.Get("id") != value.Str("forest") {
		t.Errorf("passage.current() = %v, want table with id=forest", cur)
	}

	visits, err := whisker.Default.Call(rc, whisker.NSPassage, "visitCount", []value.Value{value.Str("forest")})
	if err != nil || visits != value.Num(1) {
		t.Errorf("passage.visitCount(forest) = %v, %v, want 1, nil", visits, err)
	}
}

func TestPassageGoUnknownIDFails(t *testing.T) {
	rc := memory.New()
	if _, err := whisker.Default.Call(rc, whisker.NSPassage, "go", []value.Value{value.Str("nowhere")}); err == nil {
		t.Error("passage.go(nowhere) error = nil, want PassageNotFound")
	}
}

func TestHistoryTracksNavigation(t *testing.T) {
	rc := memory.New()
	rc.AddPassage(&whisker.Passage{ID: "a"})
	rc.AddPassage(&whisker.Passage{ID: "b"})
	rc.GoToPassage("a")
	rc.GoToPassage("b")

	count, err := whisker.Default.Call(rc, whisker.NSHistory, "count", nil)
	if err != nil || count != value.Num(1) {
		t.Errorf("history.count() = %v, %v, want 1, nil", count, err)
	}

	back, err := whisker.Default.Call(rc, whisker.NSHistory, "back", nil)
	if err != nil || back != value.Bool(true) {
		t.Errorf("history.back() = %v, %v, want true, nil", back, err)
	}
	if cur, ok := rc.CurrentPassage(); !ok || cur.ID != "a" {
		t.Errorf("CurrentPassage() after history.back() = %v, %v, want \"a\", true", cur, ok)
	}
}

func TestChoiceSelectOutOfRangeFails(t *testing.T) {
	rc := memory.New()
	rc.AddPassage(&whisker.Passage{ID: "start"})
	rc.SetChoices([]whisker.Choice{{Text: "go", Target: "start"}})

	if _, err := whisker.Default.Call(rc, whisker.NSChoice, "select", []value.Value{value.Num(5)}); err == nil {
		t.Error("choice.select(5) with 1 choice: error = nil, want ChoiceIndex")
	}
}

func TestChoiceSelectNavigates(t *testing.T) {
	rc := memory.New()
	rc.AddPassage(&whisker.Passage{ID: "start"})
	rc.SetChoices([]whisker.Choice{{Text: "go", Target: "start"}})

	got, err := whisker.Default.Call(rc, whisker.NSChoice, "select", []value.Value{value.Num(1)})
	if err != nil {
		t.Fatalf("choice.select(1) error = %v", err)
	}
	tbl := got.(*value.Table)
	if tbl.Get("text") != value.Str("go") {
		t.Errorf("choice.select(1) = %v, want text=go", got)
	}
	cur, _ := rc.CurrentPassage()
	if cur == nil || cur.ID != "start" {
		t.Errorf("current passage after select = %v, want start", cur)
	}
}

func TestHookReplaceAppendPrepend(t *testing.T) {
	rc := memory.New()
	whisker.Default.Call(rc, whisker.NSHook, "replace", []value.Value{value.Str("greeting"), value.Str("Hello")})
	whisker.Default.Call(rc, whisker.NSHook, "append", []value.Value{value.Str("greeting"), value.Str(", world")})
	whisker.Default.Call(rc, whisker.NSHook, "prepend", []value.Value{value.Str("greeting"), value.Str(">> ")})

	got, err := whisker.Default.Call(rc, whisker.NSHook, "get", []value.Value{value.Str("greeting")})
	if err != nil || got != value.Str(">> Hello, world") {
		t.Errorf("hook.get(greeting) = %v, %v, want \">> Hello, world\", nil", got, err)
	}
}

func TestHookShowHideVisibility(t *testing.T) {
	rc := memory.New()
	whisker.Default.Call(rc, whisker.NSHook, "replace", []value.Value{value.Str("secret"), value.Str("psst")})
	whisker.Default.Call(rc, whisker.NSHook, "hide", []value.Value{value.Str("secret")})

	hidden, err := whisker.Default.Call(rc, whisker.NSHook, "hidden", []value.Value{value.Str("secret")})
	if err != nil || hidden != value.Bool(true) {
		t.Errorf("hook.hidden(secret) = %v, %v, want true, nil", hidden, err)
	}

	whisker.Default.Call(rc, whisker.NSHook, "show", []value.Value{value.Str("secret")})
	visible, err := whisker.Default.Call(rc, whisker.NSHook, "visible", []value.Value{value.Str("secret")})
	if err != nil || visible != value.Bool(true) {
		t.Errorf("hook.visible(secret) after show = %v, %v, want true, nil", visible, err)
	}
}

func TestTopLevelVisitedTracksPassageEntry(t *testing.T) {
	rc := memory.New()
	rc.AddPassage(&whisker.Passage{ID: "cave"})

	before, _ := whisker.Default.Call(rc, whisker.NSGlobal, "visited", []value.Value{value.Str("cave")})
	if before != value.Num(0) {
		t.Errorf("visited(cave) before visiting = %v, want 0", before)
	}

	rc.GoToPassage("cave")
	after, _ := whisker.Default.Call(rc, whisker.NSGlobal, "visited", []value.Value{value.Str("cave")})
	if after != value.Num(1) {
		t.Errorf("visited(cave) after visiting = %v, want 1", after)
	}

	current, _ := whisker.Default.Call(rc, whisker.NSGlobal, "visited", nil)
	if current != value.Num(1) {
		t.Errorf("visited() with no id (current passage) = %v, want 1", current)
	}
}

func TestTopLevelPickFromTable(t *testing.T) {
	rc := memory.New()
	tbl := value.NewArrayTable([]value.Value{value.Str("only")})
	got, err := whisker.Default.Call(rc, whisker.NSGlobal, "pick", []value.Value{tbl})
	if err != nil || got != value.Str("only") {
		t.Errorf("pick({only}) = %v, %v, want \"only\", nil", got, err)
	}
}

func TestUnknownHostCallIsNameError(t *testing.T) {
	rc := memory.New()
	if _, err := whisker.Default.Call(rc, whisker.NSState, "bogus", nil); err == nil {
		t.Error("state.bogus() error = nil, want NameError")
	}
}

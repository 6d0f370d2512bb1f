package memory

import (
	"testing"

	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

func TestVarsRoundTrip(t *testing.T) {
	c := New()
	c.SetVar("gold", value.Num(10))
	if !c.HasVar("gold") {
		t.Error("HasVar(gold) = false, want true")
	}
	v, ok := c.GetVar("gold")
	if !ok || v != value.Num(10) {
		t.Errorf("GetVar(gold) = %v, %v, want 10, true", v, ok)
	}
	c.DeleteVar("gold")
	if c.HasVar("gold") {
		t.Error("HasVar(gold) after delete = true, want false")
	}
}

func TestResetVarsClearsAll(t *testing.T) {
	c := New()
	c.SetVar("a", value.Num(1))
	c.SetVar("b", value.Num(2))
	c.ResetVars()
	if len(c.AllVars()) != 0 {
		t.Errorf("AllVars() after ResetVars = %v, want empty", c.AllVars())
	}
}

func TestGoToPassageFailsBeforeMutatingHistory(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "start"})
	c.GoToPassage("start")

	if err := c.GoToPassage("nowhere"); err == nil {
		t.Fatal("GoToPassage(nowhere) error = nil, want PassageNotFound")
	}
	if len(c.HistoryList()) != 0 {
		t.Errorf("HistoryList() after failed navigation = %v, want empty", c.HistoryList())
	}
	cur, _ := c.CurrentPassage()
	if cur.ID != "start" {
		t.Errorf("CurrentPassage() after failed navigation = %v, want start (unchanged)", cur)
	}
}

func TestGoToPassagePushesPriorOntoHistory(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "a"})
	c.AddPassage(&whisker.Passage{ID: "b"})
	c.GoToPassage("a")
	c.GoToPassage("b")

	hist := c.HistoryList()
	if len(hist) != 1 || hist[0] != "a" {
		t.Errorf("HistoryList() = %v, want [a]", hist)
	}
	if c.VisitCount("b") != 1 {
		t.Errorf("VisitCount(b) = %d, want 1", c.VisitCount("b"))
	}
}

func TestHistoryBackRestoresPriorPassage(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "a"})
	c.AddPassage(&whisker.Passage{ID: "b"})
	c.GoToPassage("a")
	c.GoToPassage("b")

	id, ok := c.HistoryBack()
	if !ok || id != "a" {
		t.Errorf("HistoryBack() = %v, %v, want a, true", id, ok)
	}
	cur, _ := c.CurrentPassage()
	if cur.ID != "a" {
		t.Errorf("CurrentPassage() after HistoryBack = %v, want a", cur)
	}
}

func TestSelectChoiceValidatesBoundsBeforeNavigating(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "start"})
	c.GoToPassage("start")
	c.SetChoices([]whisker.Choice{{Text: "go", Target: "start"}})

	if _, err := c.SelectChoice(5); err == nil {
		t.Fatal("SelectChoice(5) with 1 choice: error = nil, want ChoiceIndex")
	}
	if len(c.HistoryList()) != 0 {
		t.Errorf("HistoryList() after out-of-range SelectChoice = %v, want empty (no navigation happened)", c.HistoryList())
	}
}

func TestSelectChoiceNavigatesOnValidIndex(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "a"})
	c.AddPassage(&whisker.Passage{ID: "b"})
	c.GoToPassage("a")
	c.SetChoices([]whisker.Choice{{Text: "go to b", Target: "b"}})

	choice, err := c.SelectChoice(1)
	if err != nil {
		t.Fatalf("SelectChoice(1) error = %v", err)
	}
	if choice.Target != "b" {
		t.Errorf("SelectChoice(1).Target = %q, want b", choice.Target)
	}
	cur, _ := c.CurrentPassage()
	if cur.ID != "b" {
		t.Errorf("CurrentPassage() after SelectChoice = %v, want b", cur)
	}
}

func TestAllPassagesPreservesInsertionOrder(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "b"})
	c.AddPassage(&whisker.Passage{ID: "a"})
	ps := c.AllPassages()
	if len(ps) != 2 || ps[0].ID != "b" || ps[1].ID != "a" {
		t.Errorf("AllPassages() = %v, want [b, a] (insertion order)", ps)
	}
}

func TestPassagesByTagFiltersCorrectly(t *testing.T) {
	c := New()
	c.AddPassage(&whisker.Passage{ID: "forest", Tags: []string{"outdoor"}})
	c.AddPassage(&whisker.Passage{ID: "cave", Tags: []string{"indoor"}})
	ps := c.PassagesByTag("outdoor")
	if len(ps) != 1 || ps[0].ID != "forest" {
		t.Errorf("PassagesByTag(outdoor) = %v, want [forest]", ps)
	}
}

func TestHooksPreserveInsertionOrderInAllHookNames(t *testing.T) {
	c := New()
	c.SetHook("b", &whisker.Hook{Content: "2"})
	c.SetHook("a", &whisker.Hook{Content: "1"})
	names := c.AllHookNames()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("AllHookNames() = %v, want [b, a]", names)
	}
}

func TestTwoContextsHaveDistinctSessionIDs(t *testing.T) {
	c1, c2 := New(), New()
	if c1.SessionID == c2.SessionID {
		t.Error("two New() contexts share a SessionID, want distinct")
	}
}

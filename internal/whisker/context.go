// Package whisker implements the `whisker.*` host API (§4.8): state,
// passage, history, choice and hook namespaces, plus the top-level
// visited/random/pick/print functions, all operating over a
// host-supplied RuntimeContext.
//
// Grounded on the teacher's builtins.Registry + builtins.Context pattern
// (internal/interp/builtins/register.go), adapted from a flat built-in
// function table to namespaced host-API methods, since §4.8 groups
// operations under named collaborators (state/passage/history/choice/
// hook) rather than a single global function table.
package whisker

import (
	"github.com/writewhisker/whisker-script/internal/list"
	"github.com/writewhisker/whisker-script/internal/value"
)

// Passage is a named unit of story content (§3, GLOSSARY).
type Passage struct {
	ID       string
	Content  string
	Tags     []string
	Metadata map[string]string
}

// Hook is a named, mutable text fragment embedded in story content,
// togglable between visible and hidden (GLOSSARY).
type Hook struct {
	Content string
	Visible bool
}

// Choice is an offered navigation option (GLOSSARY).
type Choice struct {
	Text   string
	Target string // passage id to navigate to, or "" if non-navigating
}

// RuntimeContext is the host-owned story session state the evaluator and
// host API operate over (§3's RuntimeContext, §4.8). Lifecycle is owned
// by the host; the evaluator/host-API funcs hold only a borrowed
// reference (§3, §5).
type RuntimeContext interface {
	// Variables (state namespace's plain get/set/has/delete/all/reset).
	GetVar(key string) (value.Value, bool)
	SetVar(key string, v value.Value)
	HasVar(key string) bool
	DeleteVar(key string)
	AllVars() map[string]value.Value
	ResetVars()

	// Collection extensions backing state.getList/getArray/getMap.
	GetList(key string) (*list.List, bool)
	SetList(key string, l *list.List)
	GetArray(key string) (*value.Table, bool)
	SetArray(key string, t *value.Table)
	GetMap(key string) (*value.Table, bool)
	SetMap(key string, t *value.Table)

	// Passages.
	CurrentPassage() (*Passage, bool)
	GetPassage(id string) (*Passage, bool)
	AllPassages() []*Passage
	PassagesByTag(tag string) []*Passage
	GoToPassage(id string) error
	VisitCount(id string) int

	// History.
	HistoryList() []string
	HistoryBack() (string, bool)
	HistoryClear()

	// Choices.
	CurrentChoices() []Choice
	SelectChoice(index int) (*Choice, error)

	// Hooks.
	GetHook(name string) (*Hook, bool)
	SetHook(name string, h *Hook)
	AllHookNames() []string
}

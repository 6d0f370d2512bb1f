// Package memory provides the InMemory runtime context (§4.11): a
// reference implementation of whisker.RuntimeContext backing story
// variables, passages, navigation history, current choices and hooks
// entirely in process memory, suitable for tests and simple embeddings
// that don't need durable session storage.
//
// Grounded on the teacher's InMemory-style test doubles used throughout
// internal/interp/builtins tests, generalized from a single flat map to
// the several related collections §3's RuntimeContext specifies.
package memory

import (
	"github.com/google/uuid"

	"github.com/writewhisker/whisker-script/internal/interperr"
	"github.com/writewhisker/whisker-script/internal/list"
	"github.com/writewhisker/whisker-script/internal/value"
	"github.com/writewhisker/whisker-script/internal/whisker"
)

// Context is the in-memory whisker.RuntimeContext reference implementation.
type Context struct {
	// SessionID uniquely identifies this runtime session (wired to
	// google/uuid per §B's DOMAIN STACK, since a getState snapshot taken
	// from two independent sessions must be distinguishable even if their
	// content happens to coincide).
	SessionID uuid.UUID

	vars   map[string]value.Value
	lists  map[string]*list.List
	arrays map[string]*value.Table
	maps   map[string]*value.Table

	passages  map[string]*whisker.Passage
	order     []string // stable iteration order for AllPassages
	current   string
	visits    map[string]int
	history   []string
	choices   []whisker.Choice
	hooks     map[string]*whisker.Hook
	hookOrder []string
}

// New returns an empty in-memory runtime context with a fresh session id.
func New() *Context {
	return &Context{
		SessionID: uuid.New(),
		vars:      make(map[string]value.Value),
		lists:     make(map[string]*list.List),
		arrays:    make(map[string]*value.Table),
		maps:      make(map[string]*value.Table),
		passages:  make(map[string]*whisker.Passage),
		visits:    make(map[string]int),
		hooks:     make(map[string]*whisker.Hook),
	}
}

// --- variables ----------------------------------------------------------

func (c *Context) GetVar(key string) (value.Value, bool) {
	v, ok := c.vars[key]
	return v, ok
}

func (c *Context) SetVar(key string, v value.Value) {
	c.vars[key] = v
}

func (c *Context) HasVar(key string) bool {
	_, ok := c.vars[key]
	return ok
}

func (c *Context) DeleteVar(key string) {
	delete(c.vars, key)
}

func (c *Context) AllVars() map[string]value.Value {
	out := make(map[string]value.Value, len(c.vars))
	for k, v := range c.vars {
		out[k] = v
	}
	return out
}

func (c *Context) ResetVars() {
	c.vars = make(map[string]value.Value)
}

// --- collection extensions -----------------------------------------------

func (c *Context) GetList(key string) (*list.List, bool) {
	l, ok := c.lists[key]
	return l, ok
}

func (c *Context) SetList(key string, l *list.List) {
	c.lists[key] = l
}

func (c *Context) GetArray(key string) (*value.Table, bool) {
	t, ok := c.arrays[key]
	return t, ok
}

func (c *Context) SetArray(key string, t *value.Table) {
	c.arrays[key] = t
}

func (c *Context) GetMap(key string) (*value.Table, bool) {
	t, ok := c.maps[key]
	return t, ok
}

func (c *Context) SetMap(key string, t *value.Table) {
	c.maps[key] = t
}

// --- passages -------------------------------------------------------------

// AddPassage registers p, appending it to AllPassages' iteration order.
func (c *Context) AddPassage(p *whisker.Passage) {
	if _, exists := c.passages[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	c.passages[p.ID] = p
}

func (c *Context) CurrentPassage() (*whisker.Passage, bool) {
	if c.current == "" {
		return nil, false
	}
	p, ok := c.passages[c.current]
	return p, ok
}

func (c *Context) GetPassage(id string) (*whisker.Passage, bool) {
	p, ok := c.passages[id]
	return p, ok
}

func (c *Context) AllPassages() []*whisker.Passage {
	out := make([]*whisker.Passage, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.passages[id])
	}
	return out
}

func (c *Context) PassagesByTag(tag string) []*whisker.Passage {
	var out []*whisker.Passage
	for _, id := range c.order {
		p := c.passages[id]
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// GoToPassage fails for an unknown id before touching history (§4.11),
// pushes the previous current passage (if any) onto history, and
// increments the destination's visit count.
func (c *Context) GoToPassage(id string) error {
	if _, ok := c.passages[id]; !ok {
		return interperr.New(interperr.PassageNotFound, "unknown passage '%s'", id)
	}
	if c.current != "" {
		c.history = append(c.history, c.current)
	}
	c.current = id
	c.visits[id]++
	return nil
}

func (c *Context) VisitCount(id string) int {
	return c.visits[id]
}

// --- history --------------------------------------------------------------

func (c *Context) HistoryList() []string {
	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Context) HistoryBack() (string, bool) {
	if len(c.history) == 0 {
		return "", false
	}
	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.current = last
	return last, true
}

func (c *Context) HistoryClear() {
	c.history = nil
}

// --- choices ----------------------------------------------------------------

// SetChoices replaces the currently offered choice list, e.g. after a
// passage evaluates its choice-producing logic.
func (c *Context) SetChoices(choices []whisker.Choice) {
	c.choices = choices
}

func (c *Context) CurrentChoices() []whisker.Choice {
	out := make([]whisker.Choice, len(c.choices))
	copy(out, c.choices)
	return out
}

// SelectChoice validates bounds before navigating (§4.11): an
// out-of-range index never mutates history or the current passage.
func (c *Context) SelectChoice(index int) (*whisker.Choice, error) {
	if index < 1 || index > len(c.choices) {
		return nil, interperr.New(interperr.ChoiceIndex, "choice index %d out of range [1,%d]", index, len(c.choices))
	}
	choice := c.choices[index-1]
	if choice.Target != "" {
		if err := c.GoToPassage(choice.Target); err != nil {
			return nil, err
		}
	}
	return &choice, nil
}

// --- hooks ------------------------------------------------------------------

func (c *Context) GetHook(name string) (*whisker.Hook, bool) {
	h, ok := c.hooks[name]
	return h, ok
}

func (c *Context) SetHook(name string, h *whisker.Hook) {
	if _, exists := c.hooks[name]; !exists {
		c.hookOrder = append(c.hookOrder, name)
	}
	c.hooks[name] = h
}

func (c *Context) AllHookNames() []string {
	out := make([]string, len(c.hookOrder))
	copy(out, c.hookOrder)
	return out
}

var _ whisker.RuntimeContext = (*Context)(nil)

// Package list implements the LIST state-machine primitive (§4.9, §3):
// a named set of possible values with an active subset, enter/exit
// callbacks, bounded history and a lock flag.
//
// Grounded on the teacher's internal/interp "set.go" / "enum.go" ordered
// value-set runtime types (an enumerated possible-value set with ordinal
// lookups), adapted from DWScript's static enum/set types to a dynamic,
// host-configurable state machine with callbacks and history.
package list

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/writewhisker/whisker-script/internal/interperr"
)

// Callback is invoked when a state enters or exits the active set.
// Callback errors are sandboxed (§4.9): caught, reported via Sink, and
// never abort the transition.
type Callback func(state string)

// Sink receives reports of sandboxed callback errors and locked-mutation
// warnings (§4.9, §7's LockedMutation kind).
type Sink interface {
	Report(err error)
}

// NopSink discards everything reported to it; New installs it, and
// SetSink(nil) restores it.
type NopSink struct{}

func (NopSink) Report(error) {}

// Config holds the List's construction-time options (§3).
type Config struct {
	AllowUndefinedStates bool
	HistoryLimit         int // 0 means history tracking disabled
}

// List is the LIST state machine (§3, §4.9).
type List struct {
	Name       string
	InstanceID uuid.UUID // identifies this List across getState/restoreState round-trips (§4.9, §6)
	config     Config
	possible  *orderedSet
	active    *orderedSet
	callbacks map[string]stateCallbacks
	history   []string
	locked    bool
	sink      Sink
}

type stateCallbacks struct {
	onEnter Callback
	onExit  Callback
}

// New creates a List with the given possible values.
func New(name string, possible []string, cfg Config) *List {
	return &List{
		Name:       name,
		InstanceID: uuid.New(),
		config:     cfg,
		possible:   newOrderedSet(possible),
		active:     newOrderedSet(nil),
		callbacks:  make(map[string]stateCallbacks),
		sink:       NopSink{},
	}
}

// SetSink installs the callback-error/locked-mutation reporting sink.
func (l *List) SetSink(s Sink) {
	if s == nil {
		s = NopSink{}
	}
	l.sink = s
}

// OnEnter / OnExit register per-state transition callbacks.
func (l *List) OnEnter(state string, cb Callback) {
	c := l.callbacks[state]
	c.onEnter = cb
	l.callbacks[state] = c
}

func (l *List) OnExit(state string, cb Callback) {
	c := l.callbacks[state]
	c.onExit = cb
	l.callbacks[state] = c
}

func (l *List) fireEnter(state string) {
	if cb, ok := l.callbacks[state]; ok && cb.onEnter != nil {
		l.safeCall(cb.onEnter, state)
	}
}

func (l *List) fireExit(state string) {
	if cb, ok := l.callbacks[state]; ok && cb.onExit != nil {
		l.safeCall(cb.onExit, state)
	}
}

// safeCall sandboxes a single callback invocation: a panic or, more
// commonly in Go, simply relying on the callback never returning an
// error (Callback has no error return) — the sandbox boundary here
// recovers from a panicking callback so a misbehaving hook never aborts
// the transition (§4.9).
func (l *List) safeCall(cb Callback, state string) {
	defer func() {
		if r := recover(); r != nil {
			l.sink.Report(fmt.Errorf("list %s: callback for %s panicked: %v", l.Name, state, r))
		}
	}()
	cb(state)
}

func (l *List) recordHistory(state string) {
	if l.config.HistoryLimit <= 0 {
		return
	}
	l.history = append(l.history, state)
	if len(l.history) > l.config.HistoryLimit {
		l.history = l.history[len(l.history)-l.config.HistoryLimit:]
	}
}

func (l *List) checkLocked() bool {
	if l.locked {
		l.sink.Report(interperr.New(interperr.LockedMutation, "list %s is locked; mutation skipped", l.Name))
		return true
	}
	return false
}

// Add inserts state into the active set, firing on_enter. A no-op if
// already active or locked (§4.9).
func (l *List) Add(state string) error {
	if l.checkLocked() {
		return nil
	}
	if l.active.Contains(state) {
		return nil
	}
	if !l.config.AllowUndefinedStates && !l.possible.Contains(state) {
		return interperr.New(interperr.StateNameMismatch, "state %q is not a possible value of list %s", state, l.Name)
	}
	l.active.Add(state)
	l.recordHistory(state)
	l.fireEnter(state)
	return nil
}

// Remove removes state from the active set, firing on_exit (§4.9).
func (l *List) Remove(state string) error {
	if l.checkLocked() {
		return nil
	}
	if !l.active.Contains(state) {
		return nil
	}
	l.active.Remove(state)
	l.fireExit(state)
	return nil
}

// Toggle adds state if inactive, removes it if active.
func (l *List) Toggle(state string) error {
	if l.active.Contains(state) {
		return l.Remove(state)
	}
	return l.Add(state)
}

// Enter performs an exclusive-replacement transition: fires on_exit for
// every currently active state (in insertion order), clears the active
// set, inserts state, fires on_enter(state) (§4.9's enter/transitionTo).
func (l *List) Enter(state string) error {
	if l.checkLocked() {
		return nil
	}
	if !l.config.AllowUndefinedStates && !l.possible.Contains(state) {
		return interperr.New(interperr.StateNameMismatch, "state %q is not a possible value of list %s", state, l.Name)
	}
	for _, s := range l.active.Values() {
		l.fireExit(s)
	}
	l.active = newOrderedSet(nil)
	l.active.Add(state)
	l.recordHistory(state)
	l.fireEnter(state)
	return nil
}

// Set replaces the active set with states: removed states fire on_exit,
// added states fire on_enter (§4.9).
func (l *List) Set(states []string) error {
	if l.checkLocked() {
		return nil
	}
	if !l.config.AllowUndefinedStates {
		for _, s := range states {
			if !l.possible.Contains(s) {
				return interperr.New(interperr.StateNameMismatch, "state %q is not a possible value of list %s", s, l.Name)
			}
		}
	}
	next := newOrderedSet(states)
	for _, s := range l.active.Values() {
		if !next.Contains(s) {
			l.fireExit(s)
		}
	}
	for _, s := range states {
		if !l.active.Contains(s) {
			l.fireEnter(s)
			l.recordHistory(s)
		}
	}
	l.active = next
	return nil
}

// Reset / Clear empty the active set, firing on_exit for each (§4.9).
func (l *List) Reset() error {
	if l.checkLocked() {
		return nil
	}
	for _, s := range l.active.Values() {
		l.fireExit(s)
	}
	l.active = newOrderedSet(nil)
	return nil
}

func (l *List) Clear() error { return l.Reset() }

// Contains / IsSubsetOf / Equals / Count / IsEmpty query the active set.
func (l *List) Contains(state string) bool { return l.active.Contains(state) }

func (l *List) IsSubsetOf(other []string) bool {
	set := newOrderedSet(other)
	for _, s := range l.active.Values() {
		if !set.Contains(s) {
			return false
		}
	}
	return true
}

func (l *List) Equals(other []string) bool {
	set := newOrderedSet(other)
	if set.Len() != l.active.Len() {
		return false
	}
	return l.IsSubsetOf(other)
}

func (l *List) Count() int   { return l.active.Len() }
func (l *List) IsEmpty() bool { return l.active.Len() == 0 }

// IsAnyActive reports whether any of states is currently active.
func (l *List) IsAnyActive(states []string) bool {
	for _, s := range states {
		if l.active.Contains(s) {
			return true
		}
	}
	return false
}

// AreAllActive reports whether every one of states is currently active.
func (l *List) AreAllActive(states []string) bool {
	for _, s := range states {
		if !l.active.Contains(s) {
			return false
		}
	}
	return true
}

func (l *List) GetActiveValues() []string   { return l.active.Values() }
func (l *List) GetPossibleValues() []string { return l.possible.Values() }

// GetValue returns the first active state in insertion order, or "" if
// none is active (§4.9).
func (l *List) GetValue() string {
	vs := l.active.Values()
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// WithLock locks the list, runs fn, and restores the prior lock state
// even if fn panics (§4.9, §5, §8's round-trip property).
func (l *List) WithLock(fn func() error) (err error) {
	prev := l.locked
	l.locked = true
	defer func() {
		l.locked = prev
		if r := recover(); r != nil {
			err = fmt.Errorf("list %s: withLock callback panicked: %v", l.Name, r)
		}
	}()
	return fn()
}

// Locked reports the current lock state.
func (l *List) Locked() bool { return l.locked }

// Snapshot is the serializable round-trip shape for GetState/RestoreState
// (§3, §6, §8).
type Snapshot struct {
	InstanceID uuid.UUID
	Possible   []string
	Active     []string
	History    []string
}

// GetState captures the set of possible values, active values and (when
// history tracking is enabled) the history deque.
func (l *List) GetState() Snapshot {
	return Snapshot{
		InstanceID: l.InstanceID,
		Possible:   l.possible.Values(),
		Active:     l.active.Values(),
		History:    append([]string(nil), l.history...),
	}
}

// RestoreState round-trips a prior Snapshot (§8's round-trip property:
// restoreState(getState()) leaves possibleValues/activeValues/history
// equal). InstanceID is preserved rather than reassigned, since restoring
// a snapshot continues the same logical List instance.
func (l *List) RestoreState(s Snapshot) {
	l.InstanceID = s.InstanceID
	l.possible = newOrderedSet(s.Possible)
	l.active = newOrderedSet(s.Active)
	l.history = append([]string(nil), s.History...)
}

// orderedSet is an insertion-ordered string set.
type orderedSet struct {
	order []string
	seen  map[string]bool
}

func newOrderedSet(values []string) *orderedSet {
	s := &orderedSet{seen: make(map[string]bool)}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

func (s *orderedSet) Add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.order = append(s.order, v)
}

func (s *orderedSet) Remove(v string) {
	if !s.seen[v] {
		return
	}
	delete(s.seen, v)
	for i, x := range s.order {
		if x == v {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) Contains(v string) bool { return s.seen[v] }
func (s *orderedSet) Len() int               { return len(s.order) }
func (s *orderedSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

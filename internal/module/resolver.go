// Package module implements the module/include resolver (§4.10): path
// resolution relative to an including file, an include stack with
// circular-include detection, and a depth cap.
//
// Grounded on the teacher's unit-loading flow (`internal/interp` resolves
// `uses`-clause unit names against search paths before compilation); this
// package generalizes that same push/pop stack discipline to Whisker's
// `include` directive resolving a content path instead of a Pascal unit
// name.
package module

import (
	"path"
	"strings"

	"github.com/writewhisker/whisker-script/internal/interperr"
)

// Loader reads the source text at a resolved path. Hosts may back this
// with local disk, an embedded archive, or a network fetch; the resolver
// treats every call as atomic regardless of how long it blocks (§5).
type Loader interface {
	Load(resolvedPath string) (string, error)
}

// Include is the result of a successful load_include call (§4.10, §6).
type Include struct {
	Original string
	Resolved string
	Content  string
}

// State is the resolver's serializable state (§3, §6): the set of paths
// loaded so far and the current include stack.
type State struct {
	Loaded       []string `yaml:"loaded"`
	IncludeStack []string `yaml:"include_stack"`
}

// DefaultMaxDepth is the default include-stack depth cap (§4.10).
const DefaultMaxDepth = 50

// Resolver resolves and loads includes, detecting circular chains and
// enforcing a depth cap.
type Resolver struct {
	loader   Loader
	maxDepth int

	loaded map[string]bool
	stack  []string
}

// New returns a Resolver backed by loader with the default depth cap.
func New(loader Loader) *Resolver {
	return &Resolver{
		loader:   loader,
		maxDepth: DefaultMaxDepth,
		loaded:   make(map[string]bool),
	}
}

// SetMaxDepth overrides the include-stack depth cap.
func (r *Resolver) SetMaxDepth(n int) {
	r.maxDepth = n
}

// ResolvePath resolves includePath relative to includingFile's directory
// (§4.10): absolute paths are not re-rooted, only cleaned; `.`/`..` segments are
// normalized; forward slash is the canonical separator regardless of host
// OS, since story sources are authored cross-platform.
func ResolvePath(includingFile, includePath string) string {
	includePath = filepath2Slash(includePath)
	if path.IsAbs(includePath) {
		return path.Clean(includePath)
	}
	dir := path.Dir(filepath2Slash(includingFile))
	return path.Clean(path.Join(dir, includePath))
}

func filepath2Slash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// LoadInclude resolves includePath against includingFile and loads it,
// pushing the resolved path onto the include stack for the duration of the
// load and popping it on any exit path — success or error — so a caller
// that recovers from an error never observes a stack taller than it was on
// entry (§8's testable property).
func (r *Resolver) LoadInclude(includingFile, includePath string) (*Include, error) {
	resolved := ResolvePath(includingFile, includePath)

	for _, onStack := range r.stack {
		if onStack == resolved {
			chain := append(append([]string{}, r.stack...), resolved)
			return nil, interperr.New(interperr.CircularInclude, "circular include: %s", strings.Join(chain, ", "))
		}
	}
	if len(r.stack) >= r.maxDepth {
		return nil, interperr.New(interperr.IncludeDepthExceeded, "include depth exceeded %d at %s", r.maxDepth, resolved)
	}

	r.stack = append(r.stack, resolved)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	content, err := r.loader.Load(resolved)
	if err != nil {
		return nil, err
	}
	r.loaded[resolved] = true

	return &Include{Original: includePath, Resolved: resolved, Content: content}, nil
}

// GetState returns a serializable snapshot of the resolver's loaded-set and
// current include stack (§3, §6).
func (r *Resolver) GetState() State {
	loaded := make([]string, 0, len(r.loaded))
	for p := range r.loaded {
		loaded = append(loaded, p)
	}
	return State{
		Loaded:       loaded,
		IncludeStack: append([]string{}, r.stack...),
	}
}

// RestoreState replaces the resolver's loaded-set and include stack with s.
func (r *Resolver) RestoreState(s State) {
	r.loaded = make(map[string]bool, len(s.Loaded))
	for _, p := range s.Loaded {
		r.loaded[p] = true
	}
	r.stack = append([]string{}, s.IncludeStack...)
}

// IsLoaded reports whether resolvedPath has been loaded at least once.
func (r *Resolver) IsLoaded(resolvedPath string) bool {
	return r.loaded[resolvedPath]
}

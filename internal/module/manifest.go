package module

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/writewhisker/whisker-script/internal/interperr"
)

// Manifest is a passage's front-matter metadata block (§4.8's passage
// `metadata` field, §B's DOMAIN STACK wiring for yaml.v3): a YAML document
// delimited by `---` lines at the top of a `.wsk` story file, the same
// shape static-site generators use for page front matter.
type Manifest struct {
	ID    string            `yaml:"id"`
	Tags  []string          `yaml:"tags"`
	Extra map[string]string `yaml:"-"`
}

// SplitFrontMatter separates a leading `---\n...\n---\n` YAML block from
// the remaining passage body. It returns the raw body unchanged when no
// front-matter delimiter is present at the very start of src.
func SplitFrontMatter(src string) (yamlBlock, body string, hasFrontMatter bool) {
	const delim = "---"
	if !strings.HasPrefix(src, delim) {
		return "", src, false
	}
	rest := src[len(delim):]
	rest = strings.TrimPrefix(rest, "\n")
	end := strings.Index(rest, "\n"+delim)
	if end < 0 {
		return "", src, false
	}
	return rest[:end], strings.TrimPrefix(rest[end+1+len(delim):], "\n"), true
}

// ParseManifest decodes a passage's front-matter YAML block.
func ParseManifest(yamlBlock string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal([]byte(yamlBlock), &m); err != nil {
		return nil, interperr.New(interperr.Syntax, "invalid passage front matter: %s", err.Error())
	}
	return &m, nil
}

// MarshalState encodes the resolver's State as YAML for a persisted-session
// write-out (§6's "Persisted state" external interface).
func MarshalState(s State) ([]byte, error) {
	return yaml.Marshal(s)
}

// UnmarshalState decodes a persisted resolver State.
func UnmarshalState(data []byte) (State, error) {
	var s State
	if err := yaml.Unmarshal(data, &s); err != nil {
		return State{}, interperr.New(interperr.Syntax, "invalid persisted module state: %s", err.Error())
	}
	return s, nil
}

// Package knowledge provides the static intent table and the lexical matcher
// used when no model-generated reply is available.
package knowledge

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/ashureev/despacho-chat/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yaml
var embeddedKB []byte

var errNoDefaults = errors.New("knowledge base has no default responses")

// document is the on-disk shape of a knowledge base.
type document struct {
	Intents  []domain.Intent `yaml:"intents"`
	Defaults []string        `yaml:"defaults"`
}

// Base is an immutable collection of intents plus the generic fallback replies.
// It is built once at startup and is safe for concurrent readers.
type Base struct {
	intents  []domain.Intent
	defaults []string
}

// Default returns the knowledge base compiled into the binary.
func Default() (*Base, error) {
	return Parse(embeddedKB)
}

// LoadFile reads a knowledge base from a YAML file.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	kb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// Load returns the file at path when set, otherwise the embedded knowledge base.
func Load(path string) (*Base, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a YAML knowledge base.
func Parse(data []byte) (*Base, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}
	return New(doc.Intents, doc.Defaults)
}

// New builds a Base from intents in match order and the generic fallback replies.
func New(intents []domain.Intent, defaults []string) (*Base, error) {
	if len(defaults) == 0 {
		return nil, errNoDefaults
	}
	seen := make(map[string]bool, len(intents))
	b := &Base{
		intents:  make([]domain.Intent, 0, len(intents)),
		defaults: append([]string(nil), defaults...),
	}
	for i := range intents {
		in := intents[i]
		if err := in.Validate(); err != nil {
			return nil, err
		}
		if seen[in.Name] {
			return nil, fmt.Errorf("duplicate intent %q", in.Name)
		}
		seen[in.Name] = true
		b.intents = append(b.intents, domain.Intent{
			Name:      in.Name,
			Patterns:  append([]string(nil), in.Patterns...),
			Responses: append([]string(nil), in.Responses...),
		})
	}
	return b, nil
}

// Intents returns the intents in match order.
func (b *Base) Intents() []domain.Intent {
	out := make([]domain.Intent, len(b.intents))
	copy(out, b.intents)
	return out
}

// Defaults returns the generic fallback replies.
func (b *Base) Defaults() []string {
	return append([]string(nil), b.defaults...)
}

// Lookup returns the intent with the given name.
func (b *Base) Lookup(name string) (domain.Intent, bool) {
	for _, in := range b.intents {
		if in.Name == name {
			return in, true
		}
	}
	return domain.Intent{}, false
}

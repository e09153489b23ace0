package factory

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ModuleConfig selects a pluggable component by type name and carries its
// raw settings as they came out of the configuration file.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Builder turns raw settings into a ready component.
type Builder[T any] func(conf map[string]any) (T, error)

// Registry maps type names to builders. Implementations register themselves
// in package init; the wiring layer calls Build once the configuration is
// known.
type Registry[T any] struct {
	mu       sync.RWMutex
	builders map[string]Builder[T]
}

// NewRegistry returns a registry with no builders.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{builders: make(map[string]Builder[T])}
}

// Register binds a type name to its builder. A nil builder and a name
// already taken are both rejected.
func (r *Registry[T]) Register(name string, b Builder[T]) error {
	if b == nil {
		return fmt.Errorf("nil builder for type %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.builders[name]; dup {
		return fmt.Errorf("type %q registered twice", name)
	}
	r.builders[name] = b
	return nil
}

// Build looks up the builder for cfg.Type and runs it on cfg.Conf.
func (r *Registry[T]) Build(cfg ModuleConfig) (T, error) {
	r.mu.RLock()
	b := r.builders[cfg.Type]
	r.mu.RUnlock()
	if b == nil {
		var zero T
		return zero, fmt.Errorf("no builder for type %q", cfg.Type)
	}
	return b(cfg.Conf)
}

// DecodeConf maps raw settings onto a typed config struct, matching keys
// against json tags the same way the file loader does.
func DecodeConf(conf map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(conf)
}

package scenario

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrPluginNotFound is returned by Resolve when no plugin declared the
// requested scenario type. The caller treats it as a fatal configuration
// error: the run aborts before touching the cluster.
var ErrPluginNotFound = errors.New("scenario plugin not found")

// Registry maps scenario type strings to the Plugin handling them. It is
// populated once at startup and read-only afterwards; the mutex only guards
// against misuse during concurrent registration in tests.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]Plugin
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{plugins: make(map[string]Plugin)}
}

// Register adds a plugin under every scenario type it declares. Two plugins
// claiming the same type is a programming error and is rejected, matching the
// duplicate handling of the plugin loader this design derives from.
func (r *Registry) Register(p Plugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}
	types := p.ScenarioTypes()
	if len(types) == 0 {
		return fmt.Errorf("plugin %T declares no scenario types", p)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		if t == "" {
			return fmt.Errorf("plugin %T declares an empty scenario type", p)
		}
		if existing, ok := r.plugins[t]; ok {
			return fmt.Errorf("scenario type %q already registered by %T", t, existing)
		}
	}
	for _, t := range types {
		r.plugins[t] = p
	}
	return nil
}

// Resolve returns the plugin registered for the scenario type.
func (r *Registry) Resolve(scenarioType string) (Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plugins[scenarioType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrPluginNotFound, scenarioType)
	}
	return p, nil
}

// Types returns all registered scenario types, sorted for stable logging.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.plugins))
	for t := range r.plugins {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

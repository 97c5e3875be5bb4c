package plugin

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
)

// ErrDuplicate is returned when a plugin name is already registered.
var ErrDuplicate = errors.New("plugin: duplicate name")

// Binding is one handler of one plugin.
type Binding struct {
	Plugin   *Plugin
	Category Category
	Handler  Handler
}

// Registry holds plugins in registration order and indexes their handlers by
// category.
type Registry struct {
	mu      sync.RWMutex
	plugins []*Plugin
	byName  map[string]*Plugin
	index   map[Category][]Binding
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Plugin),
		index:  make(map[Category][]Binding),
	}
}

// Register adds p. Names must be non-empty and unique.
func (r *Registry) Register(p *Plugin) error {
	if p == nil || p.Name == "" {
		return errors.New("plugin: name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[p.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, p.Name)
	}
	r.plugins = append(r.plugins, p)
	r.byName[p.Name] = p

	// Map iteration order is random; index in sorted category order so
	// registration is deterministic.
	cats := p.Categories()
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	for _, c := range cats {
		if h := p.Handlers[c]; h != nil {
			r.index[c] = append(r.index[c], Binding{Plugin: p, Category: c, Handler: h})
		}
	}
	return nil
}

func (r *Registry) Get(name string) (*Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byName[name]
	return p, ok
}

// List returns plugins in registration order.
func (r *Registry) List() []*Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.plugins)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// Match returns the bindings subscribed to any of cats, grouped by plugin in
// registration order. Within a plugin, bindings follow the order of cats.
func (r *Registry) Match(cats []string) [][]Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	perPlugin := make(map[*Plugin][]Binding)
	for _, c := range cats {
		for _, b := range r.index[Category(c)] {
			perPlugin[b.Plugin] = append(perPlugin[b.Plugin], b)
		}
	}

	out := make([][]Binding, 0, len(perPlugin))
	for _, p := range r.plugins {
		if bs, ok := perPlugin[p]; ok {
			out = append(out, bs)
		}
	}
	return out
}

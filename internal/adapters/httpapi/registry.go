package httpapi

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/taskflow-cli/internal/querycache"
)

type Kind string

const (
	KindQuery    Kind = "query"
	KindMutation Kind = "mutation"
)

// Endpoint maps an operation name to its HTTP call and cache tags.
type Endpoint struct {
	Name        string
	Group       string
	Kind        Kind
	Method      string
	Path        func(args any) (string, error)
	Body        func(args any) (any, error)
	Provides    func(args any) []querycache.Tag
	Invalidates func(args any) []querycache.Tag

	// Public endpoints never carry the session bearer token.
	Public bool
}

func (e Endpoint) Descriptor(args any) (Descriptor, error) {
	if e.Path == nil {
		return Descriptor{}, fmt.Errorf("endpoint %s has no path", e.Name)
	}

	path, err := e.Path(args)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", e.Name, err)
	}

	desc := Descriptor{Method: e.Method, Path: path}
	if e.Body != nil {
		body, err := e.Body(args)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%s: %w", e.Name, err)
		}
		desc.Body = body
	}

	return desc, nil
}

func (e Endpoint) ProvidedTags(args any) []querycache.Tag {
	if e.Provides == nil {
		return nil
	}
	return e.Provides(args)
}

func (e Endpoint) InvalidatedTags(args any) []querycache.Tag {
	if e.Invalidates == nil {
		return nil
	}
	return e.Invalidates(args)
}

// Registry holds endpoint groups injected into one shared table.
type Registry struct {
	mu        sync.RWMutex
	endpoints map[string]Endpoint
	groups    map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		endpoints: make(map[string]Endpoint),
		groups:    make(map[string][]string),
	}
}

// NewDefaultRegistry returns a registry with the auth and task groups injected.
func NewDefaultRegistry() (*Registry, error) {
	r := NewRegistry()
	if err := r.Inject(GroupAuth, AuthEndpoints()...); err != nil {
		return nil, err
	}
	if err := r.Inject(GroupTasks, TaskEndpoints()...); err != nil {
		return nil, err
	}
	return r, nil
}

// Inject adds a group of endpoints. Nothing is added if any name is taken.
func (r *Registry) Inject(group string, endpoints ...Endpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		if e.Name == "" {
			return fmt.Errorf("endpoint in group %s has no name", group)
		}
		if _, exists := r.endpoints[e.Name]; exists {
			return fmt.Errorf("endpoint already registered: %s", e.Name)
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("endpoint registered twice in group %s: %s", group, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	for _, e := range endpoints {
		e.Group = group
		r.endpoints[e.Name] = e
		r.groups[group] = append(r.groups[group], e.Name)
	}

	return nil
}

func (r *Registry) Find(name string) (Endpoint, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.endpoints[name]
	return e, ok
}

// All returns every endpoint sorted by name.
func (r *Registry) All() []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.endpoints))
	for name := range r.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]Endpoint, len(names))
	for i, name := range names {
		result[i] = r.endpoints[name]
	}
	return result
}

// Group returns the endpoints of group in injection order.
func (r *Registry) Group(group string) []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.groups[group]
	result := make([]Endpoint, 0, len(names))
	for _, name := range names {
		result = append(result, r.endpoints[name])
	}
	return result
}

func (r *Registry) ProvidedTags(name string, args any) []querycache.Tag {
	e, ok := r.Find(name)
	if !ok {
		return nil
	}
	return e.ProvidedTags(args)
}

func (r *Registry) InvalidatedTags(name string, args any) []querycache.Tag {
	e, ok := r.Find(name)
	if !ok {
		return nil
	}
	return e.InvalidatedTags(args)
}

// Package registry maps node type identifiers and human-readable display
// names to factory functions that construct a fresh node instance with its
// default connector set — an explicit, reflection-free alternative to
// assembly scanning.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"workflow-core/graph"
)

// Factory builds a new node instance with its default connectors already
// attached.
type Factory func() (graph.Node, error)

// Descriptor is metadata about one registered node type, returned by
// Available for a UI or API consumer to list what can be created.
type Descriptor struct {
	TypeID      string `json:"typeId"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Registry holds factory callbacks keyed by type id, plus a
// case-insensitive display-name index onto the same ids.
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	descriptors  map[string]Descriptor
	displayNames map[string]string // lowercased display name -> type id
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		factories:    make(map[string]Factory),
		descriptors:  make(map[string]Descriptor),
		displayNames: make(map[string]string),
	}
}

// Register adds a node type under typeID and desc.DisplayName. A duplicate
// type id is ignored with a warning log, leaving the original factory in
// place; a duplicate display name overwrites the existing mapping with a
// warning.
func (r *Registry) Register(typeID string, desc Descriptor, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[typeID]; exists {
		slog.Warn("registry: duplicate type registration ignored", "typeId", typeID)
		return
	}

	r.factories[typeID] = factory
	desc.TypeID = typeID
	r.descriptors[typeID] = desc

	key := strings.ToLower(desc.DisplayName)
	if existing, exists := r.displayNames[key]; exists && existing != typeID {
		slog.Warn("registry: duplicate display name overwrites previous mapping",
			"displayName", desc.DisplayName, "previousTypeId", existing, "newTypeId", typeID)
	}
	r.displayNames[key] = typeID
}

// Create builds a new node instance of the given registered type id.
func (r *Registry) Create(typeID string) (graph.Node, error) {
	r.mu.RLock()
	factory, ok := r.factories[typeID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown node type %q", typeID)
	}
	return factory()
}

// CreateByDisplayName builds a new node instance looked up by its
// case-insensitive display name.
func (r *Registry) CreateByDisplayName(displayName string) (graph.Node, error) {
	r.mu.RLock()
	typeID, ok := r.displayNames[strings.ToLower(displayName)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("registry: unknown display name %q", displayName)
	}
	return r.Create(typeID)
}

// Available returns every registered type's descriptor, sorted by type id
// for deterministic output.
func (r *Registry) Available() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeID < out[j].TypeID })
	return out
}

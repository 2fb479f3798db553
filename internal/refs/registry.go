// Package refs implements the per-scope symbol table the builder consults
// before a reference is embedded in a relationship. Purely in-memory.
package refs

import (
	"sort"

	"github.com/aretw0/espalier/pkg/domain"
)

// Registry tracks the identities declared in one scope. Lookup walks the
// parent chain, so identities registered in enclosing scopes stay visible;
// registration and collision checks are local to one scope.
type Registry struct {
	parent  *Registry
	entries map[string]string // identity -> display name
}

// New creates a registry for a fresh scope. parent may be nil for the
// diagram scope.
func New(parent *Registry) *Registry {
	return &Registry{
		parent:  parent,
		entries: make(map[string]string),
	}
}

// Register records an identity in this scope. The display name is kept for
// error messages only.
func (r *Registry) Register(identity, display string) error {
	if prev, ok := r.entries[identity]; ok {
		return &domain.CollisionError{Identity: identity, Existing: prev}
	}
	r.entries[identity] = display
	return nil
}

// Unregister removes an identity recorded in this scope. Rolls back an
// open-time registration whose declaring scope was discarded.
func (r *Registry) Unregister(identity string) {
	delete(r.entries, identity)
}

// Validate checks that identity resolves in this scope chain or is one of
// the fixed global pseudo-identities. role labels the reference in the
// error, e.g. "source" or "target".
func (r *Registry) Validate(identity, role string) error {
	if domain.GlobalIdentity(identity) {
		return nil
	}
	for reg := r; reg != nil; reg = reg.parent {
		if _, ok := reg.entries[identity]; ok {
			return nil
		}
	}
	return &domain.UnresolvedReferenceError{
		Identity: identity,
		Role:     role,
		Known:    r.Known(),
	}
}

// Merge makes the identities of a closed child scope visible here, so an
// outer relationship can reference a state declared inside a nested block.
// Collisions are not re-checked: the child already checked its own siblings,
// and cross-scope shadowing is legal.
func (r *Registry) Merge(child *Registry) {
	for id, display := range child.entries {
		if _, ok := r.entries[id]; !ok {
			r.entries[id] = display
		}
	}
}

// Known returns every identity visible from this scope, sorted.
func (r *Registry) Known() []string {
	seen := make(map[string]struct{})
	for reg := r; reg != nil; reg = reg.parent {
		for id := range reg.entries {
			seen[id] = struct{}{}
		}
	}
	known := make([]string, 0, len(seen))
	for id := range seen {
		known = append(known, id)
	}
	sort.Strings(known)
	return known
}

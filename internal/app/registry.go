package app

import (
	"sync"
	"time"

	"blackjack/internal/domain"
)

// IDGenerator mints opaque unique identifiers.
type IDGenerator interface {
	NewID() string
}

// Table guards one match. Every read or write of the match goes through its lock.
type Table struct {
	id    string
	mu    sync.Mutex
	match *domain.Match
}

// ID returns the id of the guarded match.
func (t *Table) ID() string {
	return t.id
}

// Snapshot returns a deep copy of the match taken under the table lock.
func (t *Table) Snapshot() domain.Match {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.match.Clone()
}

// Registry owns the set of live matches, in creation order.
type Registry struct {
	mu     sync.RWMutex
	ids    IDGenerator
	now    func() time.Time
	order  []string
	tables map[string]*Table
}

// NewRegistry returns an empty registry that names matches with ids.
func NewRegistry(ids IDGenerator) *Registry {
	return &Registry{
		ids:    ids,
		now:    time.Now,
		tables: make(map[string]*Table),
	}
}

// List returns the live tables in creation order.
func (r *Registry) List() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Table, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.tables[id])
	}
	return out
}

// Find returns the table for id; ok is false when no such match exists.
func (r *Registry) Find(id string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	return t, ok
}

// Create stores a new empty in-progress match.
func (r *Registry) Create() *Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.freshIDLocked()
	return r.insertLocked(domain.NewMatch(id, r.now()))
}

// Adopt stores a match built by the caller under a fresh id. build runs with
// the registry lock held and must not call back into the registry.
func (r *Registry) Adopt(build func(id string, createdAt time.Time) (*domain.Match, error)) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, err := build(r.freshIDLocked(), r.now())
	if err != nil {
		return nil, err
	}
	return r.insertLocked(m), nil
}

// Remove deletes the match and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tables[id]; !ok {
		return false
	}
	delete(r.tables, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of live matches.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Clear drops every match.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.tables = make(map[string]*Table)
}

func (r *Registry) freshIDLocked() string {
	for {
		id := r.ids.NewID()
		if _, taken := r.tables[id]; !taken {
			return id
		}
	}
}

func (r *Registry) insertLocked(m *domain.Match) *Table {
	t := &Table{id: m.ID, match: m}
	r.tables[m.ID] = t
	r.order = append(r.order, m.ID)
	return t
}

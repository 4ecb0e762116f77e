// Package cache is the client's only shared mutable state: a read-through
// view cache over on-chain accounts. Views are replaced wholesale and
// invalidated as a unit. There is no partial patching, so no fine-grained
// locking beyond the store's own mutex is needed.
package cache

import (
	"sync"
	"time"
)

// Key identifies a cached view.
type Key string

// The cached views. Status derivation spans entities, so mutations invalidate
// every view their instruction could have reached, not just the one for the
// directly-touched account type.
const (
	KeyProjects      Key = "projects"
	KeyMyProjects    Key = "my-projects"
	KeyOpenProjects  Key = "open-projects"
	KeyProposals     Key = "proposals"
	KeyConversations Key = "conversations"
	KeyProfile       Key = "profile"
)

// Invalidator is the mutation-side interface: mark views stale after a
// successful instruction.
type Invalidator interface {
	Invalidate(keys ...Key)
}

type entry struct {
	value     any
	updatedAt time.Time
	stale     bool
}

// Store holds the cached views under a single-writer
// invalidate-then-refetch protocol.
type Store struct {
	mu      sync.RWMutex
	entries map[Key]entry
}

// NewStore creates an empty store; every view starts stale.
func NewStore() *Store {
	return &Store{entries: make(map[Key]entry)}
}

// Get returns the cached value for key. ok is false when the view has never
// been loaded or has been invalidated since.
func (s *Store) Get(key Key) (value any, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[key]
	if !exists || e.stale {
		return nil, false
	}
	return e.value, true
}

// Peek returns the cached value even if stale, for callers that prefer stale
// data over none while a refresh is in flight.
func (s *Store) Peek(key Key) (value any, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[key]
	if !exists {
		return nil, false
	}
	return e.value, true
}

// Put replaces a view wholesale and clears its stale mark.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{value: value, updatedAt: time.Now()}
}

// Invalidate marks the given views stale. Values are kept for Peek.
func (s *Store) Invalidate(keys ...Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		e := s.entries[key]
		e.stale = true
		s.entries[key] = e
	}
}

// IsStale reports whether a view needs a refetch.
func (s *Store) IsStale(key Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[key]
	return !exists || e.stale
}

// UpdatedAt returns the time of the last successful Put for key.
func (s *Store) UpdatedAt(key Key) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, exists := s.entries[key]
	if !exists {
		return time.Time{}, false
	}
	return e.updatedAt, true
}

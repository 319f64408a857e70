// Package baseline provides lookup of per-identity behavioral profiles.
// Profiles are produced by an external training process; the core only reads
// immutable snapshots of them.
package baseline

import (
	"sync"

	"github.com/vignesh3030-hub/cyber-omega/internal/types"
)

// Store is the keyed baseline lookup consumed by the scoring pipeline.
// Implementations must return defensive copies so a snapshot taken for one
// scoring call is unaffected by concurrent training updates.
type Store interface {
	// Get returns the baseline for the identity, or ok=false when none
	// exists. Absence is a valid state the caller must handle explicitly.
	Get(userID string) (types.UserBaseline, bool)
	// All returns a snapshot of every baseline, for the API/dashboard.
	All() []types.UserBaseline
}

// MemoryStore is an in-memory Store safe for concurrent readers and a
// concurrent external updater.
type MemoryStore struct {
	mu        sync.RWMutex
	baselines map[string]types.UserBaseline
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{baselines: make(map[string]types.UserBaseline)}
}

// Get returns a snapshot of the identity's baseline.
func (s *MemoryStore) Get(userID string) (types.UserBaseline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baselines[userID]
	if !ok {
		return types.UserBaseline{}, false
	}
	return b.Clone(), true
}

// All returns snapshots of every baseline.
func (s *MemoryStore) All() []types.UserBaseline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.UserBaseline, 0, len(s.baselines))
	for _, b := range s.baselines {
		out = append(out, b.Clone())
	}
	return out
}

// Put inserts or replaces a baseline. Called by the training collaborator,
// never by the scoring core.
func (s *MemoryStore) Put(b types.UserBaseline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.baselines[b.UserID] = b.Clone()
}

// Delete removes an identity's baseline.
func (s *MemoryStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.baselines, userID)
}

// Len returns the number of stored baselines.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.baselines)
}

// replaceAll swaps the full baseline set atomically (file reloads).
func (s *MemoryStore) replaceAll(baselines []types.UserBaseline) {
	next := make(map[string]types.UserBaseline, len(baselines))
	for _, b := range baselines {
		next[b.UserID] = b.Clone()
	}
	s.mu.Lock()
	s.baselines = next
	s.mu.Unlock()
}

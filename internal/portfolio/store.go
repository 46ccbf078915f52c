package portfolio

import (
	"fmt"
	"sync"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/model"
)

// Store holds the current set of positions in memory, in insertion order.
//
// It does not validate or recompute anything: callers hand it records and
// patches produced by the reconciler. The lock only makes concurrent readers
// safe; there is one logical writer.
type Store struct {
	mu        sync.RWMutex
	positions []model.Position
	index     map[string]int
}

// NewStore creates a store seeded with positions.
func NewStore(positions []model.Position) *Store {
	s := &Store{}
	s.Reset(positions)
	return s
}

// List returns a copy of all positions.
func (s *Store) List() []model.Position {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Len returns the number of stored positions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.positions)
}

// Get returns the position with the given id.
func (s *Store) Get(id string) (model.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
	}
	return s.positions[i], nil
}

// Insert appends p. An existing id is rejected.
func (s *Store) Insert(p model.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.index[p.ID]; ok {
		return fmt.Errorf("position %s already exists", p.ID)
	}
	s.index[p.ID] = len(s.positions)
	s.positions = append(s.positions, p)
	return nil
}

// Replace shallow-merges patch onto the stored record and returns the result.
func (s *Store) Replace(id string, patch model.PositionPatch) (model.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return model.Position{}, fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
	}
	s.positions[i] = s.positions[i].Merge(patch)
	return s.positions[i], nil
}

// Remove deletes the position with the given id.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return fmt.Errorf("%w: %s", apperrors.ErrPositionNotFound, id)
	}
	s.positions = append(s.positions[:i], s.positions[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.positions); j++ {
		s.index[s.positions[j].ID] = j
	}
	return nil
}

// Reset replaces the whole content with positions.
func (s *Store) Reset(positions []model.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.positions = make([]model.Position, len(positions))
	copy(s.positions, positions)
	s.index = make(map[string]int, len(positions))
	for i, p := range s.positions {
		s.index[p.ID] = i
	}
}

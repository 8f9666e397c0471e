// Package history persists moderation history entries. The store is
// append-only: there is no update or delete path, matching the audit
// character of the data.
package history

import (
	"context"
	"sync"

	"electorate/internal/moderation/models"
	"electorate/pkg/platform/sentinel"
)

// InMemory keeps history entries per election id in append order.
type InMemory struct {
	mu      sync.RWMutex
	entries map[string][]*models.Entry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[string][]*models.Entry)}
}

// Append adds an entry to the election's history.
func (s *InMemory) Append(ctx context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries[entry.ElectionID] = append(s.entries[entry.ElectionID], &cp)
	return nil
}

// Latest returns the most recent entry for an election, or
// sentinel.ErrNotFound when it has no history.
func (s *InMemory) Latest(ctx context.Context, electionID string) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[electionID]
	if len(entries) == 0 {
		return nil, sentinel.ErrNotFound
	}
	cp := *entries[len(entries)-1]
	return &cp, nil
}

// Exists reports whether the election has any history at all.
func (s *InMemory) Exists(ctx context.Context, electionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[electionID]) > 0, nil
}

// ListFor returns the election's full history, oldest first.
func (s *InMemory) ListFor(ctx context.Context, electionID string) ([]*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.entries[electionID]
	out := make([]*models.Entry, len(entries))
	for i, e := range entries {
		cp := *e
		out[i] = &cp
	}
	return out, nil
}

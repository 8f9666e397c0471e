// Package election persists the election tree. The in-memory store is the
// development and unit-test implementation; PostgresStore is production.
// Both enforce the same invariant: election_id is unique.
package election

import (
	"context"
	"sort"
	"sync"
	"time"

	"electorate/internal/elections/models"
	"electorate/pkg/platform/sentinel"
)

// InMemory keeps elections keyed by election id.
type InMemory struct {
	mu   sync.RWMutex
	rows map[string]*models.Election
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[string]*models.Election)}
}

// Create inserts a row. A row with the same election id already existing
// fails with sentinel.ErrConflict.
func (s *InMemory) Create(ctx context.Context, e *models.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[e.ElectionID]; ok {
		return sentinel.ErrConflict
	}
	cp := *e
	s.rows[e.ElectionID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, electionID string) (*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[electionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

// Children returns the rows whose group id is the given election id,
// ordered by election id.
func (s *InMemory) Children(ctx context.Context, electionID string) ([]*models.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Election
	for _, row := range s.rows {
		if row.GroupID == electionID {
			cp := *row
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ElectionID < out[j].ElectionID })
	return out, nil
}

// Descendants returns the row and everything beneath it, breadth-first.
func (s *InMemory) Descendants(ctx context.Context, electionID string) ([]*models.Election, error) {
	root, err := s.FindByID(ctx, electionID)
	if err != nil {
		return nil, err
	}
	out := []*models.Election{root}
	queue := []string{electionID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		children, err := s.Children(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			out = append(out, child)
			queue = append(queue, child.ElectionID)
		}
	}
	return out, nil
}

// SetCancelled flips the cancelled flag and records the reason.
func (s *InMemory) SetCancelled(ctx context.Context, electionID string, reason string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[electionID]
	if !ok {
		return sentinel.ErrNotFound
	}
	row.Cancelled = true
	row.CancellationReason = reason
	row.UpdatedAt = now
	return nil
}

// ListIDs returns every election id, ordered.
func (s *InMemory) ListIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.rows))
	for id := range s.rows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

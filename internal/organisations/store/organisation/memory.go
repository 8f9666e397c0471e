// Package organisation stores organisation validity windows.
package organisation

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"electorate/internal/organisations/models"
	"electorate/pkg/platform/sentinel"
)

// InMemory keeps organisation windows in process memory. It enforces the
// same non-overlap invariant as the Postgres exclusion constraint so unit
// tests exercise identical failure modes.
type InMemory struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*models.Organisation
}

func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[uuid.UUID]*models.Organisation)}
}

// Create inserts a new validity window. Returns sentinel.ErrOverlap when a
// window for the same key already covers any of the same dates.
func (s *InMemory) Create(ctx context.Context, org *models.Organisation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.rows {
		if existing.Key() == org.Key() && existing.Validity.Overlaps(org.Validity) {
			return sentinel.ErrOverlap
		}
	}
	cp := *org
	s.rows[org.ID] = &cp
	return nil
}

// FindByID returns one window by surrogate id.
func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.rows[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

// GetByDate returns the unique window for the key containing the date.
func (s *InMemory) GetByDate(ctx context.Context, key models.OrgKey, date time.Time) (*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.rows {
		if org.Key() == key && org.Validity.Contains(date) {
			cp := *org
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListByKey returns every window for a key, oldest first.
func (s *InMemory) ListByKey(ctx context.Context, key models.OrgKey) ([]*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Organisation
	for _, org := range s.rows {
		if org.Key() == key {
			cp := *org
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Validity.Start.Before(out[j].Validity.Start) })
	return out, nil
}

// LatestOpen returns the key's open-ended window, if any.
func (s *InMemory) LatestOpen(ctx context.Context, key models.OrgKey) (*models.Organisation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Organisation
	for _, org := range s.rows {
		if org.Key() == key && org.Validity.Open() {
			if latest == nil || org.Validity.Start.After(latest.Validity.Start) {
				latest = org
			}
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// SetEndDate closes a window. The caller is responsible for picking an end
// that keeps the key's windows disjoint; the store re-checks anyway.
func (s *InMemory) SetEndDate(ctx context.Context, id uuid.UUID, end time.Time, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.rows[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	candidate := org.Validity
	candidate.End = &end
	for _, other := range s.rows {
		if other.ID != id && other.Key() == org.Key() && other.Validity.Overlaps(candidate) {
			return sentinel.ErrOverlap
		}
	}
	org.Validity.End = &end
	org.UpdatedAt = now
	return nil
}

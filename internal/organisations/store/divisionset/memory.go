// Package divisionset stores versioned division sets and their divisions.
package divisionset

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"electorate/internal/organisations/models"
	"electorate/pkg/platform/sentinel"
)

// InMemory mirrors the Postgres store's invariants in process memory:
// windows for one organisation never overlap, and division slugs are
// unique within a set.
type InMemory struct {
	mu        sync.RWMutex
	sets      map[uuid.UUID]*models.DivisionSet
	divisions map[uuid.UUID]*models.Division
}

func NewInMemory() *InMemory {
	return &InMemory{
		sets:      make(map[uuid.UUID]*models.DivisionSet),
		divisions: make(map[uuid.UUID]*models.Division),
	}
}

// Create inserts a new division set window for an organisation.
func (s *InMemory) Create(ctx context.Context, set *models.DivisionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sets {
		if existing.OrganisationID == set.OrganisationID && existing.Validity.Overlaps(set.Validity) {
			return sentinel.ErrOverlap
		}
	}
	cp := *set
	s.sets[set.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, id uuid.UUID) (*models.DivisionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *set
	return &cp, nil
}

// GetByDate returns the organisation's division set whose window contains
// the date.
func (s *InMemory) GetByDate(ctx context.Context, organisationID uuid.UUID, date time.Time) (*models.DivisionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, set := range s.sets {
		if set.OrganisationID == organisationID && set.Validity.Contains(date) {
			cp := *set
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// LatestOpenBefore returns the organisation's newest open-ended window
// starting strictly before the given date. Used when closing the previous
// set as a successor opens.
func (s *InMemory) LatestOpenBefore(ctx context.Context, organisationID uuid.UUID, before time.Time) (*models.DivisionSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.DivisionSet
	for _, set := range s.sets {
		if set.OrganisationID != organisationID || !set.Validity.Open() {
			continue
		}
		if !set.Validity.Start.Before(before) {
			continue
		}
		if latest == nil || set.Validity.Start.After(latest.Validity.Start) {
			latest = set
		}
	}
	if latest == nil {
		return nil, sentinel.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

// SetEndDate closes a division set window.
func (s *InMemory) SetEndDate(ctx context.Context, id uuid.UUID, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	candidate := set.Validity
	candidate.End = &end
	for _, other := range s.sets {
		if other.ID != id && other.OrganisationID == set.OrganisationID && other.Validity.Overlaps(candidate) {
			return sentinel.ErrOverlap
		}
	}
	set.Validity.End = &end
	return nil
}

// AddDivision inserts a division into its set.
func (s *InMemory) AddDivision(ctx context.Context, div *models.Division) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[div.DivisionSetID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.divisions {
		if existing.DivisionSetID == div.DivisionSetID && existing.Slug == div.Slug {
			return sentinel.ErrConflict
		}
	}
	cp := *div
	s.divisions[div.ID] = &cp
	return nil
}

// DivisionBySlug finds one division within a set.
func (s *InMemory) DivisionBySlug(ctx context.Context, setID uuid.UUID, slug string) (*models.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, div := range s.divisions {
		if div.DivisionSetID == setID && div.Slug == slug {
			cp := *div
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// ListDivisions returns a set's divisions ordered by name.
func (s *InMemory) ListDivisions(ctx context.Context, setID uuid.UUID) ([]*models.Division, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Division
	for _, div := range s.divisions {
		if div.DivisionSetID == setID {
			cp := *div
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

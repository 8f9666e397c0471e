//go:build integration

package organisation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electorate/internal/organisations/models"
	"electorate/internal/organisations/store/organisation"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *organisation.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = organisation.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestOrg(identifier string, start time.Time) *models.Organisation {
	org, err := models.NewOrganisation(identifier, models.OrgTypeLocalAuthority,
		"Test Council", start, day(2016, 1, 1))
	if err != nil {
		panic(err)
	}
	return org
}

func (s *PostgresStoreSuite) TestExclusionConstraintRejectsOverlap() {
	ctx := context.Background()

	org := newTestOrg("TST", day(2016, 10, 1))
	s.Require().NoError(s.store.Create(ctx, org))

	overlapping := newTestOrg("TST", day(2017, 1, 1))
	err := s.store.Create(ctx, overlapping)
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrOverlap)

	// other keys are unaffected
	other := newTestOrg("OTH", day(2017, 1, 1))
	s.NoError(s.store.Create(ctx, other))
}

func (s *PostgresStoreSuite) TestHalfOpenWindowResolution() {
	ctx := context.Background()

	first := newTestOrg("TST", day(2016, 10, 1))
	end := day(2017, 10, 1)
	first.Validity.End = &end
	s.Require().NoError(s.store.Create(ctx, first))

	second := newTestOrg("TST", day(2017, 10, 2))
	s.Require().NoError(s.store.Create(ctx, second))

	key := first.Key()

	got, err := s.store.GetByDate(ctx, key, day(2016, 12, 1))
	s.Require().NoError(err)
	s.Equal(first.ID, got.ID)

	// end date is exclusive: the boundary day matches no window
	_, err = s.store.GetByDate(ctx, key, day(2017, 10, 1))
	s.ErrorIs(err, sentinel.ErrNotFound)

	got, err = s.store.GetByDate(ctx, key, day(2025, 1, 1))
	s.Require().NoError(err)
	s.Equal(second.ID, got.ID)
}

func (s *PostgresStoreSuite) TestSetEndDateReclosesWindow() {
	ctx := context.Background()

	org := newTestOrg("TST", day(2016, 10, 1))
	s.Require().NoError(s.store.Create(ctx, org))
	s.Require().NoError(s.store.SetEndDate(ctx, org.ID, day(2019, 3, 31), day(2019, 1, 1)))

	got, err := s.store.FindByID(ctx, org.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got.Validity.End)
	s.Equal(day(2019, 3, 31), *got.Validity.End)

	// a successor window starting at the old end no longer overlaps
	next := newTestOrg("TST", day(2019, 4, 1))
	s.NoError(s.store.Create(ctx, next))
}

// TestConcurrentOverlappingWrites verifies that racing inserts of the same
// window leave exactly one row.
func (s *PostgresStoreSuite) TestConcurrentOverlappingWrites() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, overlapCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newTestOrg("RACE", day(2016, 10, 1)))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrOverlap):
				overlapCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), overlapCount.Load())
}

//go:build integration

package divisionset_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electorate/internal/organisations/models"
	"electorate/internal/organisations/store/divisionset"
	"electorate/internal/organisations/store/organisation"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	orgs     *organisation.PostgresStore
	store    *divisionset.PostgresStore

	org *models.Organisation
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.orgs = organisation.NewPostgres(s.postgres.Pool)
	s.store = divisionset.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	org, err := models.NewOrganisation("TST", models.OrgTypeLocalAuthority,
		"Test Council", day(2004, 12, 2), day(2016, 1, 1))
	s.Require().NoError(err)
	s.Require().NoError(s.orgs.Create(ctx, org))
	s.org = org
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) newSet(start time.Time, end *time.Time) *models.DivisionSet {
	set := models.NewDivisionSet(s.org.ID, start, "", day(2016, 1, 1))
	set.Validity.End = end
	return set
}

func (s *PostgresStoreSuite) TestExclusionConstraintRejectsOverlap() {
	ctx := context.Background()

	s.Require().NoError(s.store.Create(ctx, s.newSet(day(2016, 10, 1), nil)))

	err := s.store.Create(ctx, s.newSet(day(2018, 1, 1), nil))
	s.ErrorIs(err, sentinel.ErrOverlap)
}

func (s *PostgresStoreSuite) TestGetByDateAndClose() {
	ctx := context.Background()

	set := s.newSet(day(2016, 10, 1), nil)
	s.Require().NoError(s.store.Create(ctx, set))

	got, err := s.store.GetByDate(ctx, s.org.ID, day(2020, 5, 7))
	s.Require().NoError(err)
	s.Equal(set.ID, got.ID)

	previous, err := s.store.LatestOpenBefore(ctx, s.org.ID, day(2021, 5, 6))
	s.Require().NoError(err)
	s.Equal(set.ID, previous.ID)

	s.Require().NoError(s.store.SetEndDate(ctx, set.ID, day(2021, 5, 5)))

	// end date is exclusive
	_, err = s.store.GetByDate(ctx, s.org.ID, day(2021, 5, 5))
	s.ErrorIs(err, sentinel.ErrNotFound)

	// the succeeding set now fits
	s.NoError(s.store.Create(ctx, s.newSet(day(2021, 5, 6), nil)))
}

func (s *PostgresStoreSuite) TestDivisionsUniquePerSet() {
	ctx := context.Background()

	set := s.newSet(day(2016, 10, 1), nil)
	s.Require().NoError(s.store.Create(ctx, set))

	div, err := models.NewDivision(set, "Central Ward", "TST:central-ward", "DIW", 3)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddDivision(ctx, div))

	dup, err := models.NewDivision(set, "Central Ward", "TST:central-ward-2", "DIW", 1)
	s.Require().NoError(err)
	s.ErrorIs(s.store.AddDivision(ctx, dup), sentinel.ErrConflict)

	got, err := s.store.DivisionBySlug(ctx, set.ID, "central-ward")
	s.Require().NoError(err)
	s.Equal(div.ID, got.ID)

	divisions, err := s.store.ListDivisions(ctx, set.ID)
	s.Require().NoError(err)
	s.Len(divisions, 1)
}

//go:build integration

package election_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electorate/internal/elections/models"
	"electorate/internal/elections/store/election"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *election.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = election.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func row(id, groupType, groupID string) *models.Election {
	now := day(2018, 1, 1)
	return &models.Election{
		ElectionID:   id,
		ElectionType: "local",
		PollOpenDate: day(2018, 5, 3),
		GroupType:    groupType,
		GroupID:      groupID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *PostgresStoreSuite) seedLadder() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, row("local.2018-05-03", models.GroupTypeElection, "")))
	s.Require().NoError(s.store.Create(ctx, row("local.test-council.2018-05-03", models.GroupTypeOrganisation, "local.2018-05-03")))
	s.Require().NoError(s.store.Create(ctx, row("local.test-council.central-ward.2018-05-03", "", "local.test-council.2018-05-03")))
	s.Require().NoError(s.store.Create(ctx, row("local.test-council.riverside-ward.2018-05-03", "", "local.test-council.2018-05-03")))
}

func (s *PostgresStoreSuite) TestUniqueElectionID() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, row("local.2018-05-03", models.GroupTypeElection, "")))

	err := s.store.Create(ctx, row("local.2018-05-03", models.GroupTypeElection, ""))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDescendantsWalksTree() {
	s.seedLadder()
	ctx := context.Background()

	rows, err := s.store.Descendants(ctx, "local.2018-05-03")
	s.Require().NoError(err)
	s.Require().Len(rows, 4)
	s.Equal("local.2018-05-03", rows[0].ElectionID)

	children, err := s.store.Children(ctx, "local.test-council.2018-05-03")
	s.Require().NoError(err)
	s.Len(children, 2)

	_, err = s.store.Descendants(ctx, "local.2099-05-03")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestSetCancelled() {
	s.seedLadder()
	ctx := context.Background()

	err := s.store.SetCancelled(ctx, "local.test-council.central-ward.2018-05-03",
		"candidate death", day(2018, 4, 20))
	s.Require().NoError(err)

	got, err := s.store.FindByID(ctx, "local.test-council.central-ward.2018-05-03")
	s.Require().NoError(err)
	s.True(got.Cancelled)
	s.Equal("candidate death", got.CancellationReason)

	s.ErrorIs(s.store.SetCancelled(ctx, "local.2099-05-03", "", day(2018, 4, 20)), sentinel.ErrNotFound)
}

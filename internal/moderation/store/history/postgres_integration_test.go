//go:build integration

package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	electionmodels "electorate/internal/elections/models"
	"electorate/internal/elections/store/election"
	"electorate/internal/moderation/models"
	"electorate/internal/moderation/store/history"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/testutil/containers"
)

const electionID = "local.2018-05-03"

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	elections *election.PostgresStore
	store     *history.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.elections = election.NewPostgres(s.postgres.Pool)
	s.store = history.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))

	now := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.elections.Create(ctx, &electionmodels.Election{
		ElectionID:   electionID,
		ElectionType: "local",
		PollOpenDate: time.Date(2018, 5, 3, 0, 0, 0, 0, time.UTC),
		GroupType:    electionmodels.GroupTypeElection,
		CreatedAt:    now,
		UpdatedAt:    now,
	}))
}

func (s *PostgresStoreSuite) TestAppendAndLatest() {
	ctx := context.Background()

	_, err := s.store.Latest(ctx, electionID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.store.Exists(ctx, electionID)
	s.Require().NoError(err)
	s.False(exists)

	base := time.Date(2018, 2, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Append(ctx,
		models.NewEntry(electionID, models.StatusSuggested, "system", "", base)))
	s.Require().NoError(s.store.Append(ctx,
		models.NewEntry(electionID, models.StatusApproved, "moderator@example.org", "", base.Add(time.Hour))))

	latest, err := s.store.Latest(ctx, electionID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, latest.Status)
	s.Equal("moderator@example.org", latest.Actor)

	exists, err = s.store.Exists(ctx, electionID)
	s.Require().NoError(err)
	s.True(exists)

	entries, err := s.store.ListFor(ctx, electionID)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.StatusSuggested, entries[0].Status)
	s.Equal(models.StatusApproved, entries[1].Status)
}

func (s *PostgresStoreSuite) TestAppendRejectsUnknownElection() {
	ctx := context.Background()
	err := s.store.Append(ctx,
		models.NewEntry("local.2099-05-03", models.StatusSuggested, "", "",
			time.Date(2018, 2, 1, 0, 0, 0, 0, time.UTC)))
	s.Require().Error(err)
}

//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"electorate/internal/organisations/models"
	"electorate/internal/organisations/store/organisation"
	"electorate/internal/platform/postgres"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/testutil/containers"
)

type RunnerSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	runner   *postgres.Runner
	store    *organisation.PostgresStore
}

func TestRunnerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RunnerSuite))
}

func (s *RunnerSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.runner = postgres.NewRunner(s.postgres.Pool)
	s.store = organisation.NewPostgres(s.postgres.Pool)
}

func (s *RunnerSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func newOrg(identifier string) *models.Organisation {
	start := time.Date(2016, 10, 1, 0, 0, 0, 0, time.UTC)
	org, err := models.NewOrganisation(identifier, models.OrgTypeLocalAuthority,
		"Test Council", start, start)
	if err != nil {
		panic(err)
	}
	return org
}

func (s *RunnerSuite) TestCommit() {
	ctx := context.Background()
	org := newOrg("TST")

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.Create(ctx, org)
	})
	s.Require().NoError(err)

	_, err = s.store.FindByID(ctx, org.ID)
	s.NoError(err)
}

// TestRollback verifies that a failure after a successful write inside the
// transaction leaves nothing behind.
func (s *RunnerSuite) TestRollback() {
	ctx := context.Background()
	org := newOrg("TST")
	boom := errors.New("boom")

	err := s.runner.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, org); err != nil {
			return err
		}
		return boom
	})
	s.Require().ErrorIs(err, boom)

	_, err = s.store.FindByID(ctx, org.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

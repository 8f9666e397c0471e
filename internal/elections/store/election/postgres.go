package election

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"electorate/internal/elections/models"
	"electorate/internal/platform/postgres"
)

// PostgresStore persists the election tree. election_id carries a unique
// constraint; duplicate inserts surface as sentinel.ErrConflict via
// TranslateError.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, s.pool)
}

const electionColumns = `election_id, election_type, subtype, poll_open_date,
	group_type, group_id, organisation_id, division_id,
	seats_contested, seats_total, cancelled, cancellation_reason,
	replaced_by, requires_voter_id, default_voting_system, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, e *models.Election) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO elections (`+electionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		e.ElectionID, e.ElectionType, e.Subtype, e.PollOpenDate,
		e.GroupType, e.GroupID, e.OrganisationID, e.DivisionID,
		e.SeatsContested, e.SeatsTotal, e.Cancelled, e.CancellationReason,
		e.ReplacedBy, e.RequiresVoterID, e.DefaultVotingSystem, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert election: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, electionID string) (*models.Election, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+electionColumns+` FROM elections WHERE election_id = $1`, electionID)
	return scanElection(row)
}

func (s *PostgresStore) Children(ctx context.Context, electionID string) ([]*models.Election, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+electionColumns+` FROM elections
		WHERE group_id = $1 ORDER BY election_id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", postgres.TranslateError(err))
	}
	return collect(rows)
}

// Descendants walks the tree under an election id with a recursive CTE,
// returning the row itself first.
func (s *PostgresStore) Descendants(ctx context.Context, electionID string) ([]*models.Election, error) {
	rows, err := s.q(ctx).Query(ctx, `
		WITH RECURSIVE tree AS (
			SELECT `+electionColumns+`, 0 AS depth FROM elections WHERE election_id = $1
			UNION ALL
			SELECT `+prefixed("e")+`, tree.depth + 1
			FROM elections e JOIN tree ON e.group_id = tree.election_id
		)
		SELECT `+electionColumns+` FROM tree ORDER BY depth, election_id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", postgres.TranslateError(err))
	}
	out, err := collect(rows)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, postgres.TranslateError(pgx.ErrNoRows)
	}
	return out, nil
}

func (s *PostgresStore) SetCancelled(ctx context.Context, electionID string, reason string, now time.Time) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE elections SET cancelled = TRUE, cancellation_reason = $2, updated_at = $3
		WHERE election_id = $1`,
		electionID, reason, now)
	if err != nil {
		return fmt.Errorf("cancel election: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return postgres.TranslateError(pgx.ErrNoRows)
	}
	return nil
}

func (s *PostgresStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.q(ctx).Query(ctx, `SELECT election_id FROM elections ORDER BY election_id`)
	if err != nil {
		return nil, fmt.Errorf("list election ids: %w", postgres.TranslateError(err))
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan election id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// prefixed qualifies every election column with a table alias for use in
// joins.
func prefixed(alias string) string {
	cols := []string{
		"election_id", "election_type", "subtype", "poll_open_date",
		"group_type", "group_id", "organisation_id", "division_id",
		"seats_contested", "seats_total", "cancelled", "cancellation_reason",
		"replaced_by", "requires_voter_id", "default_voting_system", "created_at", "updated_at",
	}
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += alias + "." + c
	}
	return out
}

func collect(rows pgx.Rows) ([]*models.Election, error) {
	defer rows.Close()
	var out []*models.Election
	for rows.Next() {
		e, err := scanElection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanElection(row pgx.Row) (*models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ElectionID, &e.ElectionType, &e.Subtype, &e.PollOpenDate,
		&e.GroupType, &e.GroupID, &e.OrganisationID, &e.DivisionID,
		&e.SeatsContested, &e.SeatsTotal, &e.Cancelled, &e.CancellationReason,
		&e.ReplacedBy, &e.RequiresVoterID, &e.DefaultVotingSystem, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan election: %w", postgres.TranslateError(err))
	}
	return &e, nil
}

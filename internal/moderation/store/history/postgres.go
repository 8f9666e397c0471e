package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"electorate/internal/moderation/models"
	"electorate/internal/platform/postgres"
)

// PostgresStore persists history entries. Ordering within an election is by
// (created_at, id): id breaks ties when two entries land in the same
// transaction with the same timestamp, as the approve cascade does.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, s.pool)
}

const historyColumns = `id, election_id, status, actor, notes, created_at`

func (s *PostgresStore) Append(ctx context.Context, entry *models.Entry) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO moderation_history (`+historyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ElectionID, entry.Status, entry.Actor, entry.Notes, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append history entry: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) Latest(ctx context.Context, electionID string) (*models.Entry, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+historyColumns+` FROM moderation_history
		WHERE election_id = $1
		ORDER BY created_at DESC, id DESC LIMIT 1`, electionID)
	return scanEntry(row)
}

func (s *PostgresStore) Exists(ctx context.Context, electionID string) (bool, error) {
	var exists bool
	err := s.q(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM moderation_history WHERE election_id = $1)`,
		electionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check history exists: %w", postgres.TranslateError(err))
	}
	return exists, nil
}

func (s *PostgresStore) ListFor(ctx context.Context, electionID string) ([]*models.Entry, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+historyColumns+` FROM moderation_history
		WHERE election_id = $1
		ORDER BY created_at, id`, electionID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", postgres.TranslateError(err))
	}
	defer rows.Close()

	var out []*models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func scanEntry(row pgx.Row) (*models.Entry, error) {
	var entry models.Entry
	err := row.Scan(
		&entry.ID, &entry.ElectionID, &entry.Status, &entry.Actor, &entry.Notes, &entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan history entry: %w", postgres.TranslateError(err))
	}
	return &entry, nil
}

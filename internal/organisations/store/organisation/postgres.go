package organisation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"electorate/internal/organisations/models"
	"electorate/internal/platform/postgres"
)

// PostgresStore persists organisation windows. Non-overlap is enforced by
// the organisations_no_overlap exclusion constraint (see migrations);
// violations surface as sentinel.ErrOverlap via TranslateError.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, s.pool)
}

const orgColumns = `id, official_identifier, organisation_type, organisation_subtype,
	official_name, common_name, slug, territory_code, election_name,
	start_date, end_date, legislation_url, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, org *models.Organisation) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO organisations (`+orgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		org.ID, org.OfficialIdentifier, org.OrganisationType, org.OrganisationSubtype,
		org.OfficialName, org.CommonName, org.Slug, org.TerritoryCode, org.ElectionName,
		org.Validity.Start, org.Validity.End, org.LegislationURL, org.CreatedAt, org.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert organisation: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+orgColumns+` FROM organisations WHERE id = $1`, id)
	return scanOrganisation(row)
}

func (s *PostgresStore) GetByDate(ctx context.Context, key models.OrgKey, date time.Time) (*models.Organisation, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+orgColumns+` FROM organisations
		WHERE organisation_type = $1 AND official_identifier = $2
		  AND start_date <= $3 AND (end_date IS NULL OR $3 < end_date)`,
		key.OrganisationType, key.OfficialIdentifier, date)
	return scanOrganisation(row)
}

func (s *PostgresStore) ListByKey(ctx context.Context, key models.OrgKey) ([]*models.Organisation, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+orgColumns+` FROM organisations
		WHERE organisation_type = $1 AND official_identifier = $2
		ORDER BY start_date`,
		key.OrganisationType, key.OfficialIdentifier)
	if err != nil {
		return nil, fmt.Errorf("list organisations: %w", postgres.TranslateError(err))
	}
	defer rows.Close()

	var out []*models.Organisation
	for rows.Next() {
		org, err := scanOrganisation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

func (s *PostgresStore) LatestOpen(ctx context.Context, key models.OrgKey) (*models.Organisation, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+orgColumns+` FROM organisations
		WHERE organisation_type = $1 AND official_identifier = $2 AND end_date IS NULL
		ORDER BY start_date DESC LIMIT 1`,
		key.OrganisationType, key.OfficialIdentifier)
	return scanOrganisation(row)
}

func (s *PostgresStore) SetEndDate(ctx context.Context, id uuid.UUID, end time.Time, now time.Time) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE organisations SET end_date = $2, updated_at = $3 WHERE id = $1`,
		id, end, now)
	if err != nil {
		return fmt.Errorf("set organisation end date: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return postgres.TranslateError(pgx.ErrNoRows)
	}
	return nil
}

func scanOrganisation(row pgx.Row) (*models.Organisation, error) {
	var org models.Organisation
	var end *time.Time
	err := row.Scan(
		&org.ID, &org.OfficialIdentifier, &org.OrganisationType, &org.OrganisationSubtype,
		&org.OfficialName, &org.CommonName, &org.Slug, &org.TerritoryCode, &org.ElectionName,
		&org.Validity.Start, &end, &org.LegislationURL, &org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan organisation: %w", postgres.TranslateError(err))
	}
	org.Validity.End = end
	return &org, nil
}

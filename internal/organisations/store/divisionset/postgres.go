package divisionset

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

// PostgresStore persists division sets and divisions. Window overlap for
// one organisation is rejected by the division_sets_no_overlap exclusion
// constraint.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFrom(ctx, s.pool)
}

const setColumns = `id, organisation_id, start_date, end_date, short_title,
	legislation_url, consultation_url, notes, created_at`

func (s *PostgresStore) Create(ctx context.Context, set *models.DivisionSet) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO organisation_division_sets (`+setColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		set.ID, set.OrganisationID, set.Validity.Start, set.Validity.End,
		set.ShortTitle, set.LegislationURL, set.ConsultationURL, set.Notes, set.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert division set: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.DivisionSet, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+setColumns+` FROM organisation_division_sets WHERE id = $1`, id)
	return scanSet(row)
}

func (s *PostgresStore) GetByDate(ctx context.Context, organisationID uuid.UUID, date time.Time) (*models.DivisionSet, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+setColumns+` FROM organisation_division_sets
		WHERE organisation_id = $1
		  AND start_date <= $2 AND (end_date IS NULL OR $2 < end_date)`,
		organisationID, date)
	return scanSet(row)
}

func (s *PostgresStore) LatestOpenBefore(ctx context.Context, organisationID uuid.UUID, before time.Time) (*models.DivisionSet, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+setColumns+` FROM organisation_division_sets
		WHERE organisation_id = $1 AND end_date IS NULL AND start_date < $2
		ORDER BY start_date DESC LIMIT 1`,
		organisationID, before)
	return scanSet(row)
}

func (s *PostgresStore) SetEndDate(ctx context.Context, id uuid.UUID, end time.Time) error {
	tag, err := s.q(ctx).Exec(ctx, `
		UPDATE organisation_division_sets SET end_date = $2 WHERE id = $1`, id, end)
	if err != nil {
		return fmt.Errorf("set division set end date: %w", postgres.TranslateError(err))
	}
	if tag.RowsAffected() == 0 {
		return postgres.TranslateError(pgx.ErrNoRows)
	}
	return nil
}

const divisionColumns = `id, organisation_id, division_set_id, name, official_identifier,
	slug, division_type, seats_total, seats_contested, territory_code, geography_id`

func (s *PostgresStore) AddDivision(ctx context.Context, div *models.Division) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO organisation_divisions (`+divisionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		div.ID, div.OrganisationID, div.DivisionSetID, div.Name, div.OfficialIdentifier,
		div.Slug, div.DivisionType, div.SeatsTotal, div.SeatsContested, div.TerritoryCode, div.GeographyID,
	)
	if err != nil {
		return fmt.Errorf("insert division: %w", postgres.TranslateError(err))
	}
	return nil
}

func (s *PostgresStore) DivisionBySlug(ctx context.Context, setID uuid.UUID, slug string) (*models.Division, error) {
	row := s.q(ctx).QueryRow(ctx, `
		SELECT `+divisionColumns+` FROM organisation_divisions
		WHERE division_set_id = $1 AND slug = $2`, setID, slug)
	return scanDivision(row)
}

func (s *PostgresStore) ListDivisions(ctx context.Context, setID uuid.UUID) ([]*models.Division, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+divisionColumns+` FROM organisation_divisions
		WHERE division_set_id = $1 ORDER BY name`, setID)
	if err != nil {
		return nil, fmt.Errorf("list divisions: %w", postgres.TranslateError(err))
	}
	defer rows.Close()

	var out []*models.Division
	for rows.Next() {
		div, err := scanDivision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, div)
	}
	return out, rows.Err()
}

func scanSet(row pgx.Row) (*models.DivisionSet, error) {
	var set models.DivisionSet
	var end *time.Time
	err := row.Scan(
		&set.ID, &set.OrganisationID, &set.Validity.Start, &end, &set.ShortTitle,
		&set.LegislationURL, &set.ConsultationURL, &set.Notes, &set.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan division set: %w", postgres.TranslateError(err))
	}
	set.Validity.End = end
	return &set, nil
}

func scanDivision(row pgx.Row) (*models.Division, error) {
	var div models.Division
	err := row.Scan(
		&div.ID, &div.OrganisationID, &div.DivisionSetID, &div.Name, &div.OfficialIdentifier,
		&div.Slug, &div.DivisionType, &div.SeatsTotal, &div.SeatsContested, &div.TerritoryCode, &div.GeographyID,
	)
	if err != nil {
		return nil, fmt.Errorf("scan division: %w", postgres.TranslateError(err))
	}
	return &div, nil
}

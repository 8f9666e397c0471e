// Package service orchestrates organisation and division set lifecycles:
// opening validity windows, superseding them, and resolving the single
// valid record for a date.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"electorate/internal/organisations/models"
	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/requestcontext"
)

// OrganisationStore persists organisation validity windows.
type OrganisationStore interface {
	Create(ctx context.Context, org *models.Organisation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	GetByDate(ctx context.Context, key models.OrgKey, date time.Time) (*models.Organisation, error)
	ListByKey(ctx context.Context, key models.OrgKey) ([]*models.Organisation, error)
	LatestOpen(ctx context.Context, key models.OrgKey) (*models.Organisation, error)
	SetEndDate(ctx context.Context, id uuid.UUID, end time.Time, now time.Time) error
}

// DivisionSetStore persists division set windows and their divisions.
type DivisionSetStore interface {
	Create(ctx context.Context, set *models.DivisionSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DivisionSet, error)
	GetByDate(ctx context.Context, organisationID uuid.UUID, date time.Time) (*models.DivisionSet, error)
	LatestOpenBefore(ctx context.Context, organisationID uuid.UUID, before time.Time) (*models.DivisionSet, error)
	SetEndDate(ctx context.Context, id uuid.UUID, end time.Time) error
	AddDivision(ctx context.Context, div *models.Division) error
	DivisionBySlug(ctx context.Context, setID uuid.UUID, slug string) (*models.Division, error)
	ListDivisions(ctx context.Context, setID uuid.UUID) ([]*models.Division, error)
}

// StoreTx runs a function inside one storage transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service is the temporal validity resolver for organisations and their
// division sets.
type Service struct {
	orgs   OrganisationStore
	sets   DivisionSetStore
	logger *slog.Logger
	tx     StoreTx
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func New(orgs OrganisationStore, sets DivisionSetStore, opts ...Option) *Service {
	s := &Service{orgs: orgs, sets: sets, logger: slog.Default(), tx: noopTx{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrganisation opens a new validity window. An overlapping window
// for the same (type, official identifier) key fails with
// CodeConstraintViolation.
func (s *Service) CreateOrganisation(ctx context.Context, org *models.Organisation) error {
	if err := s.orgs.Create(ctx, org); err != nil {
		return translateWindowErr(err, "organisation window")
	}
	return nil
}

// SupersedeOrganisation closes the key's open window at the day before the
// new window's start and opens the new one, in a single transaction. Used
// when boundaries change: the old row is never mutated beyond its end date.
func (s *Service) SupersedeOrganisation(ctx context.Context, next *models.Organisation) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		now := requestcontext.Now(ctx)
		current, err := s.orgs.LatestOpen(ctx, next.Key())
		switch {
		case err == nil:
			if !current.Validity.Start.Before(next.Validity.Start) {
				return dErrors.Newf(dErrors.CodeBadRequest,
					"new window must start after the current window (%s)", current.Validity)
			}
			end := next.Validity.Start.AddDate(0, 0, -1)
			if err := s.orgs.SetEndDate(ctx, current.ID, end, now); err != nil {
				return translateWindowErr(err, "close organisation window")
			}
		case errors.Is(err, sentinel.ErrNotFound):
			// nothing to close
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "find open organisation window")
		}

		if err := s.orgs.Create(ctx, next); err != nil {
			return translateWindowErr(err, "organisation window")
		}
		s.logger.InfoContext(ctx, "organisation superseded",
			"organisation_type", next.OrganisationType,
			"official_identifier", next.OfficialIdentifier,
			"start_date", next.Validity.Start.Format("2006-01-02"),
		)
		return nil
	})
}

// OrganisationByDate resolves the unique organisation window containing
// the date.
func (s *Service) OrganisationByDate(ctx context.Context, key models.OrgKey, date time.Time) (*models.Organisation, error) {
	org, err := s.orgs.GetByDate(ctx, key, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound,
				"no %s organisation %s valid on %s",
				key.OrganisationType, key.OfficialIdentifier, date.Format("2006-01-02"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve organisation by date")
	}
	return org, nil
}

// CreateDivisionSet opens a new division set window for an organisation.
// The window must sit inside the parent organisation's window.
func (s *Service) CreateDivisionSet(ctx context.Context, set *models.DivisionSet) error {
	org, err := s.orgs.FindByID(ctx, set.OrganisationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "organisation not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "find organisation")
	}
	if err := set.CheckWithinOrganisation(org); err != nil {
		return err
	}
	if err := s.sets.Create(ctx, set); err != nil {
		return translateWindowErr(err, "division set window")
	}
	return nil
}

// DivisionSetByDate resolves the unique division set window containing the
// date.
func (s *Service) DivisionSetByDate(ctx context.Context, organisationID uuid.UUID, date time.Time) (*models.DivisionSet, error) {
	set, err := s.sets.GetByDate(ctx, organisationID, date)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound,
				"no division set valid on %s", date.Format("2006-01-02"))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve division set by date")
	}
	return set, nil
}

// CloseCurrentDivisionSet is the explicit maintenance operation invoked
// when a succeeding division set has been created: it closes the newest
// open-ended window starting before newStart at newStart minus one day.
// Returns the closed set, or CodeNotFound when no open window predates
// newStart.
func (s *Service) CloseCurrentDivisionSet(ctx context.Context, organisationID uuid.UUID, newStart time.Time) (*models.DivisionSet, error) {
	var closed *models.DivisionSet
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		previous, err := s.sets.LatestOpenBefore(ctx, organisationID, newStart)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "no open division set to close")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "find open division set")
		}
		end := newStart.AddDate(0, 0, -1)
		if err := s.sets.SetEndDate(ctx, previous.ID, end); err != nil {
			return translateWindowErr(err, "close division set window")
		}
		previous.Validity.End = &end
		closed = previous
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "division set closed",
		"division_set_id", closed.ID,
		"end_date", closed.Validity.End.Format("2006-01-02"),
	)
	return closed, nil
}

// AddDivision inserts a division into a set.
func (s *Service) AddDivision(ctx context.Context, div *models.Division) error {
	if err := s.sets.AddDivision(ctx, div); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "division set not found")
		case errors.Is(err, sentinel.ErrConflict):
			return dErrors.Newf(dErrors.CodeConstraintViolation,
				"division %q already exists in this division set", div.Slug)
		default:
			return dErrors.Wrap(err, dErrors.CodeInternal, "add division")
		}
	}
	return nil
}

// DivisionForDate resolves a division by slug within the organisation's
// division set valid on the date, returning both.
func (s *Service) DivisionForDate(ctx context.Context, organisationID uuid.UUID, divisionSlug string, date time.Time) (*models.Division, *models.DivisionSet, error) {
	set, err := s.DivisionSetByDate(ctx, organisationID, date)
	if err != nil {
		return nil, nil, err
	}
	div, err := s.sets.DivisionBySlug(ctx, set.ID, divisionSlug)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.Newf(dErrors.CodeNotFound,
				"no division %q in division set valid on %s", divisionSlug, date.Format("2006-01-02"))
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "find division")
	}
	return div, set, nil
}

// translateWindowErr maps store sentinels onto coded domain errors, keeping
// overlap distinct from generic infrastructure failure.
func translateWindowErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrOverlap):
		return dErrors.Wrapf(err, dErrors.CodeConstraintViolation,
			"%s overlaps an existing window for the same key", what)
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrapf(err, dErrors.CodeConstraintViolation, "%s already exists", what)
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", what)
	default:
		return dErrors.Wrapf(err, dErrors.CodeInternal, "write %s", what)
	}
}

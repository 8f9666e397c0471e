// Package service orchestrates election id creation and lifecycle: writing
// the whole ladder atomically, seeding moderation history, and bulk
// cancellation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"electorate/internal/elections/builder"
	"electorate/internal/elections/metrics"
	"electorate/internal/elections/models"
	modmodels "electorate/internal/moderation/models"
	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/requestcontext"
)

// Store persists the election tree.
type Store interface {
	Create(ctx context.Context, e *models.Election) error
	FindByID(ctx context.Context, electionID string) (*models.Election, error)
	Children(ctx context.Context, electionID string) ([]*models.Election, error)
	Descendants(ctx context.Context, electionID string) ([]*models.Election, error)
	SetCancelled(ctx context.Context, electionID string, reason string, now time.Time) error
	ListIDs(ctx context.Context) ([]string, error)
}

// StatusSeeder records the initial moderation history entry for a newly
// created election.
type StatusSeeder interface {
	RecordInitial(ctx context.Context, electionID string) error
}

// StatusReader derives the current moderation status of an election.
type StatusReader interface {
	CurrentStatus(ctx context.Context, electionID string) (modmodels.Status, error)
}

// StoreTx runs a function inside one storage transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopSeeder struct{}

func (noopSeeder) RecordInitial(ctx context.Context, electionID string) error { return nil }

type Service struct {
	store    Store
	statuses StatusSeeder
	reader   StatusReader
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tx       StoreTx
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func WithStatusSeeder(seeder StatusSeeder) Option {
	return func(s *Service) { s.statuses = seeder }
}

func WithStatusReader(reader StatusReader) Option {
	return func(s *Service) { s.reader = reader }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, statuses: noopSeeder{}, logger: slog.Default(), tx: noopTx{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateIDs builds the ladder for the input and writes it in one
// transaction. Rows that already exist are returned as stored, so repeated
// calls with the same components converge on the same tree. Newly created
// rows get an initial moderation history entry.
func (s *Service) CreateIDs(ctx context.Context, in builder.Input) ([]*models.Election, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	rows, err := builder.Rows(in, now)
	if err != nil {
		return nil, err
	}

	var out []*models.Election
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		out = out[:0]
		for _, row := range rows {
			err := s.store.Create(ctx, row)
			switch {
			case err == nil:
				if err := s.statuses.RecordInitial(ctx, row.ElectionID); err != nil {
					return dErrors.Wrapf(err, dErrors.CodeInternal,
						"seed status for %s", row.ElectionID)
				}
				if s.metrics != nil {
					s.metrics.IncrementCreated(row.GroupType)
				}
				out = append(out, row)
			case errors.Is(err, sentinel.ErrConflict):
				existing, err := s.store.FindByID(ctx, row.ElectionID)
				if err != nil {
					return dErrors.Wrapf(err, dErrors.CodeInternal,
						"load existing %s", row.ElectionID)
				}
				out = append(out, existing)
			default:
				return dErrors.Wrapf(err, dErrors.CodeInternal,
					"create election %s", row.ElectionID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "election ids created",
		"ballot_id", out[len(out)-1].ElectionID,
		"rows", len(out),
	)
	if s.metrics != nil {
		s.metrics.ObserveCreateIDs(start)
	}
	return out, nil
}

// Get returns one election row.
func (s *Service) Get(ctx context.Context, electionID string) (*models.Election, error) {
	row, err := s.store.FindByID(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find election")
	}
	return row, nil
}

// Children returns the direct children of an election row.
func (s *Service) Children(ctx context.Context, electionID string) ([]*models.Election, error) {
	rows, err := s.store.Children(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list children")
	}
	return rows, nil
}

// Descendants returns an election row and everything beneath it.
func (s *Service) Descendants(ctx context.Context, electionID string) ([]*models.Election, error) {
	rows, err := s.store.Descendants(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list descendants")
	}
	return rows, nil
}

// BulkCancel cancels an election and every descendant in one transaction.
// Already-cancelled rows are skipped so the operation is safe to re-run.
func (s *Service) BulkCancel(ctx context.Context, electionID, reason string) (int, error) {
	now := requestcontext.Now(ctx)
	cancelled := 0
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		cancelled = 0
		rows, err := s.store.Descendants(ctx, electionID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "list descendants")
		}
		for _, row := range rows {
			if row.Cancelled {
				continue
			}
			if err := s.store.SetCancelled(ctx, row.ElectionID, reason, now); err != nil {
				return dErrors.Wrapf(err, dErrors.CodeInternal, "cancel %s", row.ElectionID)
			}
			if s.metrics != nil {
				s.metrics.IncrementCancelled()
			}
			cancelled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.InfoContext(ctx, "elections cancelled",
		"election_id", electionID,
		"cancelled", cancelled,
		"actor", requestcontext.Actor(ctx),
	)
	return cancelled, nil
}

// ListByStatus returns every election whose current moderation status
// matches status, in id order. Elections with no history yet are skipped.
func (s *Service) ListByStatus(ctx context.Context, status modmodels.Status) ([]*models.Election, error) {
	if s.reader == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "status reader not configured")
	}
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list election ids")
	}
	var out []*models.Election
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current, err := s.reader.CurrentStatus(ctx, id)
		if err != nil {
			if dErrors.HasCode(err, dErrors.CodeNotFound) {
				continue
			}
			return nil, err
		}
		if current != status {
			continue
		}
		row, err := s.store.FindByID(ctx, id)
		if err != nil {
			return nil, dErrors.Wrapf(err, dErrors.CodeInternal, "load election %s", id)
		}
		out = append(out, row)
	}
	return out, nil
}

// ListIDs returns every election id, ordered.
func (s *Service) ListIDs(ctx context.Context) ([]string, error) {
	ids, err := s.store.ListIDs(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list election ids")
	}
	return ids, nil
}

// Package service implements the moderation state machine over the
// append-only history store: recording transitions, the approve cascade,
// bulk soft deletes, and the hierarchy constraint check.
package service

import (
	"context"
	"errors"
	"log/slog"

	"electorate/internal/events"
	"electorate/internal/moderation/metrics"
	"electorate/internal/moderation/models"
	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/platform/sentinel"
	"electorate/pkg/requestcontext"
)

// ElectionRef is the slice of an election row the moderation rules need:
// identity, type, and position in the tree.
type ElectionRef struct {
	ElectionID   string
	ElectionType string
	GroupType    string
	GroupID      string
}

// ElectionDirectory resolves election rows and their children. Implemented
// by the elections module; declared here so moderation carries no import of
// it.
type ElectionDirectory interface {
	Get(ctx context.Context, electionID string) (ElectionRef, error)
	Children(ctx context.Context, electionID string) ([]ElectionRef, error)
}

// HistoryStore persists the append-only status history.
type HistoryStore interface {
	Append(ctx context.Context, entry *models.Entry) error
	Latest(ctx context.Context, electionID string) (*models.Entry, error)
	Exists(ctx context.Context, electionID string) (bool, error)
	ListFor(ctx context.Context, electionID string) ([]*models.Entry, error)
}

// StoreTx runs a function inside one storage transaction.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type noopTx struct{}

func (noopTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service applies the moderation rules.
type Service struct {
	history   HistoryStore
	directory ElectionDirectory
	notifier  events.Notifier
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tx        StoreTx

	// exempt group election types never need approved children: their
	// organisation rows are the ballots.
	exempt      map[string]bool
	eventSource string
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

func WithNotifier(n events.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithGroupExemptions replaces the default single-winner exemption set.
func WithGroupExemptions(electionTypes ...string) Option {
	return func(s *Service) {
		s.exempt = make(map[string]bool, len(electionTypes))
		for _, t := range electionTypes {
			s.exempt[t] = true
		}
	}
}

func WithEventSource(source string) Option {
	return func(s *Service) { s.eventSource = source }
}

func New(history HistoryStore, directory ElectionDirectory, opts ...Option) *Service {
	s := &Service{
		history:     history,
		directory:   directory,
		notifier:    events.Noop{},
		logger:      slog.Default(),
		tx:          noopTx{},
		exempt:      map[string]bool{"mayor": true, "pcc": true},
		eventSource: "electorate",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordInitial seeds a Suggested entry for a newly created election. It
// is a no-op when history already exists, so replayed creates stay clean.
func (s *Service) RecordInitial(ctx context.Context, electionID string) error {
	exists, err := s.history.Exists(ctx, electionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check history")
	}
	if exists {
		return nil
	}
	entry := models.NewEntry(electionID, models.StatusSuggested,
		requestcontext.Actor(ctx), "", requestcontext.Now(ctx))
	if err := s.history.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "append history")
	}
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.StatusSuggested))
	}
	return nil
}

// CurrentStatus derives an election's status from its latest history
// entry.
func (s *Service) CurrentStatus(ctx context.Context, electionID string) (models.Status, error) {
	latest, err := s.history.Latest(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Newf(dErrors.CodeNotFound,
				"election %s has no moderation history", electionID)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load latest status")
	}
	return latest.Status, nil
}

// History returns an election's full status history, oldest first.
func (s *Service) History(ctx context.Context, electionID string) ([]*models.Entry, error) {
	entries, err := s.history.ListFor(ctx, electionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list history")
	}
	return entries, nil
}

// RecordStatus validates and appends one transition in a transaction. A
// transition to Deleted emits an outbound event after commit; the event is
// advisory and its failure is only logged.
func (s *Service) RecordStatus(ctx context.Context, electionID string, status models.Status, notes string) (*models.Entry, error) {
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown status %q", status)
	}
	if _, err := s.directory.Get(ctx, electionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find election")
	}

	var entry *models.Entry
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.append(ctx, electionID, status, notes)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(status))
	}
	if status == models.StatusDeleted {
		s.emitDeleted(ctx, electionID)
	}
	return entry, nil
}

// append checks the transition against the latest entry and writes the new
// one. An election with no history can only become Suggested.
func (s *Service) append(ctx context.Context, electionID string, status models.Status, notes string) (*models.Entry, error) {
	latest, err := s.history.Latest(ctx, electionID)
	switch {
	case err == nil:
		if !latest.Status.CanTransitionTo(status) {
			return nil, dErrors.Newf(dErrors.CodeBadRequest,
				"election %s cannot move from %s to %s", electionID, latest.Status, status)
		}
	case errors.Is(err, sentinel.ErrNotFound):
		if status != models.StatusSuggested {
			return nil, dErrors.Newf(dErrors.CodeBadRequest,
				"election %s has no history and can only become %s", electionID, models.StatusSuggested)
		}
	default:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load latest status")
	}

	entry := models.NewEntry(electionID, status,
		requestcontext.Actor(ctx), notes, requestcontext.Now(ctx))
	if err := s.history.Append(ctx, entry); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "append history")
	}
	return entry, nil
}

// Approve applies the moderation queue's approve action: any unapproved
// ancestor is approved first, then the election itself, then the hierarchy
// constraints are re-checked. Everything happens in one transaction, so a
// constraint violation rolls the whole cascade back.
func (s *Service) Approve(ctx context.Context, electionID string) error {
	ref, err := s.directory.Get(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "find election")
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		chain, err := s.ancestors(ctx, ref)
		if err != nil {
			return err
		}
		// root first, so every append sees its parent already approved
		for i := len(chain) - 1; i >= 0; i-- {
			status, err := s.statusOf(ctx, chain[i].ElectionID)
			if err != nil {
				return err
			}
			if status == models.StatusApproved {
				continue
			}
			if _, err := s.append(ctx, chain[i].ElectionID, models.StatusApproved, "approved with descendant"); err != nil {
				return err
			}
		}
		if _, err := s.append(ctx, electionID, models.StatusApproved, ""); err != nil {
			return err
		}
		return s.checkConstraints(ctx, ref)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.StatusApproved))
	}
	s.logger.InfoContext(ctx, "election approved",
		"election_id", electionID,
		"actor", requestcontext.Actor(ctx),
	)
	return nil
}

// SoftDelete records Deleted for each election, one transaction per id,
// stopping between iterations when the context is cancelled. Failures are
// logged and skipped so one undeletable row does not block the batch.
func (s *Service) SoftDelete(ctx context.Context, electionIDs []string) (int, error) {
	deleted := 0
	for _, id := range electionIDs {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if _, err := s.RecordStatus(ctx, id, models.StatusDeleted, "soft deleted"); err != nil {
			s.logger.WarnContext(ctx, "soft delete skipped",
				"election_id", id,
				"error", err,
			)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// CheckConstraints validates one election against the hierarchy rules and
// reports the first violation. It never repairs anything.
func (s *Service) CheckConstraints(ctx context.Context, electionID string) error {
	ref, err := s.directory.Get(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "election %s not found", electionID)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "find election")
	}
	return s.checkConstraints(ctx, ref)
}

func (s *Service) checkConstraints(ctx context.Context, ref ElectionRef) error {
	exists, err := s.history.Exists(ctx, ref.ElectionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check history")
	}
	if !exists {
		return s.violation("Election %s has no related status objects", ref.ElectionID)
	}

	// the parent-chain rule applies only to approved elections; the
	// children rule below applies to every non-exempt group regardless
	// of its own status
	status, err := s.statusOf(ctx, ref.ElectionID)
	if err != nil {
		return err
	}
	if status == models.StatusApproved {
		chain, err := s.ancestors(ctx, ref)
		if err != nil {
			return err
		}
		for _, ancestor := range chain {
			ancestorStatus, err := s.statusOf(ctx, ancestor.ElectionID)
			if err != nil {
				return err
			}
			if ancestorStatus != models.StatusApproved {
				return s.violation("Election %s is approved but one or more parents are not approved", ref.ElectionID)
			}
		}
	}

	if ref.GroupType == "" || s.exempt[ref.ElectionType] {
		return nil
	}
	children, err := s.directory.Children(ctx, ref.ElectionID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "list children")
	}
	for _, child := range children {
		childStatus, err := s.statusOf(ctx, child.ElectionID)
		if err != nil {
			return err
		}
		if childStatus == models.StatusApproved {
			return nil
		}
	}
	return s.violation("Election %s is approved but has no approved children", ref.ElectionID)
}

func (s *Service) violation(format string, args ...any) error {
	if s.metrics != nil {
		s.metrics.IncrementViolation()
	}
	return dErrors.Newf(dErrors.CodeViolatedConstraint, format, args...)
}

// ancestors follows group links to the root, nearest parent first.
func (s *Service) ancestors(ctx context.Context, ref ElectionRef) ([]ElectionRef, error) {
	var chain []ElectionRef
	seen := map[string]bool{ref.ElectionID: true}
	for groupID := ref.GroupID; groupID != ""; {
		if seen[groupID] {
			return nil, dErrors.Newf(dErrors.CodeInternal, "group cycle at %s", groupID)
		}
		seen[groupID] = true
		parent, err := s.directory.Get(ctx, groupID)
		if err != nil {
			return nil, dErrors.Wrapf(err, dErrors.CodeInternal, "find parent %s", groupID)
		}
		chain = append(chain, parent)
		groupID = parent.GroupID
	}
	return chain, nil
}

// statusOf returns the latest status, or "" for an election with no
// history.
func (s *Service) statusOf(ctx context.Context, electionID string) (models.Status, error) {
	latest, err := s.history.Latest(ctx, electionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", nil
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load latest status")
	}
	return latest.Status, nil
}

func (s *Service) emitDeleted(ctx context.Context, electionID string) {
	ev := events.Event{
		Source:     s.eventSource,
		DetailType: "election-deleted",
		Detail: map[string]any{
			"election_id": electionID,
			"actor":       requestcontext.Actor(ctx),
		},
	}
	if err := s.notifier.Send(ctx, ev); err != nil {
		s.logger.ErrorContext(ctx, "delete event not sent",
			"election_id", electionID,
			"error", err,
		)
		return
	}
	if s.metrics != nil {
		s.metrics.IncrementEventEmitted()
	}
}

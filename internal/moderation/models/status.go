// Package models holds the moderation state machine: the statuses an
// election moves through and the append-only history that records every
// move.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is a moderation state. An election's current status is always the
// status of its latest history entry.
type Status string

const (
	StatusSuggested Status = "Suggested"
	StatusRejected  Status = "Rejected"
	StatusApproved  Status = "Approved"
	StatusDeleted   Status = "Deleted"
)

// transitions is the allowed-move table. Deleted is terminal. Approved to
// Approved is allowed so the ancestor cascade can re-approve idempotently.
var transitions = map[Status]map[Status]bool{
	StatusSuggested: {StatusRejected: true, StatusApproved: true},
	StatusRejected:  {StatusSuggested: true},
	StatusApproved:  {StatusApproved: true, StatusDeleted: true},
	StatusDeleted:   {},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	return transitions[s][next]
}

// Entry is one append-only history row. Entries are never updated or
// deleted; corrections are new entries.
type Entry struct {
	ID         uuid.UUID
	ElectionID string
	Status     Status
	Actor      string
	Notes      string
	CreatedAt  time.Time
}

// NewEntry constructs a history entry.
func NewEntry(electionID string, status Status, actor, notes string, now time.Time) *Entry {
	return &Entry{
		ID:         uuid.New(),
		ElectionID: electionID,
		Status:     status,
		Actor:      actor,
		Notes:      notes,
		CreatedAt:  now,
	}
}

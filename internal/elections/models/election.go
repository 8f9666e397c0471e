// Package models holds the election tree. Every row is identified by its
// election id string; parent links are id strings too, so the hierarchy is
// explicit in the data and survives export.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Group types, from least to most specific. A ballot has an empty group
// type except for single-winner types whose ballot doubles as the
// organisation group.
const (
	GroupTypeElection     = "election"
	GroupTypeSubtype      = "subtype"
	GroupTypeOrganisation = "organisation"
)

// Election is one node in the election tree: a group row or a ballot.
//
// Invariants:
//   - ElectionID is a pure function of (type, subtype, organisation,
//     division, contest type, date); two attempts to create the same
//     components collide on it
//   - GroupID names the parent row's election id, empty only at the root
//   - Moderation status is never stored here: it is derived from the
//     status history
type Election struct {
	ElectionID   string
	ElectionType string
	Subtype      string
	PollOpenDate time.Time

	GroupType string
	GroupID   string

	OrganisationID *uuid.UUID
	DivisionID     *uuid.UUID

	SeatsContested int
	SeatsTotal     int

	Cancelled           bool
	CancellationReason  string
	ReplacedBy          string
	RequiresVoterID     string
	DefaultVotingSystem string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsGroup reports whether the row groups other rows rather than naming a
// contest directly. Single-winner organisation rows are both.
func (e *Election) IsGroup() bool {
	return e.GroupType != ""
}

// IsBallot reports whether voters can actually vote in this row. The
// organisation-group rows of single-winner types count: their id is the
// ballot id.
func (e *Election) IsBallot() bool {
	return e.GroupType == "" || (e.GroupType == GroupTypeOrganisation && e.OrganisationID != nil && singleWinner[e.ElectionType])
}

var singleWinner = map[string]bool{"mayor": true, "pcc": true}

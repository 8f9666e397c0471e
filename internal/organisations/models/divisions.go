package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/slug"
)

// DivisionSet is one versioned collection of an organisation's divisions,
// valid for a bounded window. Boundary reviews create a new set; the old
// set keeps serving elections whose poll date falls inside its window.
//
// Invariants:
//   - Windows for the same organisation never overlap (store write path)
//   - A set's window sits inside its parent organisation's window
type DivisionSet struct {
	ID              uuid.UUID
	OrganisationID  uuid.UUID
	Validity        ValidityPeriod
	ShortTitle      string
	LegislationURL  string
	ConsultationURL string
	Notes           string
	CreatedAt       time.Time
}

// NewDivisionSet constructs a division set window for an organisation.
func NewDivisionSet(organisationID uuid.UUID, start time.Time, shortTitle string, now time.Time) *DivisionSet {
	return &DivisionSet{
		ID:             uuid.New(),
		OrganisationID: organisationID,
		Validity:       ValidityPeriod{Start: start},
		ShortTitle:     shortTitle,
		CreatedAt:      now,
	}
}

// CheckWithinOrganisation validates that the set's window sits inside the
// parent organisation's window.
func (ds *DivisionSet) CheckWithinOrganisation(org *Organisation) error {
	if ds.Validity.Start.Before(org.Validity.Start) {
		return dErrors.Newf(dErrors.CodeBadRequest,
			"start_date (%s) must be on or after parent organisation start_date (%s)",
			ds.Validity.Start.Format("2006-01-02"), org.Validity.Start.Format("2006-01-02"))
	}
	if ds.Validity.End != nil && org.Validity.End != nil && ds.Validity.End.After(*org.Validity.End) {
		return dErrors.Newf(dErrors.CodeBadRequest,
			"end_date (%s) must be on or before parent organisation end_date (%s)",
			ds.Validity.End.Format("2006-01-02"), org.Validity.End.Format("2006-01-02"))
	}
	return nil
}

// Division is the smallest electable unit: a ward, constituency or other
// sub-part of an organisation. It belongs to exactly one division set.
type Division struct {
	ID                 uuid.UUID
	OrganisationID     uuid.UUID
	DivisionSetID      uuid.UUID
	Name               string
	OfficialIdentifier string
	Slug               string
	DivisionType       string
	SeatsTotal         int
	SeatsContested     int
	TerritoryCode      string

	// GeographyID references the boundary store; only existence matters
	// here, never the geometry.
	GeographyID *uuid.UUID
}

// NewDivision validates and constructs a division inside a set.
func NewDivision(set *DivisionSet, name, officialIdentifier, divisionType string, seatsTotal int) (*Division, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "division name is required")
	}
	if seatsTotal < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "seats_total must not be negative")
	}
	return &Division{
		ID:                 uuid.New(),
		OrganisationID:     set.OrganisationID,
		DivisionSetID:      set.ID,
		Name:               name,
		OfficialIdentifier: officialIdentifier,
		Slug:               slug.Slugify(name),
		DivisionType:       divisionType,
		SeatsTotal:         seatsTotal,
	}, nil
}

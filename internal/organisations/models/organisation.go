// Package models holds the organisation aggregate: organisations that run
// elections, their versioned division sets, and the divisions within them.
package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/slug"
)

// Organisation types mirror the national reference data.
const (
	OrgTypeCombinedAuthority = "combined-authority"
	OrgTypeLocalAuthority    = "local-authority"
	OrgTypePoliceArea        = "police-area"
	OrgTypeSP                = "sp"
	OrgTypeGLA               = "gla"
	OrgTypeNAW               = "naw"
	OrgTypeSenedd            = "senedd"
	OrgTypeNIA               = "nia"
	OrgTypeParl              = "parl"
	OrgTypeEuroParl          = "europarl"
)

var orgTypes = map[string]bool{
	OrgTypeCombinedAuthority: true,
	OrgTypeLocalAuthority:    true,
	OrgTypePoliceArea:        true,
	OrgTypeSP:                true,
	OrgTypeGLA:               true,
	OrgTypeNAW:               true,
	OrgTypeSenedd:            true,
	OrgTypeNIA:               true,
	OrgTypeParl:              true,
	OrgTypeEuroParl:          true,
}

// OrgKey is the natural key validity windows hang off: the same
// organisation over time is many rows sharing one key.
type OrgKey struct {
	OrganisationType   string
	OfficialIdentifier string
}

// Organisation is one validity window of an organisation that can hold an
// election.
//
// Invariants:
//   - OfficialIdentifier and OrganisationType are non-empty; together with
//     the validity window they identify the row
//   - No two rows with the same OrgKey have overlapping windows (enforced
//     at the store write path)
//   - Rows are superseded, never mutated: a boundary change inserts a new
//     row with a later start date
type Organisation struct {
	ID                  uuid.UUID
	OfficialIdentifier  string
	OrganisationType    string
	OrganisationSubtype string
	OfficialName        string
	CommonName          string
	Slug                string
	TerritoryCode       string
	ElectionName        string
	Validity            ValidityPeriod
	LegislationURL      string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Name returns the best display name available.
func (o *Organisation) Name() string {
	if o.OfficialName != "" {
		return o.OfficialName
	}
	if o.CommonName != "" {
		return o.CommonName
	}
	return o.OfficialIdentifier
}

// Key returns the natural key the validity window belongs to.
func (o *Organisation) Key() OrgKey {
	return OrgKey{OrganisationType: o.OrganisationType, OfficialIdentifier: o.OfficialIdentifier}
}

// NewOrganisation validates and constructs an organisation window.
func NewOrganisation(officialIdentifier, organisationType, officialName string, start time.Time, now time.Time) (*Organisation, error) {
	if officialIdentifier == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "official identifier is required")
	}
	if !orgTypes[organisationType] {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "unknown organisation type %q", organisationType)
	}
	if start.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "start date is required")
	}
	return &Organisation{
		ID:                 uuid.New(),
		OfficialIdentifier: officialIdentifier,
		OrganisationType:   organisationType,
		OfficialName:       officialName,
		Slug:               slug.Slugify(officialName),
		Validity:           ValidityPeriod{Start: start},
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

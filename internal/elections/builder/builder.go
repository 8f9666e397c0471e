// Package builder turns a set of election components into the full row
// ladder: election group, optional subtype group, optional organisation
// group, ballot, with parent links wired.
package builder

import (
	"time"

	"electorate/internal/elections/models"
	"electorate/internal/identifiers"
	orgmodels "electorate/internal/organisations/models"
	dErrors "electorate/pkg/domain-errors"
)

// singleWinner types elect one person per organisation: their ballot id is
// the organisation group id and the two rows collapse into one.
var singleWinner = map[string]bool{"mayor": true, "pcc": true}

// Input is everything needed to build one ballot and its ancestor groups.
// Organisation, Division and DivisionSet are the already-resolved records
// for the poll date; the builder never loads data itself.
type Input struct {
	ElectionType string
	Subtype      string
	Date         time.Time
	ContestType  string

	Organisation *orgmodels.Organisation
	Division     *orgmodels.Division
	DivisionSet  *orgmodels.DivisionSet

	SeatsContested int
}

// Rows builds the ladder, least specific first. Each row's GroupID names
// the previous row; the first row's is empty.
func Rows(in Input, now time.Time) ([]*models.Election, error) {
	idb, err := identifiers.New(in.ElectionType, in.Date)
	if err != nil {
		return nil, err
	}
	spec, err := identifiers.TypeByCode(in.ElectionType)
	if err != nil {
		return nil, err
	}
	idb = idb.WithSubtype(in.Subtype).WithContestType(in.ContestType)

	// An organisation whose type is the election type adds no information
	// to the id: "parl" within the parliament, "gla" within the assembly.
	orgSegment := in.Organisation != nil && in.Organisation.OrganisationType != in.ElectionType
	if orgSegment {
		idb = idb.WithOrganisation(in.Organisation.Slug)
	}
	if in.Division != nil {
		if err := checkDivisionSet(in.DivisionSet, in.Date); err != nil {
			return nil, err
		}
		idb = idb.WithDivision(in.Division.Slug)
	}

	var (
		rows   []*models.Election
		parent string
	)
	add := func(id, groupType string, fill func(*models.Election)) {
		row := &models.Election{
			ElectionID:          id,
			ElectionType:        in.ElectionType,
			PollOpenDate:        in.Date,
			GroupType:           groupType,
			GroupID:             parent,
			DefaultVotingSystem: spec.DefaultVotingSystem,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if fill != nil {
			fill(row)
		}
		rows = append(rows, row)
		parent = id
	}

	electionGroup, err := idb.ElectionGroupID()
	if err != nil {
		return nil, err
	}
	add(electionGroup, models.GroupTypeElection, nil)

	if spec.HasSubtypes() {
		subtypeGroup, err := idb.SubtypeGroupID()
		if err != nil {
			return nil, err
		}
		add(subtypeGroup, models.GroupTypeSubtype, func(e *models.Election) {
			e.Subtype = in.Subtype
		})
	}

	if orgSegment && spec.CanHaveOrgs {
		orgGroup, err := idb.OrganisationGroupID()
		if err != nil {
			return nil, err
		}
		add(orgGroup, models.GroupTypeOrganisation, func(e *models.Election) {
			e.Subtype = in.Subtype
			e.OrganisationID = &in.Organisation.ID
		})
		if singleWinner[in.ElectionType] {
			// the organisation group is the ballot: fill in contest details
			ballot := rows[len(rows)-1]
			ballot.SeatsTotal = 1
			ballot.SeatsContested = 1
			return rows, nil
		}
	}

	ballotID, err := idb.BallotID()
	if err != nil {
		return nil, err
	}
	add(ballotID, "", func(e *models.Election) {
		e.Subtype = in.Subtype
		if in.Organisation != nil {
			e.OrganisationID = &in.Organisation.ID
		}
		if in.Division != nil {
			e.DivisionID = &in.Division.ID
			e.SeatsTotal = in.Division.SeatsTotal
		}
		e.SeatsContested = seatsContested(in)
	})
	return rows, nil
}

func seatsContested(in Input) int {
	if in.SeatsContested > 0 {
		return in.SeatsContested
	}
	if in.Division != nil {
		return in.Division.SeatsTotal
	}
	return 1
}

// checkDivisionSet rejects a division whose set's window has already closed
// by the poll date. A ballot must only ever reference boundaries that will
// be in force when the poll opens.
func checkDivisionSet(set *orgmodels.DivisionSet, date time.Time) error {
	if set == nil {
		return dErrors.New(dErrors.CodeDivisionSetDateMismatch,
			"division has no division set")
	}
	if set.Validity.End != nil && !date.Before(*set.Validity.End) {
		return dErrors.New(dErrors.CodeDivisionSetDateMismatch,
			"DivisionSet end date before election date")
	}
	if date.Before(set.Validity.Start) {
		return dErrors.New(dErrors.CodeDivisionSetDateMismatch,
			"DivisionSet start date after election date")
	}
	return nil
}

package builder_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electorate/internal/elections/builder"
	"electorate/internal/elections/models"
	orgmodels "electorate/internal/organisations/models"
	dErrors "electorate/pkg/domain-errors"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func testOrg(orgType, slug string) *orgmodels.Organisation {
	org, err := orgmodels.NewOrganisation("X01000001", orgType, slug, day(2004, 12, 2), day(2016, 1, 1))
	if err != nil {
		panic(err)
	}
	org.Slug = slug
	return org
}

func testDivision(org *orgmodels.Organisation, slug string, seats int, end *time.Time) (*orgmodels.Division, *orgmodels.DivisionSet) {
	set := orgmodels.NewDivisionSet(org.ID, day(2015, 1, 1), "", day(2015, 1, 1))
	set.Validity.End = end
	div := &orgmodels.Division{
		OrganisationID: org.ID,
		DivisionSetID:  set.ID,
		Name:           slug,
		Slug:           slug,
		SeatsTotal:     seats,
	}
	return div, set
}

func ids(rows []*models.Election) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ElectionID
	}
	return out
}

func TestRowsLocalBallot(t *testing.T) {
	org := testOrg(orgmodels.OrgTypeLocalAuthority, "test-council")
	div, set := testDivision(org, "central-ward", 3, nil)

	rows, err := builder.Rows(builder.Input{
		ElectionType: "local",
		Date:         day(2018, 5, 3),
		Organisation: org,
		Division:     div,
		DivisionSet:  set,
	}, day(2018, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"local.2018-05-03",
		"local.test-council.2018-05-03",
		"local.test-council.central-ward.2018-05-03",
	}, ids(rows))

	group, orgGroup, ballot := rows[0], rows[1], rows[2]
	assert.Equal(t, models.GroupTypeElection, group.GroupType)
	assert.Empty(t, group.GroupID)
	assert.Equal(t, models.GroupTypeOrganisation, orgGroup.GroupType)
	assert.Equal(t, group.ElectionID, orgGroup.GroupID)
	assert.Empty(t, ballot.GroupType)
	assert.Equal(t, orgGroup.ElectionID, ballot.GroupID)
	assert.Equal(t, 3, ballot.SeatsTotal)
	assert.Equal(t, 3, ballot.SeatsContested)
	assert.True(t, ballot.IsBallot())
	assert.False(t, orgGroup.IsBallot())
}

func TestRowsByElectionSeats(t *testing.T) {
	org := testOrg(orgmodels.OrgTypeLocalAuthority, "test-council")
	div, set := testDivision(org, "central-ward", 3, nil)

	rows, err := builder.Rows(builder.Input{
		ElectionType:   "local",
		Date:           day(2018, 11, 22),
		ContestType:    "by-election",
		Organisation:   org,
		Division:       div,
		DivisionSet:    set,
		SeatsContested: 1,
	}, day(2018, 1, 1))
	require.NoError(t, err)

	ballot := rows[len(rows)-1]
	assert.Equal(t, "local.test-council.central-ward.by.2018-11-22", ballot.ElectionID)
	assert.Equal(t, 1, ballot.SeatsContested)
	assert.Equal(t, 3, ballot.SeatsTotal)
}

func TestRowsMayorCollapsesOrganisationGroup(t *testing.T) {
	org := testOrg(orgmodels.OrgTypeCombinedAuthority, "greater-manchester-ca")

	rows, err := builder.Rows(builder.Input{
		ElectionType: "mayor",
		Date:         day(2017, 5, 4),
		Organisation: org,
	}, day(2017, 1, 1))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"mayor.2017-05-04",
		"mayor.greater-manchester-ca.2017-05-04",
	}, ids(rows))

	ballot := rows[1]
	assert.Equal(t, models.GroupTypeOrganisation, ballot.GroupType)
	assert.True(t, ballot.IsBallot())
	assert.Equal(t, 1, ballot.SeatsContested)
	assert.Equal(t, 1, ballot.SeatsTotal)
}

func TestRowsSubtypeLadder(t *testing.T) {
	org := testOrg(orgmodels.OrgTypeNAW, "naw")
	div, set := testDivision(org, "aberavon", 1, nil)

	rows, err := builder.Rows(builder.Input{
		ElectionType: "naw",
		Subtype:      "c",
		Date:         day(2016, 5, 5),
		Organisation: org,
		Division:     div,
		DivisionSet:  set,
	}, day(2016, 1, 1))
	require.NoError(t, err)

	// the organisation is the assembly itself so contributes no segment
	assert.Equal(t, []string{
		"naw.2016-05-05",
		"naw.c.2016-05-05",
		"naw.c.aberavon.2016-05-05",
	}, ids(rows))
	assert.Equal(t, models.GroupTypeSubtype, rows[1].GroupType)
	assert.Equal(t, "c", rows[2].Subtype)
	assert.Equal(t, rows[1].ElectionID, rows[2].GroupID)
}

func TestRowsRejectsClosedDivisionSet(t *testing.T) {
	org := testOrg(orgmodels.OrgTypeLocalAuthority, "test-council")
	div, set := testDivision(org, "central-ward", 3, dayPtr(2017, 10, 1))

	_, err := builder.Rows(builder.Input{
		ElectionType: "local",
		Date:         day(2018, 5, 3),
		Organisation: org,
		Division:     div,
		DivisionSet:  set,
	}, day(2018, 1, 1))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeDivisionSetDateMismatch))
	assert.Contains(t, err.Error(), "DivisionSet end date before election date")
}

func TestRowsRejectsMissingSubtype(t *testing.T) {
	_, err := builder.Rows(builder.Input{
		ElectionType: "sp",
		Date:         day(2016, 5, 5),
	}, day(2016, 1, 1))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidIdentifier))
}

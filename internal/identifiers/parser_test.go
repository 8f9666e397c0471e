package identifiers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "electorate/pkg/domain-errors"
)

func TestParse(t *testing.T) {
	cases := []struct {
		id   string
		want Components
	}{
		{"local.2018-05-03", Components{ElectionType: "local", Date: pollDate, GroupType: "election"}},
		{"local.test-org.2018-05-03", Components{ElectionType: "local", Organisation: "test-org", Date: pollDate, GroupType: "organisation"}},
		{"local.test-org.test-division.2018-05-03", Components{ElectionType: "local", Organisation: "test-org", Division: "test-division", Date: pollDate}},
		{"local.test-org.test-division.by.2018-05-03", Components{ElectionType: "local", Organisation: "test-org", Division: "test-division", ContestType: "by", Date: pollDate}},
		{"parl.test-division.2018-05-03", Components{ElectionType: "parl", Division: "test-division", Date: pollDate}},
		{"sp.2018-05-03", Components{ElectionType: "sp", Date: pollDate, GroupType: "election"}},
		{"sp.c.2018-05-03", Components{ElectionType: "sp", Subtype: "c", Date: pollDate, GroupType: "subtype"}},
		{"sp.c.glasgow-anniesland.2018-05-03", Components{ElectionType: "sp", Subtype: "c", Division: "glasgow-anniesland", Date: pollDate}},
		{"gla.a.2018-05-03", Components{ElectionType: "gla", Subtype: "a", Date: pollDate, GroupType: "subtype"}},
		{"mayor.2018-05-03", Components{ElectionType: "mayor", Date: pollDate, GroupType: "election"}},
		{"mayor.test-org.2018-05-03", Components{ElectionType: "mayor", Organisation: "test-org", Date: pollDate, GroupType: "organisation"}},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			got, err := Parse(tc.id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRejects(t *testing.T) {
	bad := []string{
		"",
		"local",
		"foo.2018-05-03",
		"eu.2019-05-23",
		"local.2018-05-32",
		"local.Test Org.2018-05-03",
		"parl.too.many.segments.2018-05-03",
		"sp.notasubtype.2018-05-03",
		"mayor.test-org.extra.2018-05-03",
		"local.test-org.by.2018-05-03",
		"parl.by.2018-05-03",
	}
	for _, id := range bad {
		t.Run(id, func(t *testing.T) {
			_, err := Parse(id)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidIdentifier))
		})
	}
}

// Round trip: everything the builder produces must parse back to the
// components it was built from.
func TestParseInvertsBuilder(t *testing.T) {
	t.Run("ballot with organisation and division", func(t *testing.T) {
		b, err := New("local", pollDate)
		require.NoError(t, err)
		id, err := b.WithOrganisation("Test Org").WithDivision("Test Division").BallotID()
		require.NoError(t, err)

		got, err := Parse(id)
		require.NoError(t, err)
		assert.Equal(t, "local", got.ElectionType)
		assert.Equal(t, "test-org", got.Organisation)
		assert.Equal(t, "test-division", got.Division)
		assert.Equal(t, pollDate, got.Date)
	})

	t.Run("by-election ballot", func(t *testing.T) {
		b, err := New("local", pollDate)
		require.NoError(t, err)
		id, err := b.WithOrganisation("test-org").WithDivision("test-division").WithContestType("by").BallotID()
		require.NoError(t, err)

		got, err := Parse(id)
		require.NoError(t, err)
		assert.Equal(t, "by", got.ContestType)
		assert.Equal(t, "test-division", got.Division)
	})

	t.Run("whole ladders", func(t *testing.T) {
		builders := []*Builder{}

		b, err := New("local", pollDate)
		require.NoError(t, err)
		builders = append(builders, b.WithOrganisation("test-org").WithDivision("test-division"))

		b, err = New("sp", pollDate)
		require.NoError(t, err)
		builders = append(builders, b.WithSubtype("r").WithDivision("test-region"))

		b, err = New("mayor", pollDate)
		require.NoError(t, err)
		builders = append(builders, b.WithOrganisation("test-org"))

		for _, b := range builders {
			for _, id := range b.IDs() {
				got, err := Parse(id)
				require.NoError(t, err, id)
				assert.Equal(t, id[:len(b.spec.Code)], got.ElectionType, id)
				assert.Equal(t, pollDate, got.Date, id)
			}
		}
	})
}

package identifiers

import (
	"strings"
	"time"

	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/slug"
)

// Components are the typed parts recovered from an identifier string.
// GroupType is the grouping level the id denotes: "election", "subtype",
// "organisation", or "" for a leaf ballot. For single-winner types
// (mayor, pcc) the most specific id doubles as the organisation group and
// GroupType is "organisation", matching how such rows are stored.
type Components struct {
	ElectionType string
	Subtype      string
	Organisation string
	Division     string
	ContestType  string
	Date         time.Time
	GroupType    string
}

// Parse splits an identifier back into its typed components, validating
// each segment against the type catalogue. It is the inverse of Builder for
// every id Builder can produce.
func Parse(id string) (Components, error) {
	segments := strings.Split(id, ".")
	if len(segments) < 2 {
		return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"identifier %q has too few segments", id)
	}

	spec, err := TypeByCode(segments[0])
	if err != nil {
		return Components{}, err
	}

	date, err := time.Parse(DateLayout, segments[len(segments)-1])
	if err != nil {
		return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"identifier %q does not end in a YYYY-MM-DD date", id)
	}

	c := Components{ElectionType: spec.Code, Date: date}
	middle := segments[1 : len(segments)-1]

	if spec.HasSubtypes() && len(middle) > 0 {
		if _, ok := spec.Subtype(middle[0]); ok {
			c.Subtype = middle[0]
			middle = middle[1:]
		} else {
			return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
				"identifier %q is missing a subtype for election_type %s", id, spec.Code)
		}
	}

	if len(middle) > 0 && middle[len(middle)-1] == "by" {
		c.ContestType = "by"
		middle = middle[:len(middle)-1]
	}

	for _, seg := range middle {
		if seg == "" || slug.Slugify(seg) != seg {
			return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
				"identifier %q contains non-slug segment %q", id, seg)
		}
	}

	canHaveDivs, _ := spec.canHaveDivs(c.Subtype)

	switch len(middle) {
	case 0:
		if c.ContestType != "" {
			return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
				"identifier %q marks a by-election without a contest segment", id)
		}
		if c.Subtype != "" {
			c.GroupType = "subtype"
		} else {
			c.GroupType = "election"
		}
	case 1:
		switch {
		case spec.CanHaveOrgs:
			c.Organisation = middle[0]
			if canHaveDivs && c.ContestType != "" {
				// a contest marker denotes a ballot, and ballots of
				// divisionable types always carry a division segment
				return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
					"identifier %q marks a by-election but has no division segment", id)
			}
			// either the organisation group of a divisionable type, or
			// the combined group/ballot row of a single-winner type
			// (mayor, pcc), which shares its id with the group
			c.GroupType = "organisation"
		case canHaveDivs:
			c.Division = middle[0]
		default:
			return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
				"election_type %s may not have a division", spec.Code)
		}
	case 2:
		if !spec.CanHaveOrgs || !canHaveDivs {
			return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
				"identifier %q has too many segments for election_type %s", id, spec.Code)
		}
		c.Organisation = middle[0]
		c.Division = middle[1]
	default:
		return Components{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"identifier %q has too many segments for election_type %s", id, spec.Code)
	}

	return c, nil
}

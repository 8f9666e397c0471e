// Package identifiers constructs and parses structured election
// identifiers like "local.place-name.2017-05-04".
//
// An identifier is the dot-joined sequence: election type, subtype (if the
// type has them), organisation slug (if the type elects per organisation),
// division slug (if the type elects per division), optional "by" contest
// marker, then the poll date as YYYY-MM-DD. Group identifiers omit the more
// specific segments.
package identifiers

import (
	"sort"

	dErrors "electorate/pkg/domain-errors"
)

// SubtypeSpec describes one subtype of an election type. CanHaveDivs is a
// pointer because most subtypes inherit the parent type's setting; gla
// overrides it per subtype.
type SubtypeSpec struct {
	Code        string
	Name        string
	CanHaveDivs *bool
}

// TypeSpec is the closed reference record for one election type. The
// catalogue is immutable compiled-in data, refreshed out-of-band by
// changing this file.
type TypeSpec struct {
	Code                string
	Name                string
	DefaultVotingSystem string
	Subtypes            []SubtypeSpec
	CanHaveOrgs         bool
	CanHaveDivs         bool
}

func boolPtr(b bool) *bool { return &b }

// catalogue lists every election type an identifier can be built for.
// "eu" and "ref" exist as types in the wider system but have no identifier
// rules, so they are rejected at build time rather than listed here.
var catalogue = map[string]TypeSpec{
	"parl": {
		Code:                "parl",
		Name:                "UK Parliament elections",
		DefaultVotingSystem: "FPTP",
		CanHaveOrgs:         false,
		CanHaveDivs:         true,
	},
	"nia": {
		Code:                "nia",
		Name:                "Northern Ireland Assembly elections",
		DefaultVotingSystem: "STV",
		CanHaveOrgs:         false,
		CanHaveDivs:         true,
	},
	"naw": {
		Code:                "naw",
		Name:                "Welsh Assembly elections",
		DefaultVotingSystem: "AMS",
		Subtypes: []SubtypeSpec{
			{Code: "c", Name: "Constituencies"},
			{Code: "r", Name: "Regions"},
		},
		CanHaveOrgs: false,
		CanHaveDivs: true,
	},
	"sp": {
		Code:                "sp",
		Name:                "Scottish Parliament elections",
		DefaultVotingSystem: "AMS",
		Subtypes: []SubtypeSpec{
			{Code: "c", Name: "Constituencies"},
			{Code: "r", Name: "Regions"},
		},
		CanHaveOrgs: false,
		CanHaveDivs: true,
	},
	"gla": {
		Code:                "gla",
		Name:                "Greater London Assembly elections",
		DefaultVotingSystem: "AMS",
		Subtypes: []SubtypeSpec{
			{Code: "c", Name: "Constituencies", CanHaveDivs: boolPtr(true)},
			{Code: "a", Name: "Additional", CanHaveDivs: boolPtr(false)},
		},
		CanHaveOrgs: false,
	},
	"local": {
		Code:                "local",
		Name:                "Local elections",
		DefaultVotingSystem: "FPTP",
		CanHaveOrgs:         true,
		CanHaveDivs:         true,
	},
	"pcc": {
		Code:                "pcc",
		Name:                "Police and Crime Commissioner elections",
		DefaultVotingSystem: "sv",
		CanHaveOrgs:         true,
		CanHaveDivs:         false,
	},
	"mayor": {
		Code:                "mayor",
		Name:                "Mayoral elections",
		DefaultVotingSystem: "sv",
		CanHaveOrgs:         true,
		CanHaveDivs:         false,
	},
}

// unsupported are catalogued in the wider system for display only; no
// identifier scheme is defined for them.
var unsupported = map[string]bool{"eu": true, "ref": true}

// Types returns the codes of every buildable election type in sorted
// order, for error messages and CLI output.
func Types() []string {
	codes := make([]string, 0, len(catalogue))
	for code := range catalogue {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TypeByCode returns the reference record for an election type code.
func TypeByCode(code string) (TypeSpec, error) {
	if unsupported[code] {
		return TypeSpec{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s has no identifier scheme", code)
	}
	spec, ok := catalogue[code]
	if !ok {
		return TypeSpec{}, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"unknown election_type %s", code)
	}
	return spec, nil
}

// HasSubtypes reports whether the type subdivides into subtypes.
func (s TypeSpec) HasSubtypes() bool { return len(s.Subtypes) > 0 }

// Subtype returns the subtype record for a code.
func (s TypeSpec) Subtype(code string) (SubtypeSpec, bool) {
	for _, sub := range s.Subtypes {
		if sub.Code == code {
			return sub, true
		}
	}
	return SubtypeSpec{}, false
}

// canHaveDivs resolves the division rule, honouring a per-subtype override.
// Fails when the rule is per-subtype and no valid subtype is set.
func (s TypeSpec) canHaveDivs(subtype string) (bool, error) {
	perSubtype := false
	for _, sub := range s.Subtypes {
		if sub.CanHaveDivs != nil {
			perSubtype = true
			break
		}
	}
	if !perSubtype {
		return s.CanHaveDivs, nil
	}
	sub, ok := s.Subtype(subtype)
	if !ok || sub.CanHaveDivs == nil {
		return false, dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s must have a valid subtype before setting a division", s.Code)
	}
	return *sub.CanHaveDivs, nil
}

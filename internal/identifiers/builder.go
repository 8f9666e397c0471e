package identifiers

import (
	"strings"
	"time"

	dErrors "electorate/pkg/domain-errors"
	"electorate/pkg/slug"
)

// DateLayout is the calendar date format used in identifiers.
const DateLayout = "2006-01-02"

// contestTypes are the accepted spellings for the contest type input. Only
// the by-election spellings add a "by" segment to the ballot id.
var contestTypes = map[string]bool{
	"by": true, "by election": true, "by-election": true, "election": true,
}

// Builder accumulates identifier components and produces the id ladder.
// With* methods record the first validation failure; every output method
// surfaces it. Construction is pure: the only data read besides the inputs
// is the compiled-in type catalogue.
type Builder struct {
	spec         TypeSpec
	date         string
	subtype      string
	organisation string
	division     string
	contestType  string
	err          error
}

// New starts a builder for an election type and poll date.
func New(electionType string, date time.Time) (*Builder, error) {
	spec, err := TypeByCode(electionType)
	if err != nil {
		return nil, err
	}
	return &Builder{spec: spec, date: date.Format(DateLayout)}, nil
}

// NewFromString is New with a YYYY-MM-DD date string.
func NewFromString(electionType, date string) (*Builder, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidIdentifier, "invalid date %q: expected YYYY-MM-DD", date)
	}
	return New(electionType, d)
}

func (b *Builder) fail(format string, args ...any) *Builder {
	if b.err == nil {
		b.err = dErrors.Newf(dErrors.CodeInvalidIdentifier, format, args...)
	}
	return b
}

// WithSubtype records the subtype segment.
func (b *Builder) WithSubtype(code string) *Builder {
	if !b.spec.HasSubtypes() {
		if code != "" {
			return b.fail("election_type %s may not have a subtype", b.spec.Code)
		}
		return b
	}
	if _, ok := b.spec.Subtype(code); !ok {
		return b.fail("allowed values for %s subtype are %s", b.spec.Code, b.subtypeCodes())
	}
	b.subtype = code
	return b
}

// WithOrganisation records the organisation segment. The name is slugified;
// passing an already-slugged value is fine since slugging is idempotent.
func (b *Builder) WithOrganisation(name string) *Builder {
	slugged := slug.Slugify(name)
	if !b.spec.CanHaveOrgs && slugged != "" {
		return b.fail("election_type %s may not have an organisation", b.spec.Code)
	}
	b.organisation = slugged
	return b
}

// WithDivision records the division segment.
func (b *Builder) WithDivision(name string) *Builder {
	slugged := slug.Slugify(name)
	canHaveDivs, err := b.spec.canHaveDivs(b.subtype)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	if !canHaveDivs && slugged != "" {
		return b.fail("election_type %s may not have a division", b.spec.Code)
	}
	b.division = slugged
	return b
}

// WithContestType records the contest type. By-elections add a "by" segment
// to the ballot id; scheduled elections add nothing.
func (b *Builder) WithContestType(contestType string) *Builder {
	if contestType == "" {
		return b
	}
	lowered := strings.ToLower(contestType)
	if !contestTypes[lowered] {
		return b.fail("allowed values for contest_type are by, by election, by-election, election")
	}
	if lowered != "election" {
		b.contestType = "by"
	}
	return b
}

func (b *Builder) subtypeCodes() string {
	codes := make([]string, len(b.spec.Subtypes))
	for i, sub := range b.spec.Subtypes {
		codes[i] = sub.Code
	}
	return strings.Join(codes, ", ")
}

// validate runs the checks required for any identifier.
func (b *Builder) validate() error {
	if b.err != nil {
		return b.err
	}
	if b.spec.CanHaveOrgs && b.organisation == "" && b.division != "" {
		return dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s must have an organisation in order to have a division", b.spec.Code)
	}
	return nil
}

func (b *Builder) requireSubtype() error {
	if b.spec.HasSubtypes() && b.subtype == "" {
		return dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"subtype must be specified for election_type %s", b.spec.Code)
	}
	return nil
}

// ElectionGroupID returns the top-level group id: type.date.
func (b *Builder) ElectionGroupID() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	return b.spec.Code + "." + b.date, nil
}

// SubtypeGroupID returns the subtype group id: type.subtype.date.
func (b *Builder) SubtypeGroupID() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	if !b.spec.HasSubtypes() {
		return "", dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"can't create subtype id for election_type %s", b.spec.Code)
	}
	if err := b.requireSubtype(); err != nil {
		return "", err
	}
	return strings.Join([]string{b.spec.Code, b.subtype, b.date}, "."), nil
}

// OrganisationGroupID returns the organisation group id:
// type[.subtype].organisation.date.
func (b *Builder) OrganisationGroupID() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	if err := b.requireSubtype(); err != nil {
		return "", err
	}
	if !b.spec.CanHaveOrgs {
		return "", dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s can not have an organisation group id", b.spec.Code)
	}
	if b.organisation == "" {
		return "", dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s must have an organisation in order to create an organisation group id", b.spec.Code)
	}
	parts := []string{b.spec.Code}
	if b.subtype != "" {
		parts = append(parts, b.subtype)
	}
	parts = append(parts, b.organisation, b.date)
	return strings.Join(parts, "."), nil
}

// BallotID returns the most specific id:
// type[.subtype][.organisation][.division][.by].date.
func (b *Builder) BallotID() (string, error) {
	if err := b.validate(); err != nil {
		return "", err
	}
	if err := b.requireSubtype(); err != nil {
		return "", err
	}
	if b.spec.CanHaveOrgs && b.organisation == "" {
		return "", dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s must have an organisation in order to create a ballot id", b.spec.Code)
	}
	canHaveDivs, err := b.spec.canHaveDivs(b.subtype)
	if err != nil {
		return "", err
	}
	if canHaveDivs && b.division == "" {
		return "", dErrors.Newf(dErrors.CodeInvalidIdentifier,
			"election_type %s must have a division in order to create a ballot id", b.spec.Code)
	}
	parts := []string{b.spec.Code}
	if b.subtype != "" {
		parts = append(parts, b.subtype)
	}
	if b.organisation != "" {
		parts = append(parts, b.organisation)
	}
	if b.division != "" {
		parts = append(parts, b.division)
	}
	if b.contestType != "" {
		parts = append(parts, b.contestType)
	}
	parts = append(parts, b.date)
	return strings.Join(parts, "."), nil
}

// IDs returns every id in the ladder that is valid for the accumulated
// components, from least to most specific, deduplicated. For single-winner
// types like mayor the ballot id equals the organisation group id and
// appears once.
func (b *Builder) IDs() []string {
	var ids []string
	if id, err := b.ElectionGroupID(); err == nil {
		ids = append(ids, id)
	}
	if b.spec.HasSubtypes() {
		if id, err := b.SubtypeGroupID(); err == nil {
			ids = append(ids, id)
		}
	}
	if b.spec.CanHaveOrgs {
		if id, err := b.OrganisationGroupID(); err == nil {
			ids = append(ids, id)
		}
	}
	if id, err := b.BallotID(); err == nil {
		seen := false
		for _, existing := range ids {
			if existing == id {
				seen = true
				break
			}
		}
		if !seen {
			ids = append(ids, id)
		}
	}
	return ids
}

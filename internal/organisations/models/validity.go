package models

import "time"

// ValidityPeriod is a half-open [Start, End) calendar window. End == nil
// means the window is open-ended (still current). Dates are date-only; the
// time-of-day component is ignored by convention (callers pass midnight UTC).
type ValidityPeriod struct {
	Start time.Time
	End   *time.Time
}

// Contains reports whether d falls inside the window:
// Start <= d, and d < End when the window is closed.
func (p ValidityPeriod) Contains(d time.Time) bool {
	if d.Before(p.Start) {
		return false
	}
	return p.End == nil || d.Before(*p.End)
}

// Overlaps reports whether two windows share any date. Open ends extend to
// infinity.
func (p ValidityPeriod) Overlaps(o ValidityPeriod) bool {
	startsBeforeOtherEnds := o.End == nil || p.Start.Before(*o.End)
	otherStartsBeforeEnds := p.End == nil || o.Start.Before(*p.End)
	return startsBeforeOtherEnds && otherStartsBeforeEnds
}

// Open reports whether the window has no end date.
func (p ValidityPeriod) Open() bool { return p.End == nil }

// String renders the window for logs and error messages.
func (p ValidityPeriod) String() string {
	const layout = "2006-01-02"
	if p.End == nil {
		return p.Start.Format(layout) + " onwards"
	}
	return p.Start.Format(layout) + " to " + p.End.Format(layout)
}

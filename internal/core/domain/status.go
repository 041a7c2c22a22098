package domain

import "slices"

// Disposition is the final state a ticket is counted under.
type Disposition string

const (
	DispositionOpen     Disposition = "open"
	DispositionResolved Disposition = "resolved"
	DispositionInvalid  Disposition = "invalid"
)

// StatusCategories maps raw tracker statuses onto dispositions. Matching is
// exact, so every spelling the tracker emits has to be listed.
type StatusCategories struct {
	Resolved []string
	Invalid  []string
	Reopen   []string
}

// DefaultStatusCategories returns the status spellings used by the JIRA export.
func DefaultStatusCategories() StatusCategories {
	return StatusCategories{
		Resolved: []string{"Done", "RESOLVE", "Resolve", "Done.", "DONE", "Closed"},
		Invalid:  []string{"Invalid"},
		Reopen:   []string{"Reopened", "REOPEN"},
	}
}

func (c StatusCategories) IsResolved(status string) bool {
	return slices.Contains(c.Resolved, status)
}

func (c StatusCategories) IsInvalid(status string) bool {
	return slices.Contains(c.Invalid, status)
}

func (c StatusCategories) IsReopen(status string) bool {
	return slices.Contains(c.Reopen, status)
}

// IsFinalClosed reports whether status ends a ticket's lifecycle.
func (c StatusCategories) IsFinalClosed(status string) bool {
	return c.IsResolved(status) || c.IsInvalid(status)
}

// Disposition classifies a ticket. Invalid wins over a resolution timestamp so
// that the three dispositions never overlap.
func (c StatusCategories) Disposition(t *Ticket) Disposition {
	switch {
	case c.IsInvalid(t.Status):
		return DispositionInvalid
	case c.IsResolved(t.Status), t.ResolvedAt != nil:
		return DispositionResolved
	default:
		return DispositionOpen
	}
}

// ActivityKind is the bucket a status-history event is counted under.
type ActivityKind string

const (
	ActivityOpened  ActivityKind = "open"
	ActivitySolved  ActivityKind = "solved"
	ActivityInvalid ActivityKind = "invalid"
)

// ClassifyEvent buckets a history event by its destination status first, so a
// compressed jump from nothing to Done counts as solved.
func (c StatusCategories) ClassifyEvent(e StatusEvent) (ActivityKind, bool) {
	switch {
	case c.IsResolved(e.StatusTo):
		return ActivitySolved, true
	case c.IsInvalid(e.StatusTo):
		return ActivityInvalid, true
	case e.StatusFrom == nil, c.IsReopen(e.StatusTo):
		return ActivityOpened, true
	default:
		return "", false
	}
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"
	"time"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
)

// SolvedState is the tri-state "is it solved?" filter.
type SolvedState string

const (
	SolvedAny    SolvedState = ""
	SolvedYes    SolvedState = "solved"
	SolvedNotYet SolvedState = "not_yet"
)

// IsValid checks if the solved state is one of the known values.
func (s SolvedState) IsValid() bool {
	switch s {
	case SolvedAny, SolvedYes, SolvedNotYet:
		return true
	}
	return false
}

// DateRange bounds ticket creation days inclusively. A single bound selects a
// one-day range.
type DateRange struct {
	Start *Date `json:"start,omitempty"`
	End   *Date `json:"end,omitempty"`
}

// Bounds returns the effective inclusive range, or false when no bound is set.
func (r DateRange) Bounds() (Date, Date, bool) {
	switch {
	case r.Start != nil && r.End != nil:
		return *r.Start, *r.End, true
	case r.Start != nil:
		return *r.Start, *r.Start, true
	case r.End != nil:
		return *r.End, *r.End, true
	default:
		return Date{}, Date{}, false
	}
}

// Contains reports whether day falls inside the range.
func (r DateRange) Contains(day Date) bool {
	start, end, ok := r.Bounds()
	if !ok {
		return true
	}
	return !day.Before(start) && !day.After(end)
}

// FilterState fully determines which tickets are visible. It is owned by the
// caller and passed in on every request.
type FilterState struct {
	Search    string      `json:"search,omitempty"`
	Title     string      `json:"title,omitempty"`
	Status    []string    `json:"status,omitempty"`
	Feature   []string    `json:"feature,omitempty"`
	Platform  []string    `json:"platform,omitempty"`
	Stage     []string    `json:"stage,omitempty"`
	Squad     []string    `json:"squad,omitempty"`
	Labels    []string    `json:"labels,omitempty"`
	DateRange DateRange   `json:"dateRange"`
	Solved    SolvedState `json:"solved,omitempty"`
	Project   string      `json:"project,omitempty"`
}

// DefaultFilterState is the reset state for a dataset: no restrictions and a
// date range covering every creation day (today when nothing is dated).
func DefaultFilterState(d *Dataset, now time.Time) FilterState {
	start, end, ok := d.CreatedSpan()
	if !ok {
		start = Today(now)
		end = start
	}
	return FilterState{
		DateRange: DateRange{Start: &start, End: &end},
	}
}

// Validate checks the state for values the engine cannot interpret.
func (s FilterState) Validate() error {
	errs := apperrors.NewValidationErrors()

	if !s.Solved.IsValid() {
		errs.Add("solved", "Must be one of: solved, not_yet")
	}
	if s.DateRange.Start != nil && s.DateRange.End != nil && s.DateRange.Start.After(*s.DateRange.End) {
		errs.Add("dateRange", apperrors.ErrInvalidDateRange.Error())
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Normalized trims text, drops blank selections and sorts and de-duplicates
// every selection so equal states compare and hash equally.
func (s FilterState) Normalized() FilterState {
	n := s
	n.Search = strings.TrimSpace(s.Search)
	n.Title = strings.TrimSpace(s.Title)
	n.Project = strings.TrimSpace(s.Project)
	n.Status = normalizeSelection(s.Status)
	n.Feature = normalizeSelection(s.Feature)
	n.Platform = normalizeSelection(s.Platform)
	n.Stage = normalizeSelection(s.Stage)
	n.Squad = normalizeSelection(s.Squad)
	n.Labels = normalizeSelection(s.Labels)
	return n
}

// Hash is a stable fingerprint of the normalized state, used as a memo key.
func (s FilterState) Hash() string {
	payload, err := json.Marshal(s.Normalized())
	if err != nil {
		// FilterState only holds strings and dates; Marshal cannot fail.
		panic(err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16])
}

func normalizeSelection(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// FilterOptions lists the values each filter widget can offer.
type FilterOptions struct {
	Status   []string `json:"status"`
	Feature  []string `json:"feature"`
	Platform []string `json:"platform"`
	Stage    []string `json:"stage"`
	Squad    []string `json:"squad"`
	Labels   []string `json:"labels"`
	Projects []string `json:"projects"`
	MinDate  *Date    `json:"minDate,omitempty"`
	MaxDate  *Date    `json:"maxDate,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

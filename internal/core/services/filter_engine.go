package services

import (
	"slices"
	"sort"
	"strings"

	"github.com/lorrc/testing-insight/internal/core/domain"
)

// predicate keeps a ticket when it returns true.
type predicate func(t *domain.Ticket) bool

// ApplyFilters returns the tickets of d that satisfy every active filter of
// state. It never adds or mutates tickets, and a filter whose column is absent
// from the dataset is skipped.
func ApplyFilters(d *domain.Dataset, state domain.FilterState) []*domain.Ticket {
	if d.IsEmpty() {
		return []*domain.Ticket{}
	}

	preds := buildPredicates(d, state.Normalized())

	out := make([]*domain.Ticket, 0, len(d.Tickets))
	for _, t := range d.Tickets {
		if matchesAll(t, preds) {
			out = append(out, t)
		}
	}
	return out
}

func matchesAll(t *domain.Ticket, preds []predicate) bool {
	for _, p := range preds {
		if !p(t) {
			return false
		}
	}
	return true
}

func buildPredicates(d *domain.Dataset, s domain.FilterState) []predicate {
	var preds []predicate

	if terms := lowerTerms(s.Search); len(terms) > 0 {
		preds = append(preds, func(t *domain.Ticket) bool {
			return containsAnyTerm(t.ID, terms)
		})
	}
	if terms := lowerTerms(s.Title); len(terms) > 0 {
		preds = append(preds, func(t *domain.Ticket) bool {
			return containsAnyTerm(t.Title, terms)
		})
	}
	if s.Project != "" {
		project := strings.ToLower(s.Project)
		preds = append(preds, func(t *domain.Ticket) bool {
			return strings.Contains(strings.ToLower(t.Title), project)
		})
	}

	categorical := []struct {
		column   string
		selected []string
		field    func(t *domain.Ticket) string
	}{
		{domain.ColumnStatus, s.Status, func(t *domain.Ticket) string { return t.Status }},
		{domain.ColumnFeature, s.Feature, func(t *domain.Ticket) string { return t.Feature }},
		{domain.ColumnPlatform, s.Platform, func(t *domain.Ticket) string { return t.Platform }},
		{domain.ColumnStage, s.Stage, func(t *domain.Ticket) string { return t.Stage }},
		{domain.ColumnSquad, s.Squad, func(t *domain.Ticket) string { return t.Squad }},
	}
	for _, c := range categorical {
		if len(c.selected) == 0 || !d.HasColumn(c.column) {
			continue
		}
		selected, field := c.selected, c.field
		preds = append(preds, func(t *domain.Ticket) bool {
			return slices.Contains(selected, field(t))
		})
	}

	if len(s.Labels) > 0 && d.HasColumn(domain.ColumnLabels) {
		labels := make([]string, len(s.Labels))
		for i, l := range s.Labels {
			labels[i] = strings.ToLower(l)
		}
		preds = append(preds, func(t *domain.Ticket) bool {
			field := strings.ToLower(t.Labels)
			for _, l := range labels {
				if !strings.Contains(field, l) {
					return false
				}
			}
			return true
		})
	}

	if _, _, ok := s.DateRange.Bounds(); ok && d.HasColumn(domain.ColumnCreated) {
		rng := s.DateRange
		preds = append(preds, func(t *domain.Ticket) bool {
			day, ok := t.CreatedDate()
			return ok && rng.Contains(day)
		})
	}

	if s.Solved != domain.SolvedAny && d.HasColumn(domain.ColumnResolvedTime) {
		wantSolved := s.Solved == domain.SolvedYes
		preds = append(preds, func(t *domain.Ticket) bool {
			return t.IsSolved() == wantSolved
		})
	}

	return preds
}

func lowerTerms(value string) []string {
	terms := domain.SplitTerms(value)
	for i, term := range terms {
		terms[i] = strings.ToLower(term)
	}
	return terms
}

func containsAnyTerm(value string, terms []string) bool {
	value = strings.ToLower(value)
	for _, term := range terms {
		if strings.Contains(value, term) {
			return true
		}
	}
	return false
}

// BuildFilterOptions collects the values each filter widget can offer.
func BuildFilterOptions(d *domain.Dataset, projects []string) *domain.FilterOptions {
	opts := &domain.FilterOptions{
		Status:   distinct(d, domain.ColumnStatus, func(t *domain.Ticket) string { return t.Status }),
		Feature:  distinct(d, domain.ColumnFeature, func(t *domain.Ticket) string { return t.Feature }),
		Platform: distinct(d, domain.ColumnPlatform, func(t *domain.Ticket) string { return t.Platform }),
		Stage:    distinct(d, domain.ColumnStage, func(t *domain.Ticket) string { return t.Stage }),
		Squad:    distinct(d, domain.ColumnSquad, func(t *domain.Ticket) string { return t.Squad }),
		Labels:   distinctLabels(d),
		Projects: append([]string{}, projects...),
	}
	if start, end, ok := d.CreatedSpan(); ok {
		opts.MinDate, opts.MaxDate = &start, &end
	}
	return opts
}

func distinct(d *domain.Dataset, column string, field func(t *domain.Ticket) string) []string {
	values := []string{}
	if !d.HasColumn(column) {
		return values
	}
	seen := make(map[string]bool)
	for _, t := range d.Tickets {
		v := strings.TrimSpace(field(t))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

func distinctLabels(d *domain.Dataset) []string {
	labels := []string{}
	if !d.HasColumn(domain.ColumnLabels) {
		return labels
	}
	seen := make(map[string]bool)
	for _, t := range d.Tickets {
		for _, l := range t.LabelList() {
			if !seen[l] {
				seen[l] = true
				labels = append(labels, l)
			}
		}
	}
	sort.Strings(labels)
	return labels
}

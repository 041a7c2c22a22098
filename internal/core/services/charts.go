package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/lorrc/testing-insight/internal/core/domain"
)

// unclassifiedSquad labels tickets without a squad on the distribution chart.
const unclassifiedSquad = "Unclassified"

// SeverityByFeature counts Highest, Medium and Low tickets per feature.
// Features are ordered by their total, smallest first, so the largest bar ends
// up on top of a horizontal chart.
func SeverityByFeature(tickets []*domain.Ticket) []domain.SeverityCount {
	type key struct{ feature, severity string }
	counts := make(map[key]int)
	totals := make(map[string]int)

	for _, t := range tickets {
		if t.Feature == "" || !slices.Contains(domain.Severities, t.Severity) {
			continue
		}
		counts[key{t.Feature, t.Severity}]++
		totals[t.Feature]++
	}

	features := sortedKeys(totals, func(a, b string) int {
		return cmp.Or(cmp.Compare(totals[a], totals[b]), strings.Compare(a, b))
	})

	out := []domain.SeverityCount{}
	for _, f := range features {
		for _, sev := range domain.Severities {
			if n := counts[key{f, sev}]; n > 0 {
				out = append(out, domain.SeverityCount{
					Feature:     f,
					DisplayName: domain.TruncateWords(f, 2),
					Severity:    sev,
					Count:       n,
				})
			}
		}
	}
	return out
}

// StatusOverview splits every feature's tickets into closed, invalid and open,
// busiest feature first.
func StatusOverview(tickets []*domain.Ticket, categories domain.StatusCategories) []domain.FeatureStatusCount {
	byFeature := make(map[string]*domain.FeatureStatusCount)
	totals := make(map[string]int)

	for _, t := range tickets {
		if t.Feature == "" {
			continue
		}
		row := byFeature[t.Feature]
		if row == nil {
			row = &domain.FeatureStatusCount{
				Feature:     t.Feature,
				DisplayName: domain.TruncateWords(t.Feature, 2),
			}
			byFeature[t.Feature] = row
		}
		switch categories.Disposition(t) {
		case domain.DispositionResolved:
			row.Closed++
		case domain.DispositionInvalid:
			row.Invalid++
		default:
			row.Open++
		}
		totals[t.Feature]++
	}

	out := []domain.FeatureStatusCount{}
	for _, f := range sortedKeys(totals, byCountDesc(totals)) {
		out = append(out, *byFeature[f])
	}
	return out
}

// BuildDistribution groups tickets by feature, squad and status for the bubble
// chart. Tickets missing a feature or a status are left out.
func BuildDistribution(tickets []*domain.Ticket) domain.Distribution {
	type key struct{ feature, squad, status string }
	counts := make(map[key]int)
	dist := domain.Distribution{
		Cells:         []domain.DistributionCell{},
		StatusTotals:  make(map[string]int),
		FeatureTotals: make(map[string]int),
	}

	for _, t := range tickets {
		if t.Feature == "" || t.Status == "" {
			continue
		}
		squad := t.Squad
		if squad == "" {
			squad = unclassifiedSquad
		}
		counts[key{t.Feature, squad, t.Status}]++
		dist.StatusTotals[t.Status]++
		dist.FeatureTotals[t.Feature]++
	}

	for k, n := range counts {
		dist.Cells = append(dist.Cells, domain.DistributionCell{
			Feature:     k.feature,
			DisplayName: domain.TruncateWords(k.feature, 3),
			Squad:       k.squad,
			Status:      k.status,
			Count:       n,
		})
	}
	slices.SortFunc(dist.Cells, func(a, b domain.DistributionCell) int {
		return cmp.Or(
			strings.Compare(a.Feature, b.Feature),
			strings.Compare(a.Squad, b.Squad),
			strings.Compare(a.Status, b.Status),
		)
	})
	return dist
}

// BuildFeatureBoards lays out each feature's tickets in open, resolved and
// invalid columns, busiest feature first.
func BuildFeatureBoards(tickets []*domain.Ticket, categories domain.StatusCategories) []domain.FeatureBoard {
	boards := make(map[string]*domain.FeatureBoard)
	totals := make(map[string]int)

	for _, t := range tickets {
		if t.Feature == "" {
			continue
		}
		b := boards[t.Feature]
		if b == nil {
			b = &domain.FeatureBoard{
				Feature:  t.Feature,
				Open:     []domain.TicketCard{},
				Resolved: []domain.TicketCard{},
				Invalid:  []domain.TicketCard{},
			}
			boards[t.Feature] = b
		}
		card := domain.TicketCard{
			ID:       t.ID,
			Status:   t.Status,
			Severity: t.Severity,
			Squad:    t.Squad,
			BugType:  t.BugType,
		}
		switch categories.Disposition(t) {
		case domain.DispositionResolved:
			b.Resolved = append(b.Resolved, card)
		case domain.DispositionInvalid:
			b.Invalid = append(b.Invalid, card)
		default:
			b.Open = append(b.Open, card)
			b.OpenCount++
		}
		b.TotalCount++
		totals[t.Feature]++
	}

	out := []domain.FeatureBoard{}
	for _, f := range sortedKeys(totals, byCountDesc(totals)) {
		out = append(out, *boards[f])
	}
	return out
}

func byCountDesc(totals map[string]int) func(a, b string) int {
	return func(a, b string) int {
		return cmp.Or(cmp.Compare(totals[b], totals[a]), strings.Compare(a, b))
	}
}

func sortedKeys(m map[string]int, compare func(a, b string) int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compare)
	return keys
}

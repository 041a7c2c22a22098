package services

import (
	"github.com/lorrc/testing-insight/internal/core/domain"
)

// Summarize counts the tickets per disposition and averages the resolution
// time of every ticket carrying a resolution timestamp. When the export has a
// Duration_toResolve column its text is used; otherwise the elapsed time
// between creation and resolution. Durations that cannot be read are left out
// of the mean.
func Summarize(tickets []*domain.Ticket, categories domain.StatusCategories, hasDurationColumn bool) domain.SummaryMetrics {
	m := domain.SummaryMetrics{
		Total:             len(tickets),
		AvgResolutionText: domain.NotAvailable,
	}

	var (
		sum   float64
		count int
	)
	for _, t := range tickets {
		switch categories.Disposition(t) {
		case domain.DispositionInvalid:
			m.Invalid++
		case domain.DispositionResolved:
			m.Solved++
		default:
			m.Open++
		}

		if !t.IsSolved() {
			continue
		}
		if hours, ok := resolutionHours(t, hasDurationColumn); ok {
			sum += hours
			count++
		}
	}

	if count > 0 {
		avg := sum / float64(count)
		m.AvgResolutionHours = &avg
		m.AvgResolutionText = domain.FormatHours(avg)
	}
	return m
}

func resolutionHours(t *domain.Ticket, hasDurationColumn bool) (float64, bool) {
	if hasDurationColumn {
		return domain.ParseDurationHours(t.DurationToResolve)
	}
	if t.CreatedAt == nil || t.ResolvedAt == nil {
		return 0, false
	}
	hours := t.ResolvedAt.Sub(*t.CreatedAt).Hours()
	if hours < 0 {
		return 0, false
	}
	return hours, true
}

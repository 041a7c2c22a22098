package services

import (
	"github.com/lorrc/testing-insight/internal/core/domain"
)

// BuildDailyActivity replays every ticket's compressed history and counts the
// opened, solved and invalid events per day. The series covers every day from
// the first to the last event, with zeros on quiet days.
func BuildDailyActivity(tickets []*domain.Ticket, categories domain.StatusCategories) []domain.ActivityPoint {
	counts := make(map[domain.Date]*domain.ActivityPoint)
	var first, last domain.Date

	for _, t := range tickets {
		events := domain.CompressHistory(t.History(), domain.TransitionalThreshold)
		for _, ev := range events {
			kind, ok := categories.ClassifyEvent(ev)
			if !ok {
				continue
			}
			day := domain.DateOf(ev.Timestamp)
			p := counts[day]
			if p == nil {
				p = &domain.ActivityPoint{Date: day}
				counts[day] = p
				if len(counts) == 1 || day.Before(first) {
					first = day
				}
				if len(counts) == 1 || day.After(last) {
					last = day
				}
			}
			switch kind {
			case domain.ActivityOpened:
				p.Opened++
			case domain.ActivitySolved:
				p.Solved++
			case domain.ActivityInvalid:
				p.Invalid++
			}
		}
	}

	series := []domain.ActivityPoint{}
	if len(counts) == 0 {
		return series
	}
	for _, day := range domain.DaySpan(first, last) {
		if p, ok := counts[day]; ok {
			series = append(series, *p)
		} else {
			series = append(series, domain.ActivityPoint{Date: day})
		}
	}
	return series
}

// BuildLifecycle tracks the running number of tickets opened and finally
// closed. Only each ticket's first and last history event matter: a first event
// without a source status opens the ticket, a last event ending in a resolved or
// invalid status closes it.
func BuildLifecycle(tickets []*domain.Ticket, categories domain.StatusCategories) []domain.LifecyclePoint {
	opened := make(map[domain.Date]int)
	closed := make(map[domain.Date]int)
	var (
		first, last domain.Date
		found       bool
	)
	track := func(day domain.Date) {
		if !found || day.Before(first) {
			first = day
		}
		if !found || day.After(last) {
			last = day
		}
		found = true
	}

	for _, t := range tickets {
		events := t.History()
		if len(events) == 0 {
			continue
		}
		if start := events[0]; start.StatusFrom == nil {
			day := domain.DateOf(start.Timestamp)
			opened[day]++
			track(day)
		}
		if end := events[len(events)-1]; categories.IsFinalClosed(end.StatusTo) {
			day := domain.DateOf(end.Timestamp)
			closed[day]++
			track(day)
		}
	}

	series := []domain.LifecyclePoint{}
	if !found {
		return series
	}
	var openTotal, closedTotal int
	for _, day := range domain.DaySpan(first, last) {
		openTotal += opened[day]
		closedTotal += closed[day]
		series = append(series, domain.LifecyclePoint{
			Date:             day,
			OpenedCumulative: openTotal,
			ClosedCumulative: closedTotal,
		})
	}
	return series
}

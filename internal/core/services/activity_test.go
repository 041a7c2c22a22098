package services_test

import (
	"testing"

	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDailyActivity(t *testing.T) {
	cats := domain.DefaultStatusCategories()

	t.Run("rapid open then done counts only as solved", func(t *testing.T) {
		tickets := []*domain.Ticket{{
			ID: "QA-1",
			StatusHistoryJSON: `[
				{"timestamp": "2025-01-10T09:00:00", "status_from": null, "status_to": "Open", "author": "a"},
				{"timestamp": "2025-01-10T09:02:00", "status_from": "Open", "status_to": "Done", "author": "b"}
			]`,
		}}

		series := services.BuildDailyActivity(tickets, cats)

		require.Len(t, series, 1)
		assert.Equal(t, "2025-01-10", series[0].Date.String())
		assert.Equal(t, 0, series[0].Opened)
		assert.Equal(t, 1, series[0].Solved)
		assert.Equal(t, 0, series[0].Invalid)
	})

	t.Run("contiguous zero-filled series", func(t *testing.T) {
		tickets := []*domain.Ticket{
			{ID: "QA-1", StatusHistoryJSON: `[
				{"timestamp": "2025-01-10T09:00:00", "status_from": null, "status_to": "Open"},
				{"timestamp": "2025-01-13T10:00:00", "status_from": "Open", "status_to": "Invalid"}
			]`},
			{ID: "QA-2", StatusHistoryJSON: `[
				{"timestamp": "2025-01-11T09:00:00", "status_from": null, "status_to": "Open"},
				{"timestamp": "2025-01-11T15:00:00", "status_from": "Open", "status_to": "In Progress"},
				{"timestamp": "2025-01-12T15:00:00", "status_from": "In Progress", "status_to": "RESOLVE"},
				{"timestamp": "2025-01-13T08:00:00", "status_from": "RESOLVE", "status_to": "Reopened"}
			]`},
			{ID: "QA-3", StatusHistoryJSON: `not json`},
		}

		series := services.BuildDailyActivity(tickets, cats)

		require.Len(t, series, 4)
		assert.Equal(t, domain.ActivityPoint{Date: domain.NewDate(2025, 1, 10), Opened: 1}, series[0])
		assert.Equal(t, domain.ActivityPoint{Date: domain.NewDate(2025, 1, 11), Opened: 1}, series[1])
		assert.Equal(t, domain.ActivityPoint{Date: domain.NewDate(2025, 1, 12), Solved: 1}, series[2])
		assert.Equal(t, domain.ActivityPoint{Date: domain.NewDate(2025, 1, 13), Opened: 1, Invalid: 1}, series[3])
	})

	t.Run("no history", func(t *testing.T) {
		series := services.BuildDailyActivity([]*domain.Ticket{{ID: "QA-1"}}, cats)

		assert.NotNil(t, series)
		assert.Empty(t, series)
	})
}

func TestBuildLifecycle(t *testing.T) {
	cats := domain.DefaultStatusCategories()

	tickets := []*domain.Ticket{
		{ID: "QA-1", StatusHistoryJSON: `[
			{"timestamp": "2025-01-10T09:00:00", "status_from": null, "status_to": "Open"},
			{"timestamp": "2025-01-10T09:01:00", "status_from": "Open", "status_to": "Done"}
		]`},
		{ID: "QA-2", StatusHistoryJSON: `[
			{"timestamp": "2025-01-11T09:00:00", "status_from": null, "status_to": "Open"},
			{"timestamp": "2025-01-12T09:00:00", "status_from": "Open", "status_to": "Done"},
			{"timestamp": "2025-01-12T12:00:00", "status_from": "Done", "status_to": "Reopened"}
		]`},
		{ID: "QA-3", StatusHistoryJSON: `[
			{"timestamp": "2025-01-09T09:00:00", "status_from": "Open", "status_to": "In Progress"},
			{"timestamp": "2025-01-13T09:00:00", "status_from": "In Progress", "status_to": "Invalid"}
		]`},
	}

	series := services.BuildLifecycle(tickets, cats)

	require.Len(t, series, 4)
	want := []domain.LifecyclePoint{
		{Date: domain.NewDate(2025, 1, 10), OpenedCumulative: 1, ClosedCumulative: 1},
		{Date: domain.NewDate(2025, 1, 11), OpenedCumulative: 2, ClosedCumulative: 1},
		{Date: domain.NewDate(2025, 1, 12), OpenedCumulative: 2, ClosedCumulative: 1},
		{Date: domain.NewDate(2025, 1, 13), OpenedCumulative: 2, ClosedCumulative: 2},
	}
	assert.Equal(t, want, series)
}

package domain_test

import (
	"testing"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestTicket_ShortTitle(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"third segment", "MOBILE - Transfer - Amount field accepts letters", "Amount field accepts letters"},
		{"extra segments keep third", "A - B - C - D", "C"},
		{"two segments use last", "Transfer - Button misaligned", "Button misaligned"},
		{"plain title", "Crash on launch", "Crash on launch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := &domain.Ticket{Title: tt.title}
			assert.Equal(t, tt.want, ticket.ShortTitle())
		})
	}
}

func TestTicket_LabelList(t *testing.T) {
	ticket := &domain.Ticket{Labels: " urgent, regression ,, ui "}
	assert.Equal(t, []string{"urgent", "regression", "ui"}, ticket.LabelList())

	empty := &domain.Ticket{Labels: "  "}
	assert.Empty(t, empty.LabelList())
}

func TestTicket_CreatedDate(t *testing.T) {
	t.Run("dated ticket", func(t *testing.T) {
		ticket := &domain.Ticket{CreatedAt: ptrTime(time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC))}
		day, ok := ticket.CreatedDate()
		require.True(t, ok)
		assert.Equal(t, "2025-01-31", day.String())
	})

	t.Run("undated ticket", func(t *testing.T) {
		_, ok := (&domain.Ticket{}).CreatedDate()
		assert.False(t, ok)
	})
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWords int
		want     string
	}{
		{"short name untouched", "Transfer", 2, "Transfer"},
		{"exact length untouched", "Bill Payment", 2, "Bill Payment"},
		{"long name cut", "Virtual Account Top Up", 2, "Virtual Account ..."},
		{"three words", "Virtual Account Top Up", 3, "Virtual Account Top ..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.TruncateWords(tt.input, tt.maxWords))
		})
	}
}

func TestDataset(t *testing.T) {
	jan5 := ptrTime(time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC))
	feb2 := ptrTime(time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC))

	d := domain.NewDataset("jira_tiket.csv", "abc", []string{domain.ColumnTickets, domain.ColumnTitle, domain.ColumnCreated}, []*domain.Ticket{
		{ID: "QA-2", CreatedAt: feb2},
		{ID: "QA-1", CreatedAt: jan5},
		{ID: "QA-3"},
	})

	t.Run("columns", func(t *testing.T) {
		assert.True(t, d.HasColumn(domain.ColumnCreated))
		assert.False(t, d.HasColumn(domain.ColumnLabels))
		assert.Equal(t, []string{"Created", "Tickets", "Title"}, d.Columns())
	})

	t.Run("created span ignores undated tickets", func(t *testing.T) {
		first, last, ok := d.CreatedSpan()
		require.True(t, ok)
		assert.Equal(t, "2025-01-05", first.String())
		assert.Equal(t, "2025-02-02", last.String())
	})

	t.Run("created span needs the column", func(t *testing.T) {
		noCreated := domain.NewDataset("x", "v", []string{domain.ColumnTickets}, d.Tickets)
		_, _, ok := noCreated.CreatedSpan()
		assert.False(t, ok)
	})

	t.Run("find ticket", func(t *testing.T) {
		ticket, ok := d.FindTicket("QA-1")
		require.True(t, ok)
		assert.Equal(t, "QA-1", ticket.ID)

		_, ok = d.FindTicket("QA-404")
		assert.False(t, ok)
	})

	t.Run("empty dataset", func(t *testing.T) {
		empty := domain.EmptyDataset("jira_tiket.csv")
		assert.True(t, empty.IsEmpty())
		assert.Equal(t, 0, empty.Len())
		assert.NotNil(t, empty.Tickets)
	})
}

package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

const utf8BOM = "\ufeff"

// TicketCSVLoader reads the ticket-tracking CSV export.
type TicketCSVLoader struct{}

var _ ports.TicketParser = (*TicketCSVLoader)(nil)

// NewTicketCSVLoader creates a new CSV loader
func NewTicketCSVLoader() *TicketCSVLoader {
	return &TicketCSVLoader{}
}

// ParseTickets reads the whole export. Columns are located by header name;
// unknown columns are ignored and missing optional ones stay empty.
func (l *TicketCSVLoader) ParseTickets(r io.Reader) (*domain.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &apperrors.ColumnError{File: "ticket export", Missing: domain.RequiredTicketColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", apperrors.ErrMalformedData, err)
	}

	cols := indexHeader(header)
	if missing := missingColumns(cols, domain.RequiredTicketColumns); len(missing) > 0 {
		return nil, &apperrors.ColumnError{File: "ticket export", Missing: missing}
	}

	tickets := make([]*domain.Ticket, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedData, err)
		}
		if blankRecord(record) {
			continue
		}
		tickets = append(tickets, cols.ticket(record))
	}

	return domain.NewDataset("", "", cols.names(), tickets), nil
}

type columnIndex map[string]int

func indexHeader(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if _, seen := cols[name]; name != "" && !seen {
			cols[name] = i
		}
	}
	return cols
}

func missingColumns(cols columnIndex, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func (c columnIndex) names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	return names
}

func (c columnIndex) text(record []string, column string) string {
	i, ok := c[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (c columnIndex) timestamp(record []string, column string) *time.Time {
	t, ok := domain.ParseTimestamp(c.text(record, column))
	if !ok {
		return nil
	}
	return &t
}

func (c columnIndex) ticket(record []string) *domain.Ticket {
	return &domain.Ticket{
		ID:                  c.text(record, domain.ColumnTickets),
		Title:               c.text(record, domain.ColumnTitle),
		Status:              c.text(record, domain.ColumnStatus),
		Severity:            c.text(record, domain.ColumnSeverity),
		Feature:             c.text(record, domain.ColumnFeature),
		Platform:            c.text(record, domain.ColumnPlatform),
		Labels:              c.text(record, domain.ColumnLabels),
		Stage:               c.text(record, domain.ColumnStage),
		Squad:               c.text(record, domain.ColumnSquad),
		BugType:             c.text(record, domain.ColumnBugType),
		FixVersions:         c.text(record, domain.ColumnFixVersions),
		Device:              c.text(record, domain.ColumnDevice),
		Reporter:            c.text(record, domain.ColumnReporter),
		Assignee:            c.text(record, domain.ColumnAssignee),
		CreatedAt:           c.timestamp(record, domain.ColumnCreated),
		ResolvedAt:          c.timestamp(record, domain.ColumnResolvedTime),
		TestedAt:            c.timestamp(record, domain.ColumnTestingTime),
		DurationToResolve:   c.text(record, domain.ColumnDurationToResolve),
		TimeSinceLastUpdate: c.text(record, domain.ColumnTimeSinceLastUpdate),
		StatusHistoryJSON:   c.text(record, domain.ColumnStatusHistory),
		CommentsHTML:        c.text(record, domain.ColumnCommentsHTML),
		CommentCount:        parseCount(c.text(record, domain.ColumnCountComments)),
		Description:         c.text(record, domain.ColumnDescription),
	}
}

// parseCount accepts integers and float text such as "3.0"; anything else
// counts as zero.
func parseCount(value string) int {
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

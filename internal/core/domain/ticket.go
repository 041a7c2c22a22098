package domain

import (
	"strings"
	"time"
)

// Column names of the ticket export.
const (
	ColumnTickets             = "Tickets"
	ColumnTitle               = "Title"
	ColumnStatus              = "Status"
	ColumnSeverity            = "Severity"
	ColumnFeature             = "Feature"
	ColumnPlatform            = "Platform"
	ColumnLabels              = "Labels"
	ColumnStage               = "Stage"
	ColumnSquad               = "Squad"
	ColumnBugType             = "Bug Type"
	ColumnFixVersions         = "Fix_Versions"
	ColumnDevice              = "Device"
	ColumnReporter            = "Reporter"
	ColumnAssignee            = "Assignee"
	ColumnCreated             = "Created"
	ColumnResolvedTime        = "Resolved_Time"
	ColumnTestingTime         = "Testing_Time"
	ColumnDurationToResolve   = "Duration_toResolve"
	ColumnTimeSinceLastUpdate = "Time_Since_Last_Status_Update"
	ColumnStatusHistory       = "Status_History_JSON"
	ColumnCommentsHTML        = "Comments_HTML"
	ColumnCountComments       = "Count_Comments"
	ColumnDescription         = "Description"
)

// RequiredTicketColumns must be present for a ticket export to be usable.
var RequiredTicketColumns = []string{ColumnTickets, ColumnTitle}

// Severities shown on the severity chart, in display order.
var Severities = []string{"Highest", "Medium", "Low"}

// Ticket is one row of the ticket-tracking export. Records are read-only once
// loaded.
type Ticket struct {
	ID                  string
	Title               string
	Status              string
	Severity            string
	Feature             string
	Platform            string
	Labels              string
	Stage               string
	Squad               string
	BugType             string
	FixVersions         string
	Device              string
	Reporter            string
	Assignee            string
	CreatedAt           *time.Time
	ResolvedAt          *time.Time
	TestedAt            *time.Time
	DurationToResolve   string
	TimeSinceLastUpdate string
	StatusHistoryJSON   string
	CommentsHTML        string
	CommentCount        int
	Description         string
}

// IsSolved reports whether the ticket carries a resolution timestamp.
func (t *Ticket) IsSolved() bool {
	return t.ResolvedAt != nil
}

// CreatedDate returns the creation day, if known.
func (t *Ticket) CreatedDate() (Date, bool) {
	if t.CreatedAt == nil {
		return Date{}, false
	}
	return DateOf(*t.CreatedAt), true
}

// LabelList splits the comma-separated label field.
func (t *Ticket) LabelList() []string {
	return SplitTerms(t.Labels)
}

// History returns the parsed, chronologically sorted status history.
func (t *Ticket) History() []StatusEvent {
	return ParseHistory(t.StatusHistoryJSON)
}

// ShortTitle drops the "PROJECT - Feature - " prefix the tracker puts on titles.
func (t *Ticket) ShortTitle() string {
	parts := strings.Split(t.Title, " - ")
	if len(parts) > 2 {
		return strings.TrimSpace(parts[2])
	}
	return strings.TrimSpace(parts[len(parts)-1])
}

// SplitTerms splits a comma-separated string into trimmed, non-empty terms.
func SplitTerms(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	raw := strings.Split(value, ",")
	terms := make([]string, 0, len(raw))
	for _, term := range raw {
		if term = strings.TrimSpace(term); term != "" {
			terms = append(terms, term)
		}
	}
	return terms
}

// TruncateWords keeps the first maxWords words of name and appends " ..." when
// something was cut.
func TruncateWords(name string, maxWords int) string {
	words := strings.Fields(name)
	if len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + " ..."
	}
	return name
}

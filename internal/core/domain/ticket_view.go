package domain

import "time"

// ListMode selects how the ticket list is ordered and narrowed.
type ListMode string

const (
	ListRecent ListMode = "recent"
	ListHot    ListMode = "hot"
)

// ParseListMode accepts the mode query value, defaulting to recent.
func ParseListMode(value string) (ListMode, bool) {
	switch ListMode(value) {
	case "", ListRecent:
		return ListRecent, true
	case ListHot:
		return ListHot, true
	}
	return "", false
}

// MaxLabelLength caps the label text shown on list items.
const MaxLabelLength = 50

// TicketListItem is one row of the ticket list.
type TicketListItem struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ShortTitle   string     `json:"shortTitle"`
	Status       string     `json:"status"`
	Severity     string     `json:"severity"`
	Feature      string     `json:"feature"`
	Squad        string     `json:"squad"`
	Label        string     `json:"label"`
	CommentCount int        `json:"commentCount"`
	Hot          bool       `json:"hot"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// TicketPage is one page of the ticket list.
type TicketPage struct {
	Mode       ListMode         `json:"mode"`
	Items      []TicketListItem `json:"items"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
	Warnings   []string         `json:"warnings,omitempty"`
}

// TicketDetail is the full view of one ticket.
type TicketDetail struct {
	ID                  string        `json:"id"`
	Title               string        `json:"title"`
	URL                 string        `json:"url"`
	Status              string        `json:"status"`
	Disposition         Disposition   `json:"disposition"`
	Severity            string        `json:"severity"`
	Feature             string        `json:"feature"`
	Platform            string        `json:"platform"`
	Labels              []string      `json:"labels"`
	Stage               string        `json:"stage"`
	Squad               string        `json:"squad"`
	BugType             string        `json:"bugType"`
	FixVersions         string        `json:"fixVersions"`
	Device              string        `json:"device"`
	Reporter            string        `json:"reporter"`
	Assignee            string        `json:"assignee"`
	Created             string        `json:"created"`
	Resolved            string        `json:"resolved"`
	Tested              string        `json:"tested"`
	DurationToResolve   string        `json:"durationToResolve"`
	TimeSinceLastUpdate string        `json:"timeSinceLastUpdate"`
	Description         string        `json:"description"`
	CommentsHTML        string        `json:"commentsHtml"`
	CommentCount        int           `json:"commentCount"`
	History             []StatusEvent `json:"history"`
	CompressedHistory   []StatusEvent `json:"compressedHistory"`
	Timeline            Timeline      `json:"timeline"`
}

// FilterDefaults is the reset filter state of the current dataset.
type FilterDefaults struct {
	DataVersion string      `json:"dataVersion"`
	State       FilterState `json:"state"`
	Warnings    []string    `json:"warnings,omitempty"`
}

// ReloadResult describes the outcome of a forced reload.
type ReloadResult struct {
	Dataset         string    `json:"dataset"`
	PreviousVersion string    `json:"previousVersion"`
	Version         string    `json:"version"`
	Changed         bool      `json:"changed"`
	Tickets         int       `json:"tickets"`
	LoadedAt        time.Time `json:"loadedAt"`
	Warnings        []string  `json:"warnings,omitempty"`
}

package services

import (
	"time"

	"github.com/lorrc/testing-insight/internal/core/domain"
)

// Settings carries the business rules the dashboard services read from
// configuration.
type Settings struct {
	Categories          domain.StatusCategories
	HotCommentThreshold int
	TicketsPerPage      int
	QuickFilters        []string
	BrowseURL           string
	Location            *time.Location
	CacheTTL            time.Duration
}

// DefaultSettings returns the rules the JIRA dashboard shipped with.
func DefaultSettings() Settings {
	return Settings{
		Categories:          domain.DefaultStatusCategories(),
		HotCommentThreshold: 3,
		TicketsPerPage:      20,
		QuickFilters:        []string{},
		BrowseURL:           "https://jira.example.com/browse",
		Location:            time.FixedZone("WIB", 7*60*60),
		CacheTTL:            10 * time.Minute,
	}
}

// Cache key namespace of memoized dashboard results.
const (
	KeyPrefix       = "testing-insight:"
	KeyDashboardFmt = KeyPrefix + "dashboard:%s:%s" // dataVersion, filterHash
)

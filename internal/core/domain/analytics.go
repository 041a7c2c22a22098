package domain

// SummaryMetrics are the headline cards of the dashboard.
type SummaryMetrics struct {
	Total              int      `json:"total"`
	Open               int      `json:"open"`
	Solved             int      `json:"solved"`
	Invalid            int      `json:"invalid"`
	AvgResolutionHours *float64 `json:"avgResolutionHours"`
	AvgResolutionText  string   `json:"avgResolutionText"`
}

// ActivityPoint counts history events of one day.
type ActivityPoint struct {
	Date    Date `json:"date"`
	Opened  int  `json:"opened"`
	Solved  int  `json:"solved"`
	Invalid int  `json:"invalid"`
}

// LifecyclePoint is the running total of tickets opened and finally closed.
type LifecyclePoint struct {
	Date             Date `json:"date"`
	OpenedCumulative int  `json:"openedCumulative"`
	ClosedCumulative int  `json:"closedCumulative"`
}

// SeverityCount is one bar segment of the severity-per-feature chart.
type SeverityCount struct {
	Feature     string `json:"feature"`
	DisplayName string `json:"displayName"`
	Severity    string `json:"severity"`
	Count       int    `json:"count"`
}

// FeatureStatusCount is one stacked bar of the status overview chart.
type FeatureStatusCount struct {
	Feature     string `json:"feature"`
	DisplayName string `json:"displayName"`
	Closed      int    `json:"closed"`
	Invalid     int    `json:"invalid"`
	Open        int    `json:"open"`
}

// DistributionCell is one bubble of the feature/squad/status chart.
type DistributionCell struct {
	Feature     string `json:"feature"`
	DisplayName string `json:"displayName"`
	Squad       string `json:"squad"`
	Status      string `json:"status"`
	Count       int    `json:"count"`
}

// Distribution holds the bubbles plus the row and column totals.
type Distribution struct {
	Cells         []DistributionCell `json:"cells"`
	StatusTotals  map[string]int     `json:"statusTotals"`
	FeatureTotals map[string]int     `json:"featureTotals"`
}

// TicketCard is the compact ticket shown on the feature board.
type TicketCard struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Severity string `json:"severity"`
	Squad    string `json:"squad"`
	BugType  string `json:"bugType"`
}

// FeatureBoard groups a feature's tickets by disposition.
type FeatureBoard struct {
	Feature    string       `json:"feature"`
	OpenCount  int          `json:"openCount"`
	TotalCount int          `json:"totalCount"`
	Open       []TicketCard `json:"open"`
	Resolved   []TicketCard `json:"resolved"`
	Invalid    []TicketCard `json:"invalid"`
}

// DashboardView is everything the dashboard page renders for one filter state.
type DashboardView struct {
	DataVersion     string               `json:"dataVersion"`
	FilterHash      string               `json:"filterHash"`
	Summary         SummaryMetrics       `json:"summary"`
	DailyActivity   []ActivityPoint      `json:"dailyActivity"`
	Lifecycle       []LifecyclePoint     `json:"lifecycle"`
	SeverityFeature []SeverityCount      `json:"severityByFeature"`
	StatusOverview  []FeatureStatusCount `json:"statusOverview"`
	Distribution    Distribution         `json:"distribution"`
	FeatureBoards   []FeatureBoard       `json:"featureBoards"`
	Warnings        []string             `json:"warnings,omitempty"`
}

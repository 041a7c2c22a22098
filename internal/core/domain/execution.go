package domain

import "strings"

// Column names of the test-execution workbook.
const (
	ColumnExecutionDate   = "Tanggal"
	ColumnExecutionOS     = "OS"
	ColumnTargetExecution = "Target Execution"
	ColumnExecution       = "Execution"
	ColumnPassed          = "Passed"
	ColumnFailed          = "Failed"
)

// RequiredExecutionColumns must be present in the execution workbook.
var RequiredExecutionColumns = []string{
	ColumnExecutionDate, ColumnExecutionOS, ColumnTargetExecution,
	ColumnExecution, ColumnPassed, ColumnFailed,
}

// Execution platforms.
const (
	PlatformAndroid = "Android"
	PlatformIOS     = "iOS"
)

// NormalizePlatform maps user input onto a known platform name.
func NormalizePlatform(value string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "android":
		return PlatformAndroid, true
	case "ios":
		return PlatformIOS, true
	}
	return "", false
}

// ExecutionProgress is one day of regression progress for a platform.
// Ratios are percentages.
type ExecutionProgress struct {
	Date            Date    `json:"date"`
	Platform        string  `json:"platform"`
	TargetExecution float64 `json:"targetExecution"`
	Execution       float64 `json:"execution"`
	Passed          float64 `json:"passed"`
	Failed          float64 `json:"failed"`
	Other           float64 `json:"other"`
}

// ComputeOther fills Other with the executed share that neither passed nor
// failed, clipped at zero.
func (p *ExecutionProgress) ComputeOther() {
	p.Other = max(0, p.Execution-p.Passed-p.Failed)
}

// ExecutionCard is a headline number with its change since the previous day.
type ExecutionCard struct {
	Label string   `json:"label"`
	Value float64  `json:"value"`
	Delta *float64 `json:"delta,omitempty"`
}

// ExecutionReport is the execution progress page for one platform.
type ExecutionReport struct {
	Platform string              `json:"platform"`
	Rows     []ExecutionProgress `json:"rows"`
	Cards    []ExecutionCard     `json:"cards"`
	Warnings []string            `json:"warnings,omitempty"`
}

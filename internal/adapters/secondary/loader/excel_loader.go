package loader

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

// executionDateLayouts are the text forms of the Tanggal column.
var executionDateLayouts = []string{"1/2/2006", "01/02/2006", domain.DateLayout}

// ExecutionExcelLoader reads the regression progress workbook.
type ExecutionExcelLoader struct{}

var _ ports.ExecutionParser = (*ExecutionExcelLoader)(nil)

// NewExecutionExcelLoader creates a new workbook loader
func NewExecutionExcelLoader() *ExecutionExcelLoader {
	return &ExecutionExcelLoader{}
}

// ParseExecutions reads the first sheet. Blank cells take the value of the
// row above, ratio columns are scaled to percentages and rows whose date
// cannot be read are dropped.
func (l *ExecutionExcelLoader) ParseExecutions(r io.Reader) ([]domain.ExecutionProgress, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", apperrors.ErrMalformedData, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &apperrors.ColumnError{File: "execution workbook", Missing: domain.RequiredExecutionColumns}
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", apperrors.ErrMalformedData, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, &apperrors.ColumnError{File: "execution workbook", Missing: domain.RequiredExecutionColumns}
	}

	cols := indexHeader(rows[0])
	if missing := missingColumns(cols, domain.RequiredExecutionColumns); len(missing) > 0 {
		return nil, &apperrors.ColumnError{File: "execution workbook", Missing: missing}
	}

	progress := make([]domain.ExecutionProgress, 0, len(rows)-1)
	previous := make(map[string]string, len(domain.RequiredExecutionColumns))
	for n, record := range rows[1:] {
		if blankRecord(record) {
			continue
		}

		cell := func(column string) string {
			v := cols.text(record, column)
			if v == "" {
				v = previous[column]
			}
			previous[column] = v
			return v
		}

		date, dateOK := parseExecutionDate(cell(domain.ColumnExecutionDate))
		row := domain.ExecutionProgress{Date: date, Platform: normalizeOS(cell(domain.ColumnExecutionOS))}

		ratios := []struct {
			column string
			dst    *float64
		}{
			{domain.ColumnTargetExecution, &row.TargetExecution},
			{domain.ColumnExecution, &row.Execution},
			{domain.ColumnPassed, &row.Passed},
			{domain.ColumnFailed, &row.Failed},
		}
		for _, ratio := range ratios {
			v, err := parsePercentage(cell(ratio.column))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %s: %v", apperrors.ErrMalformedData, n+2, ratio.column, err)
			}
			*ratio.dst = v
		}

		if !dateOK {
			continue
		}
		row.ComputeOther()
		progress = append(progress, row)
	}
	return progress, nil
}

// parseExecutionDate reads a Tanggal cell, either an Excel serial number or
// month/day/year text.
func parseExecutionDate(value string) (domain.Date, bool) {
	if value == "" {
		return domain.Date{}, false
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return domain.Date{}, false
		}
		return domain.DateOf(t), true
	}
	for _, layout := range executionDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return domain.DateOf(t), true
		}
	}
	return domain.Date{}, false
}

// parsePercentage turns a ratio cell into a percentage. Text already carrying
// a percent sign is taken as is.
func parsePercentage(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	if strings.HasSuffix(value, "%") {
		return strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(value, "%")), 64)
	}
	ratio, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	return ratio * 100, nil
}

func normalizeOS(value string) string {
	if value == "" {
		return ""
	}
	if name, ok := domain.NormalizePlatform(value); ok {
		return name
	}
	return value
}

package loader_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lorrc/testing-insight/internal/adapters/secondary/loader"
	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

var executionHeader = []interface{}{"Tanggal", "OS", "Target Execution", "Execution", "Passed", "Failed"}

func TestExecutionExcelLoader_ParseExecutions(t *testing.T) {
	l := loader.NewExecutionExcelLoader()

	t.Run("scales ratios and fills blanks downwards", func(t *testing.T) {
		r := workbook(t,
			executionHeader,
			[]interface{}{"5/1/2025", "Android", 0.5, 0.4, 0.3, 0.05},
			[]interface{}{"", "", 0.6, 0.5, nil, 0.05},
			[]interface{}{"5/1/2025", "iOS", 0.5, 0.2, 0.25, 0.1},
		)

		rows, err := l.ParseExecutions(r)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		first := rows[0]
		assert.Equal(t, "2025-05-01", first.Date.String())
		assert.Equal(t, domain.PlatformAndroid, first.Platform)
		assert.InDelta(t, 50, first.TargetExecution, 1e-9)
		assert.InDelta(t, 40, first.Execution, 1e-9)
		assert.InDelta(t, 5, first.Other, 1e-9)

		second := rows[1]
		assert.Equal(t, "2025-05-01", second.Date.String())
		assert.Equal(t, domain.PlatformAndroid, second.Platform)
		assert.InDelta(t, 30, second.Passed, 1e-9)
		assert.InDelta(t, 15, second.Other, 1e-9)

		third := rows[2]
		assert.Equal(t, domain.PlatformIOS, third.Platform)
		assert.InDelta(t, 0, third.Other, 1e-9)
	})

	t.Run("accepts percent text", func(t *testing.T) {
		r := workbook(t,
			executionHeader,
			[]interface{}{"05/02/2025", "android", "50%", "45%", "40%", "5%"},
		)

		rows, err := l.ParseExecutions(r)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2025-05-02", rows[0].Date.String())
		assert.Equal(t, domain.PlatformAndroid, rows[0].Platform)
		assert.InDelta(t, 45, rows[0].Execution, 1e-9)
	})

	t.Run("drops rows without a readable date", func(t *testing.T) {
		r := workbook(t,
			executionHeader,
			[]interface{}{"someday", "iOS", 0.1, 0.1, 0.1, 0},
			[]interface{}{"5/3/2025", "iOS", 0.2, 0.2, 0.1, 0},
		)

		rows, err := l.ParseExecutions(r)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "2025-05-03", rows[0].Date.String())
	})

	t.Run("missing columns", func(t *testing.T) {
		r := workbook(t, []interface{}{"Tanggal", "OS", "Execution"})

		_, err := l.ParseExecutions(r)

		assert.ErrorIs(t, err, apperrors.ErrMissingRequiredColumns)
	})

	t.Run("non numeric ratio", func(t *testing.T) {
		r := workbook(t,
			executionHeader,
			[]interface{}{"5/1/2025", "iOS", "half", 0.1, 0.1, 0},
		)

		_, err := l.ParseExecutions(r)

		assert.ErrorIs(t, err, apperrors.ErrMalformedData)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := l.ParseExecutions(strings.NewReader("Tanggal,OS\n"))

		assert.ErrorIs(t, err, apperrors.ErrMalformedData)
	})
}

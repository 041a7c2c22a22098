package http

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
)

func TestErrorHandler_Handle(t *testing.T) {
	verrs := apperrors.NewValidationErrors()
	verrs.Add("dateRange", apperrors.ErrInvalidDateRange.Error())

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation errors", verrs, stdhttp.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"app error", apperrors.NewBadRequestError(errors.New("eof"), "Invalid request body"), stdhttp.StatusBadRequest, "BAD_REQUEST"},
		{"ticket not found", fmt.Errorf("get: %w", apperrors.ErrTicketNotFound), stdhttp.StatusNotFound, "TICKET_NOT_FOUND"},
		{"view not found", apperrors.ErrSavedViewNotFound, stdhttp.StatusNotFound, "VIEW_NOT_FOUND"},
		{"invalid mode", apperrors.ErrInvalidListMode, stdhttp.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing columns", &apperrors.ColumnError{File: "ticket export", Missing: []string{"Status"}}, stdhttp.StatusBadGateway, "MISSING_COLUMNS"},
		{"source unavailable", fmt.Errorf("open: %w", apperrors.ErrSourceUnavailable), stdhttp.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"},
		{"unauthorized", apperrors.ErrUnauthorized, stdhttp.StatusUnauthorized, "UNAUTHORIZED"},
		{"rate limited", apperrors.ErrRateLimited, stdhttp.StatusTooManyRequests, "RATE_LIMITED"},
		{"deadline", context.DeadlineExceeded, stdhttp.StatusGatewayTimeout, "TIMEOUT"},
		{"unknown", errors.New("boom"), stdhttp.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)

			newTestErrorHandler().Handle(rec, req, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			body := decodeBody[map[string]any](t, rec)
			assert.Equal(t, tt.code, body["code"])
		})
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	verrs := apperrors.NewValidationErrors()
	verrs.Add("name", "This field is required")
	rec := httptest.NewRecorder()

	newTestErrorHandler().Handle(rec, httptest.NewRequest(stdhttp.MethodPost, "/views", nil), verrs)

	body := decodeBody[ValidationErrorResponse](t, rec)
	assert.Equal(t, map[string][]string{"name": {"This field is required"}}, body.Fields)
}

func TestHandleError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(stdhttp.MethodGet, "/", nil)

	assert.False(t, HandleError(rec, req, nil, newTestErrorHandler()))
	assert.True(t, HandleError(rec, req, apperrors.ErrNotFound, newTestErrorHandler()))
	assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
}

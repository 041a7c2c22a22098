package http

import (
	stdhttp "net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/mocks"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

func newTicketRouter() (stdhttp.Handler, *mocks.MockTicketService) {
	svc := mocks.NewMockTicketService()
	return NewTicketHandler(svc, newTestErrorHandler(), discardLogger()).Router(), svc
}

func TestTicketHandler_Search(t *testing.T) {
	t.Run("hot mode second page", func(t *testing.T) {
		router, svc := newTicketRouter()
		svc.On("List", mock.Anything, ports.ListTicketsParams{
			State: domain.FilterState{Labels: []string{"QRIS"}},
			Mode:  domain.ListHot,
			Page:  2,
		}).Return(&domain.TicketPage{
			Mode:       domain.ListHot,
			Items:      []domain.TicketListItem{{ID: "BUG-7", CommentCount: 5, Hot: true}},
			Page:       2,
			PageSize:   20,
			TotalPages: 2,
			TotalItems: 21,
		}, nil)

		rec := serve(router, stdhttp.MethodPost, "/search?mode=hot&page=2", `{"labels":["QRIS"]}`)

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		page := decodeBody[domain.TicketPage](t, rec)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, "BUG-7", page.Items[0].ID)
		assert.True(t, page.Items[0].Hot)
		svc.AssertExpectations(t)
	})

	t.Run("defaults to first recent page", func(t *testing.T) {
		router, svc := newTicketRouter()
		svc.On("List", mock.Anything, ports.ListTicketsParams{Page: 1}).
			Return(&domain.TicketPage{Mode: domain.ListRecent, Items: []domain.TicketListItem{}, Page: 1, PageSize: 20, TotalPages: 1}, nil)

		rec := serve(router, stdhttp.MethodPost, "/search", "")

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown mode", func(t *testing.T) {
		router, svc := newTicketRouter()

		rec := serve(router, stdhttp.MethodPost, "/search?mode=cold", "")

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "mode")
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}

func TestTicketHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, svc := newTicketRouter()
		svc.On("Get", mock.Anything, "BUG-1").Return(&domain.TicketDetail{
			ID:     "BUG-1",
			URL:    "https://jira.example.com/browse/BUG-1",
			Status: "Done",
		}, nil)

		rec := serve(router, stdhttp.MethodGet, "/BUG-1", "")

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		detail := decodeBody[domain.TicketDetail](t, rec)
		assert.Equal(t, "https://jira.example.com/browse/BUG-1", detail.URL)
	})

	t.Run("unknown id", func(t *testing.T) {
		router, svc := newTicketRouter()
		svc.On("Get", mock.Anything, "BUG-404").Return(nil, apperrors.ErrTicketNotFound)

		rec := serve(router, stdhttp.MethodGet, "/BUG-404", "")

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
		assert.Equal(t, "TICKET_NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
	})

	t.Run("overlong id", func(t *testing.T) {
		router, svc := newTicketRouter()

		rec := serve(router, stdhttp.MethodGet, "/"+strings.Repeat("X", maxTicketIDLength+1), "")

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}

func TestExecutionHandler(t *testing.T) {
	svc := mocks.NewMockExecutionService()
	router := NewExecutionHandler(svc, newTestErrorHandler(), discardLogger()).Router()

	delta := 10.0
	svc.On("Progress", mock.Anything, "ios").Return(&domain.ExecutionReport{
		Platform: domain.PlatformIOS,
		Cards:    []domain.ExecutionCard{{Label: "Execution", Value: 60, Delta: &delta}},
	}, nil)
	verrs := apperrors.NewValidationErrors()
	verrs.Add("platform", apperrors.ErrInvalidPlatform.Error())
	svc.On("Progress", mock.Anything, "windows").Return(nil, verrs)

	rec := serve(router, stdhttp.MethodGet, "/?platform=ios", "")
	assert.Equal(t, stdhttp.StatusOK, rec.Code)
	report := decodeBody[domain.ExecutionReport](t, rec)
	assert.Equal(t, domain.PlatformIOS, report.Platform)
	assert.InDelta(t, 10.0, *report.Cards[0].Delta, 1e-9)

	rec = serve(router, stdhttp.MethodGet, "/?platform=windows", "")
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
}

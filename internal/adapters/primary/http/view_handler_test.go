package http

import (
	stdhttp "net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/testing-insight/internal/core/domain"
	apperrors "github.com/lorrc/testing-insight/internal/core/errors"
	"github.com/lorrc/testing-insight/internal/core/mocks"
	"github.com/lorrc/testing-insight/internal/core/ports"
)

func newViewRouter() (stdhttp.Handler, *mocks.MockSavedViewService) {
	svc := mocks.NewMockSavedViewService()
	return NewViewHandler(svc, newTestErrorHandler(), discardLogger()).Router(), svc
}

func sampleView() *domain.SavedView {
	return &domain.SavedView{
		ID:        uuid.MustParse("7f8e2c1a-4b3d-4e5f-9a8b-1c2d3e4f5a6b"),
		Name:      "Open android bugs",
		State:     domain.FilterState{Platform: []string{"Android"}, Solved: domain.SolvedNotYet},
		CreatedAt: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestViewHandler_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newViewRouter()
		svc.On("Create", mock.Anything, ports.CreateViewParams{
			Name:  "Open android bugs",
			State: domain.FilterState{Platform: []string{"Android"}, Solved: domain.SolvedNotYet},
		}).Return(sampleView(), nil)

		rec := serve(router, stdhttp.MethodPost, "/",
			`{"name":"Open android bugs","state":{"platform":["Android"],"solved":"not_yet"}}`)

		require.Equal(t, stdhttp.StatusCreated, rec.Code)
		assert.JSONEq(t, `{
			"id":"7f8e2c1a-4b3d-4e5f-9a8b-1c2d3e4f5a6b",
			"name":"Open android bugs",
			"state":{"platform":["Android"],"solved":"not_yet","dateRange":{}},
			"createdAt":"2025-03-01T09:30:00Z"
		}`, rec.Body.String())
	})

	t.Run("missing name", func(t *testing.T) {
		router, svc := newViewRouter()

		rec := serve(router, stdhttp.MethodPost, "/", `{"state":{}}`)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "name")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("bad state", func(t *testing.T) {
		router, _ := newViewRouter()

		rec := serve(router, stdhttp.MethodPost, "/", `{"name":"x","state":{"solved":"perhaps"}}`)

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeBody[ValidationErrorResponse](t, rec).Fields, "state.solved")
	})
}

func TestViewHandler_List(t *testing.T) {
	router, svc := newViewRouter()
	svc.On("List", mock.Anything, 10).Return([]*domain.SavedView{sampleView()}, nil)
	svc.On("List", mock.Anything, defaultViewsLimit).Return(nil, nil)

	rec := serve(router, stdhttp.MethodGet, "/?limit=10", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	list := decodeBody[ListResponse[SavedViewResponse]](t, rec)
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, "Open android bugs", list.Data[0].Name)

	rec = serve(router, stdhttp.MethodGet, "/", "")
	require.Equal(t, stdhttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, rec.Body.String())
}

func TestViewHandler_GetAndDelete(t *testing.T) {
	view := sampleView()

	t.Run("get", func(t *testing.T) {
		router, svc := newViewRouter()
		svc.On("Get", mock.Anything, view.ID).Return(view, nil)

		rec := serve(router, stdhttp.MethodGet, "/"+view.ID.String(), "")

		assert.Equal(t, stdhttp.StatusOK, rec.Code)
		assert.Equal(t, view.ID.String(), decodeBody[SavedViewResponse](t, rec).ID)
	})

	t.Run("get unknown", func(t *testing.T) {
		router, svc := newViewRouter()
		svc.On("Get", mock.Anything, view.ID).Return(nil, apperrors.ErrSavedViewNotFound)

		rec := serve(router, stdhttp.MethodGet, "/"+view.ID.String(), "")

		assert.Equal(t, stdhttp.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		router, svc := newViewRouter()

		rec := serve(router, stdhttp.MethodDelete, "/not-a-uuid", "")

		assert.Equal(t, stdhttp.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		router, svc := newViewRouter()
		svc.On("Delete", mock.Anything, view.ID).Return(nil)

		rec := serve(router, stdhttp.MethodDelete, "/"+view.ID.String(), "")

		assert.Equal(t, stdhttp.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"appsamples/internal/service"
	serviceMocks "appsamples/internal/service/mocks"
)

func TestCounterHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockCounterService)
	app := newTestApp()
	app.Get("/counter/:name", GetCounter(mockSvc))
	app.Post("/counter/:name/increment", IncrementCounter(mockSvc))
	app.Post("/counter/:name/shards", AddShards(mockSvc))

	t.Run("get", func(t *testing.T) {
		mockSvc.On("Count", mock.Anything, "hits").Return(int64(0), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/counter/hits", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "hits", body["name"])
		assert.Equal(t, float64(0), body["count"])
	})

	t.Run("increment", func(t *testing.T) {
		mockSvc.On("Increment", mock.Anything, "hits").Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/counter/hits/increment", nil))
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("add shards", func(t *testing.T) {
		mockSvc.On("AddShards", mock.Anything, "hits", 3).Return(8, nil).Once()

		resp, _ := app.Test(formRequest(http.MethodPost, "/counter/hits/shards", url.Values{"count": {"3"}}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body shardsResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, shardsResponse{Name: "hits", ShardCount: 8}, body)
	})

	t.Run("add shards needs a positive count", func(t *testing.T) {
		resp, _ := app.Test(formRequest(http.MethodPost, "/counter/hits/shards", url.Values{"count": {"-1"}}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service invalid input", func(t *testing.T) {
		mockSvc.On("Increment", mock.Anything, "bad").Return(service.ErrInvalidInput).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/counter/bad/increment", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

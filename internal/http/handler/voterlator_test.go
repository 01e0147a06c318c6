package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"appsamples/internal/model"
	"appsamples/internal/service"
	serviceMocks "appsamples/internal/service/mocks"
)

func TestVoterlatorPage(t *testing.T) {
	mockSvc := new(serviceMocks.MockVotingService)
	app := newTestApp()
	app.Get("/voterlator/", VoterlatorPage(mockSvc))

	mockSvc.On("Tallies", mock.Anything).Return([]model.Tally{{Name: "Perl", Count: 42}}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/voterlator/", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `value="C&#43;&#43;"`)
	assert.Contains(t, body, "<td>Perl</td><td>42</td>")
}

func TestCastVote(t *testing.T) {
	mockSvc := new(serviceMocks.MockVotingService)
	app := newTestApp()
	app.Post("/voterlator/", CastVote(mockSvc))

	t.Run("redirects after vote", func(t *testing.T) {
		mockSvc.On("Vote", mock.Anything, "Go").Return(true, nil).Once()

		resp, _ := app.Test(formRequest(http.MethodPost, "/voterlator/", url.Values{"ugliest": {"Go"}}))
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/voterlator/", resp.Header.Get("Location"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("queue failure", func(t *testing.T) {
		mockSvc.On("Vote", mock.Anything, "Go").Return(false, errors.New("queue vote: down")).Once()

		resp, _ := app.Test(formRequest(http.MethodPost, "/voterlator/", url.Values{"ugliest": {"Go"}}))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func TestRunTally(t *testing.T) {
	mockSvc := new(serviceMocks.MockVotingService)
	app := newTestApp()
	app.Post("/voterlator/tally", RunTally(mockSvc))

	t.Run("empty queue answers 500", func(t *testing.T) {
		mockSvc.On("Tally", mock.Anything).Return(service.TallyResult{Batches: 1, Votes: 3}, service.ErrQueueEmpty).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/voterlator/tally", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "QUEUE_EMPTY", body.Error.Code)
		assert.Equal(t, "queue empty after 3 votes in 1 batches", body.Error.Message)
	})

	t.Run("store failure", func(t *testing.T) {
		mockSvc.On("Tally", mock.Anything).Return(service.TallyResult{}, errors.New("store tallies: x")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/voterlator/tally", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestStartTally(t *testing.T) {
	mockSvc := new(serviceMocks.MockVotingService)
	app := newTestApp()
	app.Get("/voterlator/start", StartTally(mockSvc))

	t.Run("default workers", func(t *testing.T) {
		mockSvc.On("Start", mock.Anything, -1).Return(2, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/voterlator/start", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]int
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 2, body["workers"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("explicit workers", func(t *testing.T) {
		mockSvc.On("Start", mock.Anything, 5).Return(5, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/voterlator/start?workers=5", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("out of range", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/voterlator/start?workers=500", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, resp).Error.Code)
	})
}

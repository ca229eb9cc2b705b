package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/recipe-assistant/repository"
	"github.com/tieubaoca/recipe-assistant/service"
	"github.com/tieubaoca/recipe-assistant/types"
)

func feedbackRouter(t *testing.T) (*gin.Engine, *service.ExchangeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	exchangeService := service.NewExchangeService(repository.NewMemoryExchangeRepo())
	router := gin.New()
	router.POST("/api/v1/feedback", NewFeedbackHandler(exchangeService).HandleFeedback)
	return router, exchangeService
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHandleFeedbackSuccess(t *testing.T) {
	router, exchangeService := feedbackRouter(t)
	id, err := exchangeService.RecordStart(context.Background(), types.Query{Question: "q"})
	require.NoError(t, err)

	w := postJSON(router, "/api/v1/feedback", `{"exchange_id":"`+id+`","rating":1,"comment":"helpful"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "feedback_id")
}

func TestHandleFeedbackUnknownExchange(t *testing.T) {
	router, _ := feedbackRouter(t)

	w := postJSON(router, "/api/v1/feedback", `{"exchange_id":"no-such-id","rating":1}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleFeedbackInvalidRating(t *testing.T) {
	router, exchangeService := feedbackRouter(t)
	id, err := exchangeService.RecordStart(context.Background(), types.Query{Question: "q"})
	require.NoError(t, err)

	w := postJSON(router, "/api/v1/feedback", `{"exchange_id":"`+id+`","rating":5}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFeedbackMissingExchangeID(t *testing.T) {
	router, _ := feedbackRouter(t)

	w := postJSON(router, "/api/v1/feedback", `{"rating":1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

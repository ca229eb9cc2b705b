package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/recipe-assistant/repository"
	"github.com/tieubaoca/recipe-assistant/service"
	"github.com/tieubaoca/recipe-assistant/types"
)

func exchangeRouter(t *testing.T) (*gin.Engine, *service.ExchangeService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	exchangeService := service.NewExchangeService(repository.NewMemoryExchangeRepo())
	h := NewExchangeHandler(exchangeService)
	router := gin.New()
	router.GET("/api/v1/exchanges", h.HandleListRecent)
	router.GET("/api/v1/stats", h.HandleStats)
	return router, exchangeService
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHandleListRecent(t *testing.T) {
	router, exchangeService := exchangeRouter(t)
	id, err := exchangeService.RecordStart(context.Background(), types.Query{Question: "q1"})
	require.NoError(t, err)
	require.NoError(t, exchangeService.RecordResult(context.Background(), id, types.ExchangeResult{
		Status: types.StatusAnswered,
		Answer: "a1",
	}))

	w := getPath(router, "/api/v1/exchanges?limit=5")
	require.Equal(t, http.StatusOK, w.Code)

	var res types.DataResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "success", res.Status)
	assert.Contains(t, w.Body.String(), `"question":"q1"`)
}

func TestHandleListRecentRejectsBadLimit(t *testing.T) {
	router, _ := exchangeRouter(t)

	w := getPath(router, "/api/v1/exchanges?limit=zero")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleStats(t *testing.T) {
	router, exchangeService := exchangeRouter(t)
	id, err := exchangeService.RecordStart(context.Background(), types.Query{Question: "q"})
	require.NoError(t, err)
	_, err = exchangeService.RecordFeedback(context.Background(), id, 1, "")
	require.NoError(t, err)
	_, err = exchangeService.RecordFeedback(context.Background(), id, -1, "")
	require.NoError(t, err)

	w := getPath(router, "/api/v1/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"thumbs_up":1`)
	assert.Contains(t, w.Body.String(), `"thumbs_down":1`)
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/recipe-assistant/service"
	"github.com/tieubaoca/recipe-assistant/types"
)

type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeService: exchangeService,
	}
}

// HandleListRecent serves GET /api/v1/exchanges?limit=&relevance=.
func (h *ExchangeHandler) HandleListRecent(c *gin.Context) {
	limit := int64(10)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, types.DataResponse{
				Status:  "error",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = n
	}
	relevance := c.Query("relevance")

	exchanges, err := h.exchangeService.ListRecent(c.Request.Context(), limit, relevance)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to list exchanges",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   exchanges,
	})
}

// HandleStats serves GET /api/v1/stats.
func (h *ExchangeHandler) HandleStats(c *gin.Context) {
	stats, err := h.exchangeService.FeedbackStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to load feedback stats",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   stats,
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/recipe-assistant/service"
	"github.com/tieubaoca/recipe-assistant/types"
)

type FeedbackHandler struct {
	exchangeService *service.ExchangeService
}

func NewFeedbackHandler(exchangeService *service.ExchangeService) *FeedbackHandler {
	return &FeedbackHandler{
		exchangeService: exchangeService,
	}
}

// HandleFeedback serves POST /api/v1/feedback.
func (h *FeedbackHandler) HandleFeedback(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.ExchangeID == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "exchange_id is required",
		})
		return
	}
	if req.Rating != 1 && req.Rating != -1 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "rating must be 1 or -1",
		})
		return
	}

	feedbackID, err := h.exchangeService.RecordFeedback(c.Request.Context(), req.ExchangeID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, types.ErrUnknownExchange) {
			c.JSON(http.StatusNotFound, types.DataResponse{
				Status:  "error",
				Message: "Unknown exchange",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to record feedback",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"feedback_id": feedbackID},
	})
}

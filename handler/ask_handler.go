package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tieubaoca/recipe-assistant/service"
	"github.com/tieubaoca/recipe-assistant/types"
)

type AskHandler struct {
	ragService *service.RAGService
}

func NewAskHandler(ragService *service.RAGService) *AskHandler {
	return &AskHandler{
		ragService: ragService,
	}
}

// HandleAsk serves POST /api/v1/question.
func (h *AskHandler) HandleAsk(c *gin.Context) {
	var req types.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Question == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Question must not be empty",
		})
		return
	}

	res, err := h.ragService.Ask(c.Request.Context(), req.Query())
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to answer question"
		switch {
		case errors.Is(err, types.ErrRetrievalUnavailable):
			status = http.StatusServiceUnavailable
			message = "Recipe search is temporarily unavailable"
		case errors.Is(err, types.ErrGenerationFailed):
			status = http.StatusBadGateway
			message = "Answer generation failed"
		}
		c.JSON(status, types.DataResponse{
			Status:  "error",
			Message: message,
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   res,
	})
}

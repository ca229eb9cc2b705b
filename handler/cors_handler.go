package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CorsHandler struct{}

func NewCorsHandler() *CorsHandler {
	return &CorsHandler{}
}

// CorsMiddleware allows browser clients from any origin. The API is
// unauthenticated, so only Content-Type needs to be allowed through.
func (h *CorsHandler) CorsMiddleware(c *gin.Context) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	c.Writer.Header().Set("Access-Control-Max-Age", "3600")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusOK)
		return
	}
	c.Next()
}

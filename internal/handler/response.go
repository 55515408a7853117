package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mateuschrist/taxdeed-api/internal/middleware"
)

// envelope is the body of every /api response. code is 0 on success and the
// HTTP status otherwise; request_id echoes X-Request-ID for scraper logs.
type envelope struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	Data      any            `json:"data,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, envelope{
		Message:   "ok",
		RequestID: middleware.RequestIDFromContext(c.Request.Context()),
		Data:      data,
		Meta:      meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, envelope{
		Code:      status,
		Message:   message,
		RequestID: middleware.RequestIDFromContext(c.Request.Context()),
		Meta:      meta,
	})
}

package server

import "github.com/gin-gonic/gin"

const (
	CodeOK            = 0
	CodeBadRequest    = 40000
	CodeTooLarge      = 41300
	CodeUnprocessable = 42200
	CodeRateLimited   = 42900
	CodeUpstream      = 50200
	CodeInternal      = 50000
	CodeUnavailable   = 50300
)

// APIResponse is the envelope for non-streaming responses
type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func respondError(c *gin.Context, httpStatus, code int, message string, data any) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

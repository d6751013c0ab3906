package util

import (
	"clarity_hub_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse 统一错误响应结构
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func ValidationFailed(c *gin.Context, err *ValidationError) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Validation error",
		Details: err.Issues,
	})
}

func InternalServerError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// HandleError 把业务错误映射为 HTTP 状态码
// fallback 是未知错误时返回给调用方的提示
func HandleError(c *gin.Context, err error, fallback string) {
	var validationErr *ValidationError
	var upstreamErr *UpstreamError

	switch {
	case errors.As(err, &validationErr):
		ValidationFailed(c, validationErr)
	case errors.Is(err, ErrUnauthenticated):
		Unauthorized(c)
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrConflict):
		Error(c, http.StatusConflict, err.Error())
	case errors.As(err, &upstreamErr):
		logger.Log.Warn("Upstream generation failure",
			zap.String("path", c.FullPath()),
			zap.String("op", upstreamErr.Op),
			zap.Int("status", upstreamErr.Status),
			zap.Error(err))
		Error(c, http.StatusBadGateway, fallback)
	default:
		logger.Log.Error("Internal server error", zap.String("path", c.FullPath()), zap.Error(err))
		InternalServerError(c, fallback)
	}
}

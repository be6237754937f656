// response.go — 统一响应辅助 (所有 handler 共用)。
package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/multi-agent/agent-console/pkg/errors"
	"github.com/multi-agent/agent-console/pkg/logger"
)

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func badRequest(c *gin.Context, code, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": gin.H{"code": code, "message": message}})
}

func notFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "not_found", "message": message}})
}

func conflict(c *gin.Context, code, message string) {
	c.JSON(http.StatusConflict, gin.H{"success": false, "error": gin.H{"code": code, "message": message}})
}

func serverError(c *gin.Context, err error) {
	logger.FromContext(c.Request.Context()).Error("internal error", logger.FieldError, err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": gin.H{"code": "internal_error", "message": "服务器内部错误"}})
}

// fail 按哨兵错误映射 HTTP 状态码, 其余归为 500。
func fail(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		notFound(c, err.Error())
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		badRequest(c, "invalid_input", err.Error())
	case apperrors.Is(err, apperrors.ErrRunActive):
		conflict(c, "run_active", err.Error())
	case apperrors.Is(err, apperrors.ErrNoActiveRun):
		conflict(c, "no_active_run", err.Error())
	case apperrors.Is(err, apperrors.ErrNoTrace):
		conflict(c, "no_trace", err.Error())
	default:
		serverError(c, err)
	}
}

package handlers

import (
	"ceygo/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request logger set by middleware.RequestLogger, falling back
// to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// bindJSON binds the request body and answers 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		getLogger(c).Warn("Invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		utils.JSONError(c, 400, "Invalid request: "+err.Error())
		return false
	}
	return true
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

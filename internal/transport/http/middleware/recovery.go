package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "hotel-booking-api/internal/transport/http/response"
)

// Recovery panic 转成统一的 500 响应并记录请求 id
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				resp.Abort(c, resp.CodeServerError, "internal error")
			}
		}()
		c.Next()
	}
}

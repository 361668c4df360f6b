package server

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opencommune/fiscalis/internal/operatorctx"
	"go.uber.org/zap"
)

// OperatorMiddleware reads the operator identity supplied by the upstream
// authentication gateway. Authentication itself is not this service's job;
// the gateway is trusted to set these headers.
func OperatorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		op := operatorctx.Operator{
			ID:      strings.TrimSpace(c.GetHeader("X-Operator-Id")),
			Name:    strings.TrimSpace(c.GetHeader("X-Operator-Name")),
			Role:    operatorctx.Role(strings.ToUpper(strings.TrimSpace(c.GetHeader("X-Operator-Role")))),
			Commune: strings.TrimSpace(c.GetHeader("X-Operator-Commune")),
		}
		if op.ID != "" || op.Role != "" {
			ctx := operatorctx.WithOperator(c.Request.Context(), op)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// RequestLoggingMiddleware logs one structured line per request.
func RequestLoggingMiddleware(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http.request")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

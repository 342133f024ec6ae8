package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// コンテキストキー
const (
	TraceIDKey = "trace_id"
	ClaimsKey  = "claims"
)

// TraceIDMiddleware はリクエストごとのトレースIDを払い出す。
// X-Trace-IDヘッダがあればそれを引き継ぐ。
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(TraceIDKey, traceID)
		c.Next()
	}
}

// LoggingMiddleware はリクエストログを出力する。
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		traceID, _ := c.Get(TraceIDKey)

		slog.Info("request completed",
			"trace_id", traceID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"http_status", c.Writer.Status(),
			"latency_ms", latency.Milliseconds(),
		)
	}
}

// RecoveryMiddleware はパニックからの復旧を行う。
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				traceID, _ := c.Get(TraceIDKey)
				slog.Error("panic recovered",
					"trace_id", traceID,
					"error", err,
				)
				abortError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}

// AuthRequired はBearerトークンを検証するミドルウェア。
// 欠落・不正なトークンは401で処理を中断する。
func AuthRequired(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abortError(c, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			abortError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// currentClaims はコンテキストから検証済みClaimsを取り出す
func currentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}

// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

// Pinger は依存先の疎通確認を抽象化します。*sql.DB がこれを満たします。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler は /healthz を処理します。
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler は HealthHandler を生成します。db が nil の場合は疎通確認を行いません。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health はHTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// データベースに到達できない場合は 503 を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := http.StatusOK, "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			zap.L().Warn("health check: database unreachable", zap.Error(err))
			status, body = http.StatusServiceUnavailable, "unavailable"
		}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"status": body})
}

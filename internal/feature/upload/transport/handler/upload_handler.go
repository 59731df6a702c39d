// Package handler はuploadフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fileshare_backend/internal/api"
	authentity "fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/upload/domain/entity"
	jwtmw "fileshare_backend/internal/platform/jwt"
	"fileshare_backend/internal/shared/apperr"
)

// UploadUsecase はアップロード操作のユースケースを定義します。
type UploadUsecase interface {
	Start(ctx context.Context, owner *authentity.User, fileName, contentType string, expiresAt time.Time) (string, error)
	List(ctx context.Context) ([]entity.Upload, error)
	ListMine(ctx context.Context, caller *authentity.User) ([]entity.Upload, error)
	Get(ctx context.Context, caller *authentity.User, id uuid.UUID) (*entity.Upload, error)
	Delete(ctx context.Context, caller *authentity.User, id uuid.UUID) error
}

// UploadHandler はアップロード操作のHTTPリクエストを処理します。
type UploadHandler struct {
	uploads UploadUsecase
}

// NewUploadHandler はUploadHandlerの新しいインスタンスを生成します。
func NewUploadHandler(uploads UploadUsecase) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// List は GET /api/uploads を処理します。
func (h *UploadHandler) List(c *gin.Context) {
	uploads, err := h.uploads.List(c.Request.Context())
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUploadResponses(uploads))
}

// Mine は GET /api/uploads/mine を処理します。
func (h *UploadHandler) Mine(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	uploads, err := h.uploads.ListMine(c.Request.Context(), user)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUploadResponses(uploads))
}

// Get は GET /api/uploads/:id を処理します。
// - 存在しない場合は404、所有者以外は403
func (h *UploadHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := api.PathUUID(c, "id")
	if err != nil {
		api.BadRequest(c, err)
		return
	}
	upload, err := h.uploads.Get(c.Request.Context(), user, id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.ToUploadResponse(upload))
}

// Start は POST /api/uploads/start を処理します。
// - 未検証ユーザーは403、expires_at が過去または7日より先なら400
// - 成功時は30秒有効のPUT URLを返却
func (h *UploadHandler) Start(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.UploadStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	url, err := h.uploads.Start(c.Request.Context(), user, req.FileName, req.ContentType, req.ExpiresAt)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.UploadStartResponse{URL: url})
}

// Delete は DELETE /api/uploads/:id を処理します。
func (h *UploadHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, err := api.PathUUID(c, "id")
	if err != nil {
		api.BadRequest(c, err)
		return
	}
	if err := h.uploads.Delete(c.Request.Context(), user, id); err != nil {
		api.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// currentUser は認証済みユーザーを取り出します。存在しなければ401を書き込みます。
func currentUser(c *gin.Context) (*authentity.User, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.WriteError(c, apperr.Unauthorized("unauthorized"))
		return nil, false
	}
	return user, true
}

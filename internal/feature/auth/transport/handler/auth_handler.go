// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fileshare_backend/internal/api"
	"fileshare_backend/internal/feature/auth/domain/entity"
	jwtmw "fileshare_backend/internal/platform/jwt"
	"fileshare_backend/internal/shared/apperr"
)

// AuthUsecase はユーザー操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は新規ユーザーを登録し、検証メールを送信してトークンを返します。
	Signup(ctx context.Context, email, password string) (*entity.User, string, error)
	// Login はユーザーを認証し、成功時にトークンを返します。
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	SendVerification(ctx context.Context, user *entity.User) error
	Verify(ctx context.Context, verificationID uuid.UUID) (*entity.User, string, error)
	ChangePassword(ctx context.Context, user *entity.User, password string) error
	DeleteUser(ctx context.Context, user *entity.User) error
}

// AuthHandler は /api/users 配下のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時はトークンとユーザーを200で返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req api.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	user, token, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	zap.L().Info("user signup successful", zap.String("user_id", user.ID.String()), zap.String("remote_addr", c.ClientIP()))
	c.JSON(http.StatusOK, api.TokenResponse{Token: token, User: api.ToUserResponse(user)})
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - 認証失敗時は401を返却
// - 認証成功時はトークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{Token: token, User: api.ToUserResponse(user)})
}

// Me は認証済みユーザーを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.ToUserResponse(user))
}

// DeleteMe は認証済みユーザーを削除します。
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.auth.DeleteUser(c.Request.Context(), user); err != nil {
		api.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SendVerification は検証メールを再送します。
// - 検証済みなら409、再送間隔内なら429
func (h *AuthHandler) SendVerification(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.auth.SendVerification(c.Request.Context(), user); err != nil {
		api.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangePassword はパスワードを変更します。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.BadRequest(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), user, req.Password); err != nil {
		api.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Verify は検証IDを消費し、検証済みユーザーとトークンを返します。
// - 不明なIDは404、使用済みは409
func (h *AuthHandler) Verify(c *gin.Context) {
	id, err := api.PathUUID(c, "verification_id")
	if err != nil {
		api.BadRequest(c, err)
		return
	}
	user, token, err := h.auth.Verify(c.Request.Context(), id)
	if err != nil {
		api.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.TokenResponse{Token: token, User: api.ToUserResponse(user)})
}

func currentUser(c *gin.Context) (*entity.User, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		api.WriteError(c, apperr.Unauthorized("unauthorized"))
		return nil, false
	}
	return user, true
}

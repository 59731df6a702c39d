package jwtmw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fileshare_backend/internal/api"
	"fileshare_backend/internal/feature/auth/domain/entity"
	"fileshare_backend/internal/feature/auth/usecase"
)

const (
	// ContextUser holds the authenticated *entity.User.
	ContextUser = "user"
	// ContextUserID holds the authenticated user id as a string, for request logging.
	ContextUserID = "userID"

	bearerPrefix = "Bearer "
)

// TokenValidator validates a token and returns its subject.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// UserFinder resolves a token subject to a user.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// AuthRequired returns a Gin middleware that authenticates the bearer token
// and stores the resolved user in the context.
func AuthRequired(tokens TokenValidator, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, status, reason := authenticate(c, tokens, users)
		if user == nil {
			c.AbortWithStatusJSON(status, api.ErrorResponse{Message: reason})
			return
		}

		c.Set(ContextUser, user)
		c.Set(ContextUserID, user.ID.String())
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenValidator, users UserFinder) (*entity.User, int, string) {
	// 1. Authorization header is required
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, http.StatusUnauthorized, "missing authorization header"
	}

	// 2. Exact, case-sensitive scheme keyword
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, http.StatusUnauthorized, "invalid authorization header"
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))

	// 3. Signature and expiry
	sub, err := tokens.Validate(tokenStr)
	if err != nil {
		if errors.Is(err, ErrMissingSecret) {
			zap.L().Error("jwt secret is not configured")
			return nil, http.StatusInternalServerError, "internal server error"
		}
		return nil, http.StatusUnauthorized, "invalid token"
	}

	// 4. Subject must be a user id
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, http.StatusUnauthorized, "invalid token subject"
	}

	// 5. A token for a deleted user must not authenticate
	user, err := users.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			zap.L().Warn("valid token for unknown user", zap.String("user_id", userID.String()))
			return nil, http.StatusUnauthorized, "user not found"
		}
		zap.L().Error("failed to resolve token subject", zap.Error(err))
		return nil, http.StatusInternalServerError, "internal server error"
	}

	return user, 0, ""
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

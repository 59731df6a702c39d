// Package api holds the HTTP request/response types shared by the transport layer
// and the helpers that map domain errors onto responses.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message"`
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// UploadStartRequest registers an upload. ExpiresAt is RFC 3339 with an offset.
type UploadStartRequest struct {
	FileName    string    `json:"file_name" binding:"required"`
	ContentType string    `json:"content_type" binding:"required"`
	ExpiresAt   time.Time `json:"expires_at" binding:"required"`
}

// UserResponse never carries the password hash or the verification id.
type UserResponse struct {
	ID        openapi_types.UUID `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	Email     string             `json:"email"`
	Verified  bool               `json:"verified"`
}

// TokenResponse is returned by signup, login and verify.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UploadResponse struct {
	ID           openapi_types.UUID  `json:"id"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	UserID       *openapi_types.UUID `json:"user_id"`
	FileName     string              `json:"file_name"`
	ContentType  string              `json:"content_type"`
	PresignedGet string              `json:"presigned_get"`
	ExpiresAt    time.Time           `json:"expires_at"`
}

// UploadStartResponse carries the short-lived PUT URL.
type UploadStartResponse struct {
	URL string `json:"url"`
}

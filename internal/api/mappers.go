package api

import (
	authentity "fileshare_backend/internal/feature/auth/domain/entity"
	uploadentity "fileshare_backend/internal/feature/upload/domain/entity"
)

func ToUserResponse(u *authentity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Email:     u.Email,
		Verified:  u.IsVerified(),
	}
}

func ToUploadResponse(u *uploadentity.Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		UserID:       u.UserID,
		FileName:     u.FileName,
		ContentType:  u.ContentType,
		PresignedGet: u.PresignedGet,
		ExpiresAt:    u.ExpiresAt,
	}
}

// ToUploadResponses never returns nil so an empty list encodes as [].
func ToUploadResponses(uploads []uploadentity.Upload) []UploadResponse {
	out := make([]UploadResponse, 0, len(uploads))
	for i := range uploads {
		out = append(out, ToUploadResponse(&uploads[i]))
	}
	return out
}

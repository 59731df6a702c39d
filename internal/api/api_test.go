package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "fileshare_backend/internal/feature/auth/domain/entity"
	uploadentity "fileshare_backend/internal/feature/upload/domain/entity"
	"fileshare_backend/internal/shared/apperr"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"forbidden", apperr.Forbidden("not the owner"), http.StatusForbidden, "not the owner"},
		{"conflict", apperr.Conflict("already done"), http.StatusConflict, "already done"},
		{"internal hides cause", apperr.Internal("failed to delete object", errors.New("s3: 10.0.0.3 timeout")), http.StatusInternalServerError, "internal server error"},
		{"untyped error", errors.New("pq: something"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.True(t, c.IsAborted())
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()

	r := gin.New()
	r.GET("/uploads/:id", func(c *gin.Context) {
		got, err := PathUUID(c, "id")
		if err != nil {
			BadRequest(c, err)
			return
		}
		c.String(http.StatusOK, got.String())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToUserResponse(t *testing.T) {
	vid := uuid.New()
	u := &authentity.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "secret-hash", VerifiedWithID: &vid}

	b, err := json.Marshal(ToUserResponse(u))
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "verified_with_id")
	assert.NotContains(t, string(b), "secret-hash")
}

func TestToUploadResponses(t *testing.T) {
	owner := uuid.New()
	expires := time.Now().Add(time.Hour).UTC()
	uploads := []uploadentity.Upload{
		{ID: uuid.New(), UserID: &owner, FileName: "a.txt", ContentType: "text/plain", PresignedGet: "https://get", ExpiresAt: expires},
		{ID: uuid.New(), FileName: "b.txt"},
	}

	got := ToUploadResponses(uploads)

	require.Len(t, got, 2)
	assert.Equal(t, &owner, got[0].UserID)
	assert.Equal(t, "https://get", got[0].PresignedGet)
	assert.Nil(t, got[1].UserID)
	assert.NotNil(t, ToUploadResponses(nil), "empty list must encode as []")
}

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"github.com/yigit/examprep/internal/pkg/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.ErrAllFieldsRequired, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"invalid id", apperrors.ErrInvalidStudentID, http.StatusBadRequest, dto.ErrorCodeInvalidStudentID},
		{"password", apperrors.ErrPasswordsMismatch, http.StatusBadRequest, dto.ErrorCodeInvalidPassword},
		{"conflict", apperrors.ErrUsernameTaken, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"credentials", apperrors.ErrWrongPassword, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"token missing", apperrors.ErrTokenMissing, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
		{"token expired", fmt.Errorf("parse: %w", apperrors.ErrTokenExpired), http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"wrapped", fmt.Errorf("service: %w", apperrors.ErrDataUnchanged), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := classify(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestHandleAPIError_HidesServerErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/allModelTests", nil)

	HandleAPIError(c, errors.New("dial tcp 10.0.0.1:27017: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.False(t, res.Success)
	assert.Equal(t, "Server error", res.Message)
	assert.True(t, c.IsAborted())
}

func TestHandleAPIError_UsesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/profile/x", nil)

	HandleAPIError(c, apperrors.ErrDataUnchanged)

	var res dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data unchanged", res.Message)
	assert.Equal(t, "Data unchanged", res.Error.Message)
}

type authFixture struct {
	router  *gin.Engine
	jwt     *auth.JWTService
	student *models.Student
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	jwtService, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "mw-secret", Expiration: time.Hour, TokenIssuer: "examprep"})
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtService, zerolog.Nop())
	router := gin.New()
	router.GET("/profile/:studentId", m.JWTAuth(), m.SameStudent("studentId"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"studentId": c.GetString(ContextStudentID), "email": c.GetString(ContextEmail)})
	})

	return &authFixture{
		router:  router,
		jwt:     jwtService,
		student: &models.Student{ID: primitive.NewObjectID(), Email: "a@x.com", Username: "alice"},
	}
}

func (f *authFixture) get(t *testing.T, path string, decorate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	f := newAuthFixture(t)
	token, _, err := f.jwt.GenerateToken(f.student)
	require.NoError(t, err)
	own := "/profile/" + f.student.ID.Hex()

	t.Run("bearer header", func(t *testing.T) {
		w := f.get(t, own, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) })
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, fmt.Sprintf(`{"studentId":%q,"email":"a@x.com"}`, f.student.ID.Hex()), w.Body.String())
	})

	t.Run("cookie", func(t *testing.T) {
		w := f.get(t, own, func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token}) })
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie wins over header", func(t *testing.T) {
		w := f.get(t, own, func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
			r.Header.Set("Authorization", "Bearer garbage")
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := f.get(t, own, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("tampered", func(t *testing.T) {
		w := f.get(t, own, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token+"x") })
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", Expiration: time.Hour, TokenIssuer: "examprep"})
		require.NoError(t, err)
		forged, _, err := other.GenerateToken(f.student)
		require.NoError(t, err)

		w := f.get(t, own, func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forged) })
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSameStudent(t *testing.T) {
	f := newAuthFixture(t)
	token, _, err := f.jwt.GenerateToken(f.student)
	require.NoError(t, err)
	bearer := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }

	w := f.get(t, "/profile/"+primitive.NewObjectID().Hex(), bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.get(t, "/profile/abc", bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.get(t, "/profile/"+strings.ToUpper(f.student.ID.Hex()), bearer)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetSessionCookie(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)

	SetSessionCookie(c, "tok", 3600, true)

	header := w.Header().Get("Set-Cookie")
	assert.Contains(t, header, "jwt=tok")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")
	assert.Contains(t, header, "Path=/")
}

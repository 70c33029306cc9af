package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"github.com/yigit/examprep/internal/pkg/auth"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "jwt"

// Context keys set by JWTAuth
const (
	ContextStudentID = "studentID"
	ContextEmail     = "email"
)

var errOtherStudent = apperrors.NewForbiddenError("You can only access your own account")

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// JWTAuth validates the session token from the jwt cookie or the
// Authorization header and stores the student identity in the context.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Token rejected")
			if !errors.Is(err, apperrors.ErrTokenExpired) {
				err = apperrors.ErrTokenInvalid
			}
			HandleAPIError(c, err)
			return
		}

		c.Set(ContextStudentID, claims.StudentID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// SameStudent rejects requests whose path parameter names a different
// student than the authenticated one. It must run after JWTAuth.
func (m *AuthMiddleware) SameStudent(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requested := c.Param(param)
		requestedID, ok := models.ParseID(requested)
		if !ok {
			HandleAPIError(c, apperrors.ErrInvalidStudentID)
			return
		}

		current := c.GetString(ContextStudentID)
		if currentID, ok := models.ParseID(current); !ok || currentID != requestedID {
			m.logger.Warn().Str("studentID", current).Str("requested", requested).Msg("Cross-account access denied")
			HandleAPIError(c, errOtherStudent)
			return
		}

		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperrors.ErrTokenMissing
	}
	return auth.ExtractBearerToken(header)
}

// SetSessionCookie writes the session cookie. A negative maxAge clears it.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", secure, true)
}

package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/pkg/apperrors"
	"github.com/yigit/examprep/internal/pkg/logger"
)

// serverErrorMessage is the only message clients see for unexpected failures
const serverErrorMessage = "Server error"

// HandleAPIError maps an error onto a status code and the standard error body.
// Errors outside the apperrors categories are logged and answered with 500.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classify(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled server error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, *dto.ErrorDetail) {
	message := apperrors.UserMessage(err)
	var details map[string]interface{}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		details = ce.Details
	}

	detail := func(code dto.ErrorCode, fallback string) *dto.ErrorDetail {
		msg := message
		if msg == "" {
			msg = fallback
		}
		d := dto.NewErrorDetail(code, msg)
		if len(details) > 0 {
			d.WithDetails(details)
		}
		return d
	}

	switch {
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, detail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenMissing):
		return http.StatusUnauthorized, detail(dto.ErrorCodeTokenNotFound, "Authentication required")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, detail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrValidationFailed):
		return http.StatusBadRequest, detail(validationCode(err), "Validation failed")
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, detail(dto.ErrorCodeResourceAlreadyExists, "Resource already exists")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, detail(dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, detail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, detail(dto.ErrorCodeForbidden, "Permission denied")
	default:
		return http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, serverErrorMessage).WithSeverity(dto.ErrorSeverityCritical)
	}
}

func validationCode(err error) dto.ErrorCode {
	switch {
	case errors.Is(err, apperrors.ErrInvalidStudentID):
		return dto.ErrorCodeInvalidStudentID
	case errors.Is(err, apperrors.ErrInvalidEmail):
		return dto.ErrorCodeInvalidEmail
	case errors.Is(err, apperrors.ErrPasswordTooShort), errors.Is(err, apperrors.ErrPasswordsMismatch):
		return dto.ErrorCodeInvalidPassword
	case errors.Is(err, apperrors.ErrInvalidModelTest):
		return dto.ErrorCodeResourceInvalid
	default:
		return dto.ErrorCodeValidationFailed
	}
}

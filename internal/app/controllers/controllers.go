// Package controllers handles HTTP request handling
package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models/dto"
)

// bindJSON decodes the request body into obj. An empty body leaves obj
// untouched so the service reports missing fields itself. On failure the
// 400 response is written and false returned.
func bindJSON(ctx *gin.Context, obj interface{}, logger zerolog.Logger) bool {
	err := ctx.ShouldBindJSON(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	logger.Warn().Err(err).Str("path", ctx.Request.URL.Path).Msg("Invalid request payload")
	ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
	return false
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/services"
	"github.com/yigit/examprep/internal/middleware"
)

// StudentController handles profile and password operations
type StudentController struct {
	studentService services.StudentService
	authService    services.AuthService
	logger         zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, authService services.AuthService, logger zerolog.Logger) *StudentController {
	return &StudentController{
		studentService: studentService,
		authService:    authService,
		logger:         logger,
	}
}

// GetProfile returns the student's profile
// @Summary Get student profile
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Success 200 {object} models.StudentProfile
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID format"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 403 {object} dto.ErrorResponse "Another student's profile"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /profile/{studentId} [get]
func (c *StudentController) GetProfile(ctx *gin.Context) {
	profile, err := c.studentService.GetProfile(ctx.Request.Context(), ctx.Param("studentId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a sparse profile update
// @Summary Update student profile
// @Description Fields left out of the body are untouched; fields sent empty are cleared
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.MessageResponse "Profile updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID or field"
// @Failure 404 {object} dto.ErrorResponse "Student not found or data unchanged"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /profile/{studentId} [put]
func (c *StudentController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindJSON(ctx, &req, c.logger) {
		return
	}

	if err := c.studentService.UpdateProfile(ctx.Request.Context(), ctx.Param("studentId"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Profile updated successfully"})
}

// ChangePassword replaces the student's password
// @Summary Change password
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student ID"
// @Param request body dto.ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} dto.MessageResponse "Password updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID, short or mismatched password"
// @Failure 401 {object} dto.ErrorResponse "Invalid old password"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /update-password/{studentId} [post]
func (c *StudentController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(ctx, &req, c.logger) {
		return
	}

	if err := c.authService.ChangePassword(ctx.Request.Context(), ctx.Param("studentId"), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Password updated successfully"})
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/services"
	"github.com/yigit/examprep/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  services.AuthService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Register handles student registration
// @Summary Register a new student
// @Description Creates a student account and signs the student in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.AuthResponse "Student registered successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing fields or malformed email"
// @Failure 409 {object} dto.ErrorResponse "Email or username already exists"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(ctx, &req, c.logger) {
		return
	}

	result, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Registration failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setSession(ctx, result)
	ctx.JSON(http.StatusCreated, dto.AuthResponse{
		Message:     "Student registered successfully",
		StudentID:   result.Student.ID.Hex(),
		StudentName: result.Student.Username,
		Token:       result.Token,
		IsStudent:   true,
	})
}

// Login handles student login
// @Summary Student login
// @Description Verifies credentials, sets the jwt cookie and returns the token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Email and password are required"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req, c.logger) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("studentID", result.Student.ID.Hex()).Msg("Student logged in")

	c.setSession(ctx, result)
	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Message:     "Login successful",
		StudentID:   result.Student.ID.Hex(),
		StudentName: result.Student.Username,
		Token:       result.Token,
		IsStudent:   true,
	})
}

// Logout clears the session cookie
// @Summary Student logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse "Logout successful"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	middleware.SetSessionCookie(ctx, "", -1, c.cookieSecure)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logout successful"})
}

func (c *AuthController) setSession(ctx *gin.Context, result *services.AuthResult) {
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	middleware.SetSessionCookie(ctx, result.Token, maxAge, c.cookieSecure)
}

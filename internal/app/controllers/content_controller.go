package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/app/services"
	"github.com/yigit/examprep/internal/middleware"
)

// ContentController serves question banks and model tests
type ContentController struct {
	contentService services.ContentService
	logger         zerolog.Logger
}

// NewContentController creates a new ContentController
func NewContentController(contentService services.ContentService, logger zerolog.Logger) *ContentController {
	return &ContentController{
		contentService: contentService,
		logger:         logger,
	}
}

// GetQuestions lists the questions of one subject
// @Summary Questions by subject
// @Tags content
// @Produce json
// @Param subject query string true "Subject name"
// @Success 200 {array} models.Question
// @Failure 400 {object} dto.ErrorResponse "Subject is required"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /questions [get]
func (c *ContentController) GetQuestions(ctx *gin.Context) {
	questions, err := c.contentService.ListQuestionsBySubject(ctx.Request.Context(), ctx.Query("subject"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetAllQuestions lists the questions of every subject
// @Summary All questions
// @Tags content
// @Produce json
// @Success 200 {array} models.Question
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /allQuestions [get]
func (c *ContentController) GetAllQuestions(ctx *gin.Context) {
	questions, err := c.contentService.ListAllQuestions(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// StoreModelTest stores a model test
// @Summary Store model test
// @Tags content
// @Accept json
// @Produce json
// @Param request body dto.CreateModelTestRequest true "Model test"
// @Success 201 {object} dto.CreatedResponse "ModelTest stored successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /storeModelTest [post]
func (c *ContentController) StoreModelTest(ctx *gin.Context) {
	var req dto.CreateModelTestRequest
	if !bindJSON(ctx, &req, c.logger) {
		return
	}

	id, err := c.contentService.CreateModelTest(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.CreatedResponse{Message: "ModelTest stored successfully", ID: id})
}

// GetAllModelTests lists every model test
// @Summary All model tests
// @Tags content
// @Produce json
// @Success 200 {array} models.ModelTest
// @Failure 500 {object} dto.ErrorResponse "Server error"
// @Router /allModelTests [get]
func (c *ContentController) GetAllModelTests(ctx *gin.Context) {
	tests, err := c.contentService.ListModelTests(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, tests)
}

// GetModelTest returns one model test
// @Summary Model test by ID
// @Tags content
// @Produce json
// @Param id path string true "Model test ID"
// @Success 200 {object} models.ModelTest
// @Failure 400 {object} dto.ErrorResponse "Invalid model test ID format"
// @Failure 404 {object} dto.ErrorResponse "ModelTest not found"
// @Router /mockTest/{id} [get]
func (c *ContentController) GetModelTest(ctx *gin.Context) {
	test, err := c.contentService.GetModelTest(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, test)
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/examprep/internal/app/controllers"
	"github.com/yigit/examprep/internal/app/models/dto"
	"github.com/yigit/examprep/internal/middleware"
)

// SetupRouter configures all application routes. Paths are served at the
// root because the exam client calls them there.
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	contentController *controllers.ContentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public auth routes ---
	router.POST("/register", authController.Register)
	router.POST("/login", authController.Login)
	router.POST("/logout", authController.Logout)

	// --- Student routes, own account only ---
	student := router.Group("")
	student.Use(authMiddleware.JWTAuth(), authMiddleware.SameStudent("studentId"))
	{
		student.GET("/profile/:studentId", studentController.GetProfile)
		student.PUT("/profile/:studentId", studentController.UpdateProfile)
		student.POST("/update-password/:studentId", studentController.ChangePassword)
	}

	// --- Public content routes ---
	router.GET("/questions", contentController.GetQuestions)
	router.GET("/allQuestions", contentController.GetAllQuestions)
	router.POST("/storeModelTest", contentController.StoreModelTest)
	router.GET("/allModelTests", contentController.GetAllModelTests)
	router.GET("/mockTest/:id", contentController.GetModelTest)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
	})
}

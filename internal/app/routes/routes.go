package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/controllers"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/middleware"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth         *controllers.AuthController
	Subject      *controllers.SubjectController
	Grade        *controllers.GradeController
	QuestionType *controllers.QuestionTypeController
	Chapter      *controllers.ChapterController
	Question     *controllers.QuestionController
}

// SetupRouter configures all application routes. loginGuard runs before the
// login handler and may be nil when throttling is disabled.
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	loginGuard gin.HandlerFunc,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "OK", gin.H{"status": "up"}))
	})

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public user routes ---
	users := v1.Group("/users")
	{
		users.POST("/register", ctrl.Auth.Register)
		if loginGuard != nil {
			users.POST("/login", loginGuard, ctrl.Auth.Login)
		} else {
			users.POST("/login", ctrl.Auth.Login)
		}
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	authenticated.POST("/users/logout", ctrl.Auth.Logout)
	authenticated.GET("/auth/me", ctrl.Auth.Me)

	subjects := authenticated.Group("/subjects")
	{
		subjects.GET("", ctrl.Subject.GetAllSubjects)
		subjects.GET("/:id", ctrl.Subject.GetSubjectByID)
		subjects.POST("", adminOnly, ctrl.Subject.CreateSubject)
		subjects.DELETE("/:id", adminOnly, ctrl.Subject.DeleteSubject)
	}

	// Grades are admin only, reads included
	grades := authenticated.Group("/grades")
	grades.Use(adminOnly)
	{
		grades.POST("", ctrl.Grade.CreateGrade)
		grades.GET("", ctrl.Grade.GetAllGrades)
		grades.GET("/:id", ctrl.Grade.GetGradeByID)
		grades.DELETE("/:id", ctrl.Grade.DeleteGrade)
	}

	questionTypes := authenticated.Group("/question-types")
	{
		questionTypes.GET("", ctrl.QuestionType.GetAllQuestionTypes)
		questionTypes.GET("/:id", ctrl.QuestionType.GetQuestionTypeByID)
		questionTypes.POST("", adminOnly, ctrl.QuestionType.CreateQuestionType)
		questionTypes.DELETE("/:id", adminOnly, ctrl.QuestionType.DeleteQuestionType)
	}

	chapters := authenticated.Group("/chapters")
	{
		chapters.POST("", ctrl.Chapter.CreateChapter)
		chapters.GET("", ctrl.Chapter.GetChapters)
		chapters.GET("/filter", ctrl.Chapter.FilterChapters)
		chapters.GET("/:id", ctrl.Chapter.GetChapterByID)
		chapters.PUT("/:id", ctrl.Chapter.UpdateChapter)
		chapters.DELETE("/:id", ctrl.Chapter.DeleteChapter)
	}

	questions := authenticated.Group("/questions")
	{
		questions.POST("", ctrl.Question.CreateQuestion)
		questions.GET("", ctrl.Question.ListQuestions)
		questions.GET("/:id", ctrl.Question.GetQuestionByID)
		questions.PUT("/:id", ctrl.Question.UpdateQuestion)
		questions.DELETE("/:id", ctrl.Question.DeleteQuestion)
	}
}

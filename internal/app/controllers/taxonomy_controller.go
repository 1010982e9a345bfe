package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/services"
	"github.com/yigit/questionbank/internal/middleware"
)

// SubjectController handles subject endpoints
type SubjectController struct {
	subjectService services.SubjectService
}

// NewSubjectController creates a new SubjectController
func NewSubjectController(subjectService services.SubjectService) *SubjectController {
	return &SubjectController{subjectService: subjectService}
}

// CreateSubject adds a subject
// @Summary Add subject
// @Tags subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject added successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 403 {object} dto.APIResponse "Admin access required"
// @Failure 409 {object} dto.APIResponse "Subject already exists"
// @Router /subjects [post]
func (c *SubjectController) CreateSubject(ctx *gin.Context) {
	var req dto.CreateSubjectRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	subject, err := c.subjectService.CreateSubject(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Subject added successfully", subject))
}

// GetAllSubjects lists subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects fetched successfully"
// @Router /subjects [get]
func (c *SubjectController) GetAllSubjects(ctx *gin.Context) {
	subjects, err := c.subjectService.GetAllSubjects(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Subjects fetched successfully", subjects))
}

// GetSubjectByID returns one subject
// @Summary Get subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Subject fetched successfully"
// @Failure 400 {object} dto.APIResponse "Invalid subject ID"
// @Failure 404 {object} dto.APIResponse "Subject not found"
// @Router /subjects/{id} [get]
func (c *SubjectController) GetSubjectByID(ctx *gin.Context) {
	subject, err := c.subjectService.GetSubjectByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Subject fetched successfully", subject))
}

// DeleteSubject removes a subject
// @Summary Delete subject
// @Tags subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Subject deleted successfully"
// @Failure 404 {object} dto.APIResponse "Subject not found"
// @Failure 409 {object} dto.APIResponse "Subject still in use"
// @Router /subjects/{id} [delete]
func (c *SubjectController) DeleteSubject(ctx *gin.Context) {
	if err := c.subjectService.DeleteSubject(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Subject deleted successfully", dto.DeletedResponse{ID: ctx.Param("id")}))
}

// GradeController handles grade endpoints
type GradeController struct {
	gradeService services.GradeService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// CreateGrade adds a grade
// @Summary Add grade
// @Description Creates a grade linked to one or more existing subjects
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade} "Grade added successfully"
// @Failure 400 {object} dto.APIResponse "Invalid subject ID"
// @Failure 404 {object} dto.APIResponse "One or more subjects not found"
// @Failure 409 {object} dto.APIResponse "Grade already exists"
// @Router /grades [post]
func (c *GradeController) CreateGrade(ctx *gin.Context) {
	var req dto.CreateGradeRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	grade, err := c.gradeService.CreateGrade(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Grade added successfully", grade))
}

// GetAllGrades lists grades
// @Summary List grades
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Grade} "Grades fetched successfully"
// @Router /grades [get]
func (c *GradeController) GetAllGrades(ctx *gin.Context) {
	grades, err := c.gradeService.GetAllGrades(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Grades fetched successfully", grades))
}

// GetGradeByID returns one grade
// @Summary Get grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=models.Grade} "Grade fetched successfully"
// @Failure 400 {object} dto.APIResponse "Invalid grade ID"
// @Failure 404 {object} dto.APIResponse "Grade not found"
// @Router /grades/{id} [get]
func (c *GradeController) GetGradeByID(ctx *gin.Context) {
	grade, err := c.gradeService.GetGradeByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Grade fetched successfully", grade))
}

// DeleteGrade removes a grade
// @Summary Delete grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Grade deleted successfully"
// @Failure 404 {object} dto.APIResponse "Grade not found"
// @Failure 409 {object} dto.APIResponse "Grade still in use"
// @Router /grades/{id} [delete]
func (c *GradeController) DeleteGrade(ctx *gin.Context) {
	if err := c.gradeService.DeleteGrade(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Grade deleted successfully", dto.DeletedResponse{ID: ctx.Param("id")}))
}

// QuestionTypeController handles question type endpoints
type QuestionTypeController struct {
	questionTypeService services.QuestionTypeService
}

// NewQuestionTypeController creates a new QuestionTypeController
func NewQuestionTypeController(questionTypeService services.QuestionTypeService) *QuestionTypeController {
	return &QuestionTypeController{questionTypeService: questionTypeService}
}

// CreateQuestionType adds a question type
// @Summary Add question type
// @Tags question-types
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionTypeRequest true "Question type"
// @Success 201 {object} dto.APIResponse{data=models.QuestionType} "Question type added successfully"
// @Failure 409 {object} dto.APIResponse "Question type already exists"
// @Router /question-types [post]
func (c *QuestionTypeController) CreateQuestionType(ctx *gin.Context) {
	var req dto.CreateQuestionTypeRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	qt, err := c.questionTypeService.CreateQuestionType(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Question type added successfully", qt))
}

// GetAllQuestionTypes lists question types
// @Summary List question types
// @Tags question-types
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.QuestionType} "Question types fetched successfully"
// @Router /question-types [get]
func (c *QuestionTypeController) GetAllQuestionTypes(ctx *gin.Context) {
	types, err := c.questionTypeService.GetAllQuestionTypes(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question types fetched successfully", types))
}

// GetQuestionTypeByID returns one question type
// @Summary Get question type
// @Tags question-types
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question type ID"
// @Success 200 {object} dto.APIResponse{data=models.QuestionType} "Question type fetched successfully"
// @Failure 400 {object} dto.APIResponse "Invalid question type ID"
// @Failure 404 {object} dto.APIResponse "Question type not found"
// @Router /question-types/{id} [get]
func (c *QuestionTypeController) GetQuestionTypeByID(ctx *gin.Context) {
	qt, err := c.questionTypeService.GetQuestionTypeByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question type fetched successfully", qt))
}

// DeleteQuestionType removes a question type
// @Summary Delete question type
// @Tags question-types
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question type ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Question type deleted successfully"
// @Failure 409 {object} dto.APIResponse "Question type still in use"
// @Router /question-types/{id} [delete]
func (c *QuestionTypeController) DeleteQuestionType(ctx *gin.Context) {
	if err := c.questionTypeService.DeleteQuestionType(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question type deleted successfully", dto.DeletedResponse{ID: ctx.Param("id")}))
}

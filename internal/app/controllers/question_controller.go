package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/services"
	"github.com/yigit/questionbank/internal/middleware"
	"github.com/yigit/questionbank/internal/pkg/helpers"
)

// QuestionController handles question endpoints
type QuestionController struct {
	questionService services.QuestionService
}

// NewQuestionController creates a new QuestionController
func NewQuestionController(questionService services.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// CreateQuestion adds a question owned by the caller
// @Summary Add question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Question"
// @Success 201 {object} dto.APIResponse{data=models.Question} "Question added successfully"
// @Failure 400 {object} dto.APIResponse "Invalid reference ID"
// @Failure 404 {object} dto.APIResponse "Referenced entity not found"
// @Failure 409 {object} dto.APIResponse "Question already exists"
// @Router /questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	var req dto.CreateQuestionRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	question, err := c.questionService.CreateQuestion(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Question added successfully", question))
}

// ListQuestions returns a page of questions
// @Summary List questions
// @Description Returns the caller's questions, or all questions for an admin, newest first
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param grade query string false "Grade ID"
// @Param subject query string false "Subject ID"
// @Param chapter query string false "Chapter ID"
// @Param questionType query string false "Question type ID"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedData{items=[]models.Question}} "Questions fetched successfully"
// @Failure 400 {object} dto.APIResponse "Invalid filter ID"
// @Router /questions [get]
func (c *QuestionController) ListQuestions(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)
	page := helpers.PageFromQuery(ctx)

	questions, total, err := c.questionService.ListQuestions(ctx.Request.Context(), actor, services.QuestionListParams{
		Grade:        ctx.Query("grade"),
		Subject:      ctx.Query("subject"),
		Chapter:      ctx.Query("chapter"),
		QuestionType: ctx.Query("questionType"),
		Page:         page,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Questions fetched successfully", dto.PaginatedData{
		Items:      questions,
		Pagination: page.Info(total),
	}))
}

// GetQuestionByID returns a question the caller owns
// @Summary Get question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.APIResponse{data=models.Question} "Question fetched successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestionByID(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	question, err := c.questionService.GetQuestionByID(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question fetched successfully", question))
}

// UpdateQuestion applies a sparse patch. A non-owner gets 403 whatever the body holds.
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Param request body dto.UpdateQuestionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Question} "Question updated successfully"
// @Failure 400 {object} dto.APIResponse "Invalid reference ID"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Failure 409 {object} dto.APIResponse "Question already exists"
// @Router /questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	question, err := c.questionService.AuthorizeQuestionUpdate(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateQuestionRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.questionService.ApplyQuestionUpdate(ctx.Request.Context(), question, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question updated successfully", updated))
}

// DeleteQuestion removes a question the caller owns
// @Summary Delete question
// @Tags questions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Question deleted successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Question not found"
// @Router /questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	if err := c.questionService.DeleteQuestion(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Question deleted successfully", dto.DeletedResponse{ID: ctx.Param("id")}))
}

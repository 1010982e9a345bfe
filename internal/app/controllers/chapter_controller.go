package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/services"
	"github.com/yigit/questionbank/internal/middleware"
)

// ChapterController handles chapter endpoints. Every handler requires an authenticated user.
type ChapterController struct {
	chapterService services.ChapterService
}

// NewChapterController creates a new ChapterController
func NewChapterController(chapterService services.ChapterService) *ChapterController {
	return &ChapterController{chapterService: chapterService}
}

// CreateChapter adds a chapter owned by the caller
// @Summary Add chapter
// @Description grade and subject accept either an id or the unique name
// @Tags chapters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateChapterRequest true "Chapter"
// @Success 201 {object} dto.APIResponse{data=models.Chapter} "Chapter added successfully"
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 404 {object} dto.APIResponse "Grade or subject not found"
// @Failure 409 {object} dto.APIResponse "Chapter already exists"
// @Router /chapters [post]
func (c *ChapterController) CreateChapter(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	var req dto.CreateChapterRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	chapter, err := c.chapterService.CreateChapter(ctx.Request.Context(), actor, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(http.StatusCreated, "Chapter added successfully", chapter))
}

// GetChapters lists the caller's chapters; admins see all of them
// @Summary List chapters
// @Tags chapters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Chapter} "Chapters fetched successfully"
// @Router /chapters [get]
func (c *ChapterController) GetChapters(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	chapters, err := c.chapterService.GetChapters(ctx.Request.Context(), actor)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Chapters fetched successfully", chapters))
}

// FilterChapters narrows the chapter list by grade and subject
// @Summary Filter chapters
// @Tags chapters
// @Produce json
// @Security BearerAuth
// @Param grade query string true "Grade id or name"
// @Param subject query string true "Subject id or name"
// @Success 200 {object} dto.APIResponse{data=[]models.Chapter} "Chapters fetched successfully"
// @Failure 404 {object} dto.APIResponse "Grade or subject not found"
// @Router /chapters/filter [get]
func (c *ChapterController) FilterChapters(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	chapters, err := c.chapterService.FilterChapters(ctx.Request.Context(), actor, ctx.Query("grade"), ctx.Query("subject"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Chapters fetched successfully", chapters))
}

// GetChapterByID returns a chapter the caller owns
// @Summary Get chapter
// @Tags chapters
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chapter ID"
// @Success 200 {object} dto.APIResponse{data=models.Chapter} "Chapter fetched successfully"
// @Failure 400 {object} dto.APIResponse "Invalid chapter ID"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Chapter not found"
// @Router /chapters/{id} [get]
func (c *ChapterController) GetChapterByID(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	chapter, err := c.chapterService.GetChapterByID(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Chapter fetched successfully", chapter))
}

// UpdateChapter applies a sparse patch. Ownership is checked before the body is read.
// @Summary Update chapter
// @Tags chapters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chapter ID"
// @Param request body dto.UpdateChapterRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Chapter} "Chapter updated successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Chapter not found"
// @Failure 409 {object} dto.APIResponse "Chapter already exists"
// @Router /chapters/{id} [put]
func (c *ChapterController) UpdateChapter(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	chapter, err := c.chapterService.AuthorizeChapterUpdate(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.UpdateChapterRequest
	if err := middleware.BindJSON(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.chapterService.ApplyChapterUpdate(ctx.Request.Context(), chapter, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Chapter updated successfully", updated))
}

// DeleteChapter removes a chapter the caller owns
// @Summary Delete chapter
// @Tags chapters
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chapter ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeletedResponse} "Chapter deleted successfully"
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Failure 404 {object} dto.APIResponse "Chapter not found"
// @Failure 409 {object} dto.APIResponse "Chapter still has questions"
// @Router /chapters/{id} [delete]
func (c *ChapterController) DeleteChapter(ctx *gin.Context) {
	actor, _ := middleware.CurrentUser(ctx)

	if err := c.chapterService.DeleteChapter(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(http.StatusOK, "Chapter deleted successfully", dto.DeletedResponse{ID: ctx.Param("id")}))
}

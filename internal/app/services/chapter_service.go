package services

import (
	"context"
	"strings"

	"github.com/yigit/questionbank/internal/app/auth"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

const chapterNoun = "chapters"

// ChapterService defines the chapter operations. Chapters are owned by their
// creator; admins may act on any chapter.
type ChapterService interface {
	CreateChapter(ctx context.Context, actor *models.User, req *dto.CreateChapterRequest) (*models.Chapter, error)
	GetChapters(ctx context.Context, actor *models.User) ([]*models.Chapter, error)
	FilterChapters(ctx context.Context, actor *models.User, grade, subject string) ([]*models.Chapter, error)
	GetChapterByID(ctx context.Context, actor *models.User, rawID string) (*models.Chapter, error)
	// AuthorizeChapterUpdate fetches the chapter and checks ownership before the payload is read
	AuthorizeChapterUpdate(ctx context.Context, actor *models.User, rawID string) (*models.Chapter, error)
	ApplyChapterUpdate(ctx context.Context, chapter *models.Chapter, req *dto.UpdateChapterRequest) (*models.Chapter, error)
	DeleteChapter(ctx context.Context, actor *models.User, rawID string) error
}

type chapterServiceImpl struct {
	repos  *repositories.Repositories
	refs   *ReferenceValidator
	unique *UniquenessEnforcer
}

// NewChapterService creates a new chapter service instance
func NewChapterService(repos *repositories.Repositories) ChapterService {
	return &chapterServiceImpl{
		repos:  repos,
		refs:   NewReferenceValidator(repos),
		unique: NewUniquenessEnforcer(repos),
	}
}

// CreateChapter files a chapter under a grade and subject for actor
func (s *chapterServiceImpl) CreateChapter(ctx context.Context, actor *models.User, req *dto.CreateChapterRequest) (*models.Chapter, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	chapterName := strings.TrimSpace(req.ChapterName)
	if validation.AnyBlank(req.Grade, req.Subject, chapterName) {
		return nil, apperrors.NewBadRequestError("Grade, subject, and chapter name cannot be empty")
	}
	if err := checkChapterText(&chapterName, req.BookName); err != nil {
		return nil, err
	}

	grade, subject, err := s.refs.ResolveTaxonomy(ctx, TaxonomyKeys{Grade: &req.Grade, Subject: &req.Subject})
	if err != nil {
		return nil, err
	}

	if err := s.unique.ChapterKey(ctx, grade.ID, subject.ID, chapterName, actor.ID, nil); err != nil {
		return nil, err
	}

	chapter := &models.Chapter{
		GradeID:     grade.ID,
		SubjectID:   subject.ID,
		ChapterName: chapterName,
		BookName:    validation.OptionalText(req.BookName),
		CreatedBy:   actor.ID,
	}
	if err := s.repos.Chapters.Create(ctx, chapter); err != nil {
		return nil, chapterErrors.translateWrite(err, "create chapter")
	}

	logger.Info().Str("chapterID", chapter.ID.String()).Str("userID", actor.ID.String()).Msg("Chapter created")
	return s.populated(ctx, chapter)
}

// GetChapters lists actor's chapters, or every chapter for an admin, newest first
func (s *chapterServiceImpl) GetChapters(ctx context.Context, actor *models.User) ([]*models.Chapter, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	return s.list(ctx, models.ChapterFilter{CreatedBy: auth.OwnerScope(actor)})
}

// FilterChapters lists chapters of one grade and subject, scoped like GetChapters
func (s *chapterServiceImpl) FilterChapters(ctx context.Context, actor *models.User, grade, subject string) ([]*models.Chapter, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	if validation.AnyBlank(grade, subject) {
		return nil, apperrors.NewBadRequestError("Grade and subject are required")
	}

	g, sub, err := s.refs.ResolveTaxonomy(ctx, TaxonomyKeys{Grade: &grade, Subject: &subject})
	if err != nil {
		return nil, err
	}
	return s.list(ctx, models.ChapterFilter{
		CreatedBy: auth.OwnerScope(actor),
		GradeID:   &g.ID,
		SubjectID: &sub.ID,
	})
}

func (s *chapterServiceImpl) list(ctx context.Context, filter models.ChapterFilter) ([]*models.Chapter, error) {
	chapters, err := s.repos.Chapters.List(ctx, filter)
	if err != nil {
		return nil, chapterErrors.translate(err, "list chapters")
	}
	if err := newPopulator(s.repos).fillChapters(ctx, chapters); err != nil {
		return nil, err
	}
	return chapters, nil
}

// fetchOwned loads a chapter and applies the ownership policy for action
func (s *chapterServiceImpl) fetchOwned(ctx context.Context, actor *models.User, rawID, action string) (*models.Chapter, error) {
	id, err := parsePathID(rawID, "chapter")
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	chapter, err := s.repos.Chapters.GetByID(ctx, id)
	if err != nil {
		return nil, chapterErrors.translate(err, "get chapter")
	}
	if err := auth.RequireOwnerOrAdmin(chapter.CreatedBy, actor, action, chapterNoun); err != nil {
		return nil, err
	}
	return chapter, nil
}

// GetChapterByID returns a chapter its owner or an admin may access
func (s *chapterServiceImpl) GetChapterByID(ctx context.Context, actor *models.User, rawID string) (*models.Chapter, error) {
	chapter, err := s.fetchOwned(ctx, actor, rawID, auth.ActionAccess)
	if err != nil {
		return nil, err
	}
	return s.populated(ctx, chapter)
}

// AuthorizeChapterUpdate implements ChapterService
func (s *chapterServiceImpl) AuthorizeChapterUpdate(ctx context.Context, actor *models.User, rawID string) (*models.Chapter, error) {
	return s.fetchOwned(ctx, actor, rawID, auth.ActionUpdate)
}

// ApplyChapterUpdate patches the fields present in req. The natural key stays
// scoped to the chapter's creator even when an admin edits it.
func (s *chapterServiceImpl) ApplyChapterUpdate(ctx context.Context, chapter *models.Chapter, req *dto.UpdateChapterRequest) (*models.Chapter, error) {
	if req.ChapterName != nil && validation.IsBlank(*req.ChapterName) {
		return nil, apperrors.NewBadRequestError("Chapter name cannot be empty")
	}
	if err := checkChapterText(req.ChapterName, req.BookName); err != nil {
		return nil, err
	}

	grade, subject, err := s.refs.ResolveTaxonomy(ctx, TaxonomyKeys{Grade: req.Grade, Subject: req.Subject})
	if err != nil {
		return nil, err
	}

	updated := *chapter
	if grade != nil {
		updated.GradeID = grade.ID
	}
	if subject != nil {
		updated.SubjectID = subject.ID
	}
	if req.ChapterName != nil {
		updated.ChapterName = strings.TrimSpace(*req.ChapterName)
	}
	if req.BookName != nil {
		updated.BookName = validation.OptionalText(req.BookName)
	}

	if err := s.unique.ChapterKey(ctx, updated.GradeID, updated.SubjectID, updated.ChapterName, updated.CreatedBy, &updated.ID); err != nil {
		return nil, err
	}

	if err := s.repos.Chapters.Update(ctx, &updated); err != nil {
		return nil, chapterErrors.translateWrite(err, "update chapter")
	}

	logger.Info().Str("chapterID", updated.ID.String()).Msg("Chapter updated")
	return s.populated(ctx, &updated)
}

// DeleteChapter removes a chapter its owner or an admin may delete
func (s *chapterServiceImpl) DeleteChapter(ctx context.Context, actor *models.User, rawID string) error {
	chapter, err := s.fetchOwned(ctx, actor, rawID, auth.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.repos.Chapters.Delete(ctx, chapter.ID); err != nil {
		return chapterErrors.translate(err, "delete chapter")
	}
	logger.Info().Str("chapterID", chapter.ID.String()).Str("userID", actor.ID.String()).Msg("Chapter deleted")
	return nil
}

func (s *chapterServiceImpl) populated(ctx context.Context, chapter *models.Chapter) (*models.Chapter, error) {
	if err := newPopulator(s.repos).fillChapter(ctx, chapter); err != nil {
		return nil, err
	}
	return chapter, nil
}

func checkChapterText(chapterName, bookName *string) error {
	if chapterName != nil {
		if err := checkLength("chapterName", strings.TrimSpace(*chapterName), validation.MaxChapterNameLength); err != nil {
			return err
		}
	}
	if bookName != nil {
		return checkLength("bookName", strings.TrimSpace(*bookName), validation.MaxBookNameLength)
	}
	return nil
}

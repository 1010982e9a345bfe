package services

import (
	"context"
	"strings"

	"github.com/yigit/questionbank/internal/app/auth"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/helpers"
	"github.com/yigit/questionbank/internal/pkg/logger"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

const questionNoun = "questions"

// QuestionListParams are the raw query parameters of a question listing
type QuestionListParams struct {
	Grade        string
	Subject      string
	Chapter      string
	QuestionType string
	Page         helpers.Page
}

// QuestionService defines the question operations. Questions are owned by
// their creator; admins may act on any question.
type QuestionService interface {
	CreateQuestion(ctx context.Context, actor *models.User, req *dto.CreateQuestionRequest) (*models.Question, error)
	ListQuestions(ctx context.Context, actor *models.User, params QuestionListParams) ([]*models.Question, int64, error)
	GetQuestionByID(ctx context.Context, actor *models.User, rawID string) (*models.Question, error)
	// AuthorizeQuestionUpdate fetches the question and checks ownership before the payload is read
	AuthorizeQuestionUpdate(ctx context.Context, actor *models.User, rawID string) (*models.Question, error)
	ApplyQuestionUpdate(ctx context.Context, question *models.Question, req *dto.UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, actor *models.User, rawID string) error
}

type questionServiceImpl struct {
	repos  *repositories.Repositories
	refs   *ReferenceValidator
	unique *UniquenessEnforcer
}

// NewQuestionService creates a new question service instance
func NewQuestionService(repos *repositories.Repositories) QuestionService {
	return &questionServiceImpl{
		repos:  repos,
		refs:   NewReferenceValidator(repos),
		unique: NewUniquenessEnforcer(repos),
	}
}

// CreateQuestion stores a question for actor after checking every reference
func (s *questionServiceImpl) CreateQuestion(ctx context.Context, actor *models.User, req *dto.CreateQuestionRequest) (*models.Question, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	text := strings.TrimSpace(req.Question)
	description := strings.TrimSpace(req.Description)
	if text == "" || description == "" {
		return nil, apperrors.NewBadRequestError("Question and description cannot be empty")
	}

	resolved, err := s.refs.Resolve(ctx, References{
		Grade:        &req.Grade,
		Subject:      &req.Subject,
		Chapter:      &req.Chapter,
		QuestionType: &req.QuestionType,
	})
	if err != nil {
		return nil, err
	}

	if err := s.unique.QuestionText(ctx, text, nil); err != nil {
		return nil, err
	}

	question := &models.Question{
		Question:       text,
		Answer:         validation.OptionalText(req.Answer),
		GradeID:        resolved.Grade.ID,
		SubjectID:      resolved.Subject.ID,
		ChapterID:      resolved.Chapter.ID,
		QuestionTypeID: resolved.QuestionType.ID,
		Description:    description,
		CreatedBy:      actor.ID,
	}
	if err := s.repos.Questions.Create(ctx, question); err != nil {
		return nil, questionErrors.translateWrite(err, "create question")
	}

	logger.Info().Str("questionID", question.ID.String()).Str("userID", actor.ID.String()).Msg("Question created")
	return s.populated(ctx, question)
}

// ListQuestions returns one page of actor's questions, or of all questions for an admin
func (s *questionServiceImpl) ListQuestions(ctx context.Context, actor *models.User, params QuestionListParams) ([]*models.Question, int64, error) {
	if actor == nil {
		return nil, 0, apperrors.NewUnauthorizedError("User not authenticated")
	}

	filter := models.QuestionFilter{CreatedBy: auth.OwnerScope(actor)}
	var err error
	if filter.GradeID, err = parseRef(optionalQuery(params.Grade), "grade"); err != nil {
		return nil, 0, err
	}
	if filter.SubjectID, err = parseRef(optionalQuery(params.Subject), "subject"); err != nil {
		return nil, 0, err
	}
	if filter.ChapterID, err = parseRef(optionalQuery(params.Chapter), "chapter"); err != nil {
		return nil, 0, err
	}
	if filter.QuestionTypeID, err = parseRef(optionalQuery(params.QuestionType), "question type"); err != nil {
		return nil, 0, err
	}
	filter.Offset, filter.Limit = params.Page.Offset(), params.Page.Limit()

	questions, total, err := s.repos.Questions.List(ctx, filter)
	if err != nil {
		return nil, 0, questionErrors.translate(err, "list questions")
	}
	if err := newPopulator(s.repos).fillQuestions(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func optionalQuery(raw string) *string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return &raw
}

func (s *questionServiceImpl) fetchOwned(ctx context.Context, actor *models.User, rawID, action string) (*models.Question, error) {
	id, err := parsePathID(rawID, "question")
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperrors.NewUnauthorizedError("User not authenticated")
	}
	question, err := s.repos.Questions.GetByID(ctx, id)
	if err != nil {
		return nil, questionErrors.translate(err, "get question")
	}
	if err := auth.RequireOwnerOrAdmin(question.CreatedBy, actor, action, questionNoun); err != nil {
		return nil, err
	}
	return question, nil
}

// GetQuestionByID returns a question its owner or an admin may access
func (s *questionServiceImpl) GetQuestionByID(ctx context.Context, actor *models.User, rawID string) (*models.Question, error) {
	question, err := s.fetchOwned(ctx, actor, rawID, auth.ActionAccess)
	if err != nil {
		return nil, err
	}
	return s.populated(ctx, question)
}

// AuthorizeQuestionUpdate implements QuestionService
func (s *questionServiceImpl) AuthorizeQuestionUpdate(ctx context.Context, actor *models.User, rawID string) (*models.Question, error) {
	return s.fetchOwned(ctx, actor, rawID, auth.ActionUpdate)
}

// ApplyQuestionUpdate patches the fields present in req. A clashing question
// text is reported before any reference is resolved.
func (s *questionServiceImpl) ApplyQuestionUpdate(ctx context.Context, question *models.Question, req *dto.UpdateQuestionRequest) (*models.Question, error) {
	if req.Question != nil && validation.IsBlank(*req.Question) {
		return nil, apperrors.NewBadRequestError("Question cannot be empty")
	}
	if req.Description != nil && validation.IsBlank(*req.Description) {
		return nil, apperrors.NewBadRequestError("Description cannot be empty")
	}

	updated := *question
	if req.Question != nil {
		updated.Question = strings.TrimSpace(*req.Question)
		if err := s.unique.QuestionText(ctx, updated.Question, &updated.ID); err != nil {
			return nil, err
		}
	}

	resolved, err := s.refs.Resolve(ctx, References{
		Grade:        req.Grade,
		Subject:      req.Subject,
		Chapter:      req.Chapter,
		QuestionType: req.QuestionType,
	})
	if err != nil {
		return nil, err
	}

	if req.Answer != nil {
		updated.Answer = validation.OptionalText(req.Answer)
	}
	if req.Description != nil {
		updated.Description = strings.TrimSpace(*req.Description)
	}
	if resolved.Grade != nil {
		updated.GradeID = resolved.Grade.ID
	}
	if resolved.Subject != nil {
		updated.SubjectID = resolved.Subject.ID
	}
	if resolved.Chapter != nil {
		updated.ChapterID = resolved.Chapter.ID
	}
	if resolved.QuestionType != nil {
		updated.QuestionTypeID = resolved.QuestionType.ID
	}

	if err := s.repos.Questions.Update(ctx, &updated); err != nil {
		return nil, questionErrors.translateWrite(err, "update question")
	}

	logger.Info().Str("questionID", updated.ID.String()).Msg("Question updated")
	return s.populated(ctx, &updated)
}

// DeleteQuestion removes a question its owner or an admin may delete
func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, actor *models.User, rawID string) error {
	question, err := s.fetchOwned(ctx, actor, rawID, auth.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.repos.Questions.Delete(ctx, question.ID); err != nil {
		return questionErrors.translate(err, "delete question")
	}
	logger.Info().Str("questionID", question.ID.String()).Str("userID", actor.ID.String()).Msg("Question deleted")
	return nil
}

func (s *questionServiceImpl) populated(ctx context.Context, question *models.Question) (*models.Question, error) {
	if err := newPopulator(s.repos).fillQuestion(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

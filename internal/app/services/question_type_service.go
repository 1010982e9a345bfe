package services

import (
	"context"
	"strings"

	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

// QuestionTypeService defines the question type operations
type QuestionTypeService interface {
	CreateQuestionType(ctx context.Context, req *dto.CreateQuestionTypeRequest) (*models.QuestionType, error)
	GetAllQuestionTypes(ctx context.Context) ([]*models.QuestionType, error)
	GetQuestionTypeByID(ctx context.Context, rawID string) (*models.QuestionType, error)
	DeleteQuestionType(ctx context.Context, rawID string) error
}

type questionTypeServiceImpl struct {
	questionTypeRepo repositories.QuestionTypeRepository
	unique           *UniquenessEnforcer
}

// NewQuestionTypeService creates a new question type service instance
func NewQuestionTypeService(repos *repositories.Repositories) QuestionTypeService {
	return &questionTypeServiceImpl{
		questionTypeRepo: repos.QuestionTypes,
		unique:           NewUniquenessEnforcer(repos),
	}
}

// CreateQuestionType adds a question type with a unique name
func (s *questionTypeServiceImpl) CreateQuestionType(ctx context.Context, req *dto.CreateQuestionTypeRequest) (*models.QuestionType, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, apperrors.NewBadRequestError("Name and description cannot be empty")
	}

	if err := s.unique.QuestionTypeName(ctx, name); err != nil {
		return nil, err
	}

	qt := &models.QuestionType{Name: name, Description: description}
	if err := s.questionTypeRepo.Create(ctx, qt); err != nil {
		return nil, questionTypeErrors.translateWrite(err, "create question type")
	}

	logger.Info().Str("questionTypeID", qt.ID.String()).Str("name", name).Msg("Question type created")
	return qt, nil
}

// GetAllQuestionTypes lists every question type
func (s *questionTypeServiceImpl) GetAllQuestionTypes(ctx context.Context) ([]*models.QuestionType, error) {
	types, err := s.questionTypeRepo.GetAll(ctx)
	if err != nil {
		return nil, questionTypeErrors.translate(err, "list question types")
	}
	return types, nil
}

// GetQuestionTypeByID retrieves one question type
func (s *questionTypeServiceImpl) GetQuestionTypeByID(ctx context.Context, rawID string) (*models.QuestionType, error) {
	id, err := parsePathID(rawID, "question type")
	if err != nil {
		return nil, err
	}
	qt, err := s.questionTypeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, questionTypeErrors.translate(err, "get question type")
	}
	return qt, nil
}

// DeleteQuestionType removes a question type no question uses
func (s *questionTypeServiceImpl) DeleteQuestionType(ctx context.Context, rawID string) error {
	id, err := parsePathID(rawID, "question type")
	if err != nil {
		return err
	}
	if err := s.questionTypeRepo.Delete(ctx, id); err != nil {
		return questionTypeErrors.translate(err, "delete question type")
	}
	logger.Info().Str("questionTypeID", id.String()).Msg("Question type deleted")
	return nil
}

package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/models/dto"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

// GradeService defines the grade operations
type GradeService interface {
	CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*models.Grade, error)
	GetAllGrades(ctx context.Context) ([]*models.Grade, error)
	GetGradeByID(ctx context.Context, rawID string) (*models.Grade, error)
	DeleteGrade(ctx context.Context, rawID string) error
}

type gradeServiceImpl struct {
	gradeRepo repositories.GradeRepository
	refs      *ReferenceValidator
	unique    *UniquenessEnforcer
}

// NewGradeService creates a new grade service instance
func NewGradeService(repos *repositories.Repositories) GradeService {
	return &gradeServiceImpl{
		gradeRepo: repos.Grades,
		refs:      NewReferenceValidator(repos),
		unique:    NewUniquenessEnforcer(repos),
	}
}

// CreateGrade adds a grade linked to one or more existing subjects
func (s *gradeServiceImpl) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*models.Grade, error) {
	name := strings.TrimSpace(req.GradeName())
	if name == "" {
		return nil, apperrors.NewBadRequestError("Grade and subjects are required")
	}
	if len(req.Subjects) == 0 {
		return nil, apperrors.NewBadRequestError("At least one subject is required")
	}
	if err := checkLength("grade", name, validation.MaxGradeNameLength); err != nil {
		return nil, err
	}

	if err := s.unique.GradeName(ctx, name); err != nil {
		return nil, err
	}

	subjects, err := s.refs.Subjects(ctx, req.Subjects)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.ID)
	}

	grade := &models.Grade{Name: name, SubjectIDs: ids}
	if err := s.gradeRepo.Create(ctx, grade); err != nil {
		return nil, gradeErrors.translateWrite(err, "create grade")
	}
	grade.Subjects = subjects

	logger.Info().Str("gradeID", grade.ID.String()).Str("name", name).Int("subjects", len(ids)).Msg("Grade created")
	return grade, nil
}

// GetAllGrades lists every grade with its subjects
func (s *gradeServiceImpl) GetAllGrades(ctx context.Context) ([]*models.Grade, error) {
	grades, err := s.gradeRepo.GetAll(ctx)
	if err != nil {
		return nil, gradeErrors.translate(err, "list grades")
	}
	return grades, nil
}

// GetGradeByID retrieves one grade with its subjects
func (s *gradeServiceImpl) GetGradeByID(ctx context.Context, rawID string) (*models.Grade, error) {
	id, err := parsePathID(rawID, "grade")
	if err != nil {
		return nil, err
	}
	grade, err := s.gradeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, gradeErrors.translate(err, "get grade")
	}
	return grade, nil
}

// DeleteGrade removes a grade no chapter or question uses
func (s *gradeServiceImpl) DeleteGrade(ctx context.Context, rawID string) error {
	id, err := parsePathID(rawID, "grade")
	if err != nil {
		return err
	}
	if err := s.gradeRepo.Delete(ctx, id); err != nil {
		return gradeErrors.translate(err, "delete grade")
	}
	logger.Info().Str("gradeID", id.String()).Msg("Grade deleted")
	return nil
}

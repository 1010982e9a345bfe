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

// SubjectService defines the subject operations
type SubjectService interface {
	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error)
	GetAllSubjects(ctx context.Context) ([]*models.Subject, error)
	GetSubjectByID(ctx context.Context, rawID string) (*models.Subject, error)
	DeleteSubject(ctx context.Context, rawID string) error
}

type subjectServiceImpl struct {
	subjectRepo repositories.SubjectRepository
	unique      *UniquenessEnforcer
}

// NewSubjectService creates a new subject service instance
func NewSubjectService(repos *repositories.Repositories) SubjectService {
	return &subjectServiceImpl{
		subjectRepo: repos.Subjects,
		unique:      NewUniquenessEnforcer(repos),
	}
}

// CreateSubject adds a subject with a unique name
func (s *subjectServiceImpl) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*models.Subject, error) {
	name := strings.TrimSpace(req.Name)
	description := strings.TrimSpace(req.Description)
	if name == "" || description == "" {
		return nil, apperrors.NewBadRequestError("Name and description cannot be empty")
	}

	if err := s.unique.SubjectName(ctx, name); err != nil {
		return nil, err
	}

	subject := &models.Subject{Name: name, Description: description}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, subjectErrors.translateWrite(err, "create subject")
	}

	logger.Info().Str("subjectID", subject.ID.String()).Str("name", name).Msg("Subject created")
	return subject, nil
}

// GetAllSubjects lists every subject
func (s *subjectServiceImpl) GetAllSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		return nil, subjectErrors.translate(err, "list subjects")
	}
	return subjects, nil
}

// GetSubjectByID retrieves one subject
func (s *subjectServiceImpl) GetSubjectByID(ctx context.Context, rawID string) (*models.Subject, error) {
	id, err := parsePathID(rawID, "subject")
	if err != nil {
		return nil, err
	}
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, subjectErrors.translate(err, "get subject")
	}
	return subject, nil
}

// DeleteSubject removes a subject nothing references
func (s *subjectServiceImpl) DeleteSubject(ctx context.Context, rawID string) error {
	id, err := parsePathID(rawID, "subject")
	if err != nil {
		return err
	}
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return subjectErrors.translate(err, "delete subject")
	}
	logger.Info().Str("subjectID", id.String()).Msg("Subject deleted")
	return nil
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
)

// populator expands references into embedded records for responses. It
// memoizes lookups for the lifetime of one request.
type populator struct {
	repos         *repositories.Repositories
	users         map[uuid.UUID]*models.UserSummary
	grades        map[uuid.UUID]*models.Grade
	subjects      map[uuid.UUID]*models.Subject
	chapters      map[uuid.UUID]*models.Chapter
	questionTypes map[uuid.UUID]*models.QuestionType
}

func newPopulator(repos *repositories.Repositories) *populator {
	return &populator{
		repos:         repos,
		users:         map[uuid.UUID]*models.UserSummary{},
		grades:        map[uuid.UUID]*models.Grade{},
		subjects:      map[uuid.UUID]*models.Subject{},
		chapters:      map[uuid.UUID]*models.Chapter{},
		questionTypes: map[uuid.UUID]*models.QuestionType{},
	}
}

// lookup returns the cached value for id or loads it. A record that vanished
// between write and read is left unpopulated rather than failing the response.
func lookup[T any](ctx context.Context, cache map[uuid.UUID]T, id uuid.UUID, load func(context.Context, uuid.UUID) (T, error)) (T, error) {
	if v, ok := cache[id]; ok {
		return v, nil
	}
	v, err := load(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, repositories.ErrNotFound) {
			cache[id] = zero
			return zero, nil
		}
		return zero, apperrors.NewInternalError("failed to load related record", err)
	}
	cache[id] = v
	return v, nil
}

func (p *populator) creator(ctx context.Context, id uuid.UUID) (*models.UserSummary, error) {
	return lookup(ctx, p.users, id, func(ctx context.Context, id uuid.UUID) (*models.UserSummary, error) {
		u, err := p.repos.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return u.Summary(), nil
	})
}

func (p *populator) fillChapter(ctx context.Context, c *models.Chapter) error {
	var err error
	if c.Grade, err = lookup(ctx, p.grades, c.GradeID, p.repos.Grades.GetByID); err != nil {
		return err
	}
	if c.Subject, err = lookup(ctx, p.subjects, c.SubjectID, p.repos.Subjects.GetByID); err != nil {
		return err
	}
	c.Creator, err = p.creator(ctx, c.CreatedBy)
	return err
}

func (p *populator) fillChapters(ctx context.Context, chapters []*models.Chapter) error {
	for _, c := range chapters {
		if err := p.fillChapter(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *populator) fillQuestion(ctx context.Context, q *models.Question) error {
	var err error
	if q.Grade, err = lookup(ctx, p.grades, q.GradeID, p.repos.Grades.GetByID); err != nil {
		return err
	}
	if q.Subject, err = lookup(ctx, p.subjects, q.SubjectID, p.repos.Subjects.GetByID); err != nil {
		return err
	}
	if q.Chapter, err = lookup(ctx, p.chapters, q.ChapterID, p.repos.Chapters.GetByID); err != nil {
		return err
	}
	if q.QuestionType, err = lookup(ctx, p.questionTypes, q.QuestionTypeID, p.repos.QuestionTypes.GetByID); err != nil {
		return err
	}
	q.Creator, err = p.creator(ctx, q.CreatedBy)
	return err
}

func (p *populator) fillQuestions(ctx context.Context, questions []*models.Question) error {
	for _, q := range questions {
		if err := p.fillQuestion(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

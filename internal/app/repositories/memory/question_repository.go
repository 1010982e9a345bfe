package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

// QuestionRepository is the in-memory questions table
type QuestionRepository struct {
	s *Store
}

func cloneQuestion(q *models.Question) *models.Question {
	c := *q
	c.Answer = cloneString(q.Answer)
	c.Grade, c.Subject, c.Chapter, c.QuestionType, c.Creator = nil, nil, nil, nil, nil
	return &c
}

// checkRefs mirrors the questions foreign keys; callers hold a lock
func (r *QuestionRepository) checkRefs(q *models.Question) error {
	_, gradeOK := r.s.grades[q.GradeID]
	_, subjectOK := r.s.subjects[q.SubjectID]
	_, chapterOK := r.s.chapters[q.ChapterID]
	_, typeOK := r.s.questionTypes[q.QuestionTypeID]
	_, userOK := r.s.users[q.CreatedBy]
	if !gradeOK || !subjectOK || !chapterOK || !typeOK || !userOK {
		return repositories.ErrReferenced
	}
	return nil
}

func (r *QuestionRepository) taken(text string, excludeID *uuid.UUID) bool {
	for id, q := range r.s.questions {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if q.Question == text {
			return true
		}
	}
	return false
}

func matchesQuestion(q *models.Question, filter models.QuestionFilter) bool {
	switch {
	case filter.CreatedBy != nil && q.CreatedBy != *filter.CreatedBy:
		return false
	case filter.GradeID != nil && q.GradeID != *filter.GradeID:
		return false
	case filter.SubjectID != nil && q.SubjectID != *filter.SubjectID:
		return false
	case filter.ChapterID != nil && q.ChapterID != *filter.ChapterID:
		return false
	case filter.QuestionTypeID != nil && q.QuestionTypeID != *filter.QuestionTypeID:
		return false
	}
	return true
}

// Create inserts a question
func (r *QuestionRepository) Create(_ context.Context, q *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(q); err != nil {
		return err
	}
	if r.taken(q.Question, nil) {
		return repositories.ErrDuplicate
	}

	q.ID, q.CreatedAt = r.s.stamp()
	q.UpdatedAt = q.CreatedAt
	r.s.questions[q.ID] = cloneQuestion(q)
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Question, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q, ok := r.s.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneQuestion(q), nil
}

// List returns one page of questions matching filter, newest first, and the total match count
func (r *QuestionRepository) List(_ context.Context, filter models.QuestionFilter) ([]*models.Question, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []uuid.UUID{}
	for id, q := range r.s.questions {
		if matchesQuestion(q, filter) {
			ids = append(ids, id)
		}
	}
	r.s.newestFirst(ids, func(id uuid.UUID) time.Time { return r.s.questions[id].CreatedAt })
	total := int64(len(ids))

	if filter.Limit > 0 {
		start := filter.Offset
		if start > uint64(len(ids)) {
			start = uint64(len(ids))
		}
		end := start + filter.Limit
		if end > uint64(len(ids)) {
			end = uint64(len(ids))
		}
		ids = ids[start:end]
	}

	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, cloneQuestion(r.s.questions[id]))
	}
	return questions, total, nil
}

// TextExists checks the global question text key
func (r *QuestionRepository) TextExists(_ context.Context, text string, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.taken(text, excludeID), nil
}

// Update persists the mutable question fields
func (r *QuestionRepository) Update(_ context.Context, q *models.Question) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.questions[q.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	candidate := cloneQuestion(q)
	candidate.CreatedBy = stored.CreatedBy
	candidate.CreatedAt = stored.CreatedAt
	if err := r.checkRefs(candidate); err != nil {
		return err
	}
	if r.taken(candidate.Question, &candidate.ID) {
		return repositories.ErrDuplicate
	}

	candidate.UpdatedAt = r.s.now()
	q.UpdatedAt = candidate.UpdatedAt
	r.s.questions[q.ID] = candidate
	return nil
}

// Delete removes a question
func (r *QuestionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.questions, id)
	return nil
}

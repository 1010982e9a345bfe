package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

// ChapterRepository is the in-memory chapters table
type ChapterRepository struct {
	s *Store
}

func cloneChapter(c *models.Chapter) *models.Chapter {
	copied := *c
	copied.BookName = cloneString(c.BookName)
	copied.Grade, copied.Subject, copied.Creator = nil, nil, nil
	return &copied
}

// checkRefs mirrors the chapters foreign keys; callers hold a lock
func (r *ChapterRepository) checkRefs(c *models.Chapter) error {
	if _, ok := r.s.grades[c.GradeID]; !ok {
		return repositories.ErrReferenced
	}
	if _, ok := r.s.subjects[c.SubjectID]; !ok {
		return repositories.ErrReferenced
	}
	if _, ok := r.s.users[c.CreatedBy]; !ok {
		return repositories.ErrReferenced
	}
	return nil
}

// taken reports a natural key collision; callers hold a lock
func (r *ChapterRepository) taken(gradeID, subjectID uuid.UUID, name string, createdBy uuid.UUID, excludeID *uuid.UUID) bool {
	for id, c := range r.s.chapters {
		if excludeID != nil && id == *excludeID {
			continue
		}
		if c.GradeID == gradeID && c.SubjectID == subjectID && c.ChapterName == name && c.CreatedBy == createdBy {
			return true
		}
	}
	return false
}

// Create inserts a chapter
func (r *ChapterRepository) Create(_ context.Context, chapter *models.Chapter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(chapter); err != nil {
		return err
	}
	if r.taken(chapter.GradeID, chapter.SubjectID, chapter.ChapterName, chapter.CreatedBy, nil) {
		return repositories.ErrDuplicate
	}

	chapter.ID, chapter.CreatedAt = r.s.stamp()
	chapter.UpdatedAt = chapter.CreatedAt
	r.s.chapters[chapter.ID] = cloneChapter(chapter)
	return nil
}

// GetByID retrieves a chapter by ID
func (r *ChapterRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.chapters[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneChapter(c), nil
}

// List returns chapters matching filter, newest first
func (r *ChapterRepository) List(_ context.Context, filter models.ChapterFilter) ([]*models.Chapter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := []uuid.UUID{}
	for id, c := range r.s.chapters {
		if filter.CreatedBy != nil && c.CreatedBy != *filter.CreatedBy {
			continue
		}
		if filter.GradeID != nil && c.GradeID != *filter.GradeID {
			continue
		}
		if filter.SubjectID != nil && c.SubjectID != *filter.SubjectID {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids, func(id uuid.UUID) time.Time { return r.s.chapters[id].CreatedAt })

	chapters := make([]*models.Chapter, 0, len(ids))
	for _, id := range ids {
		chapters = append(chapters, cloneChapter(r.s.chapters[id]))
	}
	return chapters, nil
}

// Exists checks the per-creator chapter natural key
func (r *ChapterRepository) Exists(_ context.Context, gradeID, subjectID uuid.UUID, chapterName string, createdBy uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.taken(gradeID, subjectID, chapterName, createdBy, excludeID), nil
}

// Update persists the mutable chapter fields
func (r *ChapterRepository) Update(_ context.Context, chapter *models.Chapter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.chapters[chapter.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	candidate := cloneChapter(chapter)
	candidate.CreatedBy = stored.CreatedBy
	candidate.CreatedAt = stored.CreatedAt
	if err := r.checkRefs(candidate); err != nil {
		return err
	}
	if r.taken(candidate.GradeID, candidate.SubjectID, candidate.ChapterName, candidate.CreatedBy, &candidate.ID) {
		return repositories.ErrDuplicate
	}

	candidate.UpdatedAt = r.s.now()
	chapter.UpdatedAt = candidate.UpdatedAt
	r.s.chapters[chapter.ID] = candidate
	return nil
}

// Delete removes a chapter; questions filed under it block the delete
func (r *ChapterRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.chapters[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, q := range r.s.questions {
		if q.ChapterID == id {
			return repositories.ErrReferenced
		}
	}
	delete(r.s.chapters, id)
	return nil
}

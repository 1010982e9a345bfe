package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

// SubjectRepository is the in-memory subjects table
type SubjectRepository struct {
	s *Store
}

func cloneSubject(subject *models.Subject) *models.Subject {
	c := *subject
	return &c
}

func sortSubjectsByName(subjects []*models.Subject) {
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].Name < subjects[j].Name })
}

// Create inserts a subject with a unique name
func (r *SubjectRepository) Create(_ context.Context, subject *models.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.subjects {
		if existing.Name == subject.Name {
			return repositories.ErrDuplicate
		}
	}
	subject.ID, subject.CreatedAt = r.s.stamp()
	subject.UpdatedAt = subject.CreatedAt
	r.s.subjects[subject.ID] = cloneSubject(subject)
	return nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subject, ok := r.s.subjects[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneSubject(subject), nil
}

// GetByName retrieves a subject by name
func (r *SubjectRepository) GetByName(_ context.Context, name string) (*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, subject := range r.s.subjects {
		if subject.Name == name {
			return cloneSubject(subject), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// GetByIDs returns the subjects among ids that exist, ordered by name
func (r *SubjectRepository) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	seen := map[uuid.UUID]bool{}
	subjects := []*models.Subject{}
	for _, id := range ids {
		if subject, ok := r.s.subjects[id]; ok && !seen[id] {
			seen[id] = true
			subjects = append(subjects, cloneSubject(subject))
		}
	}
	sortSubjectsByName(subjects)
	return subjects, nil
}

// GetAll retrieves all subjects ordered by name
func (r *SubjectRepository) GetAll(_ context.Context) ([]*models.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	subjects := make([]*models.Subject, 0, len(r.s.subjects))
	for _, subject := range r.s.subjects {
		subjects = append(subjects, cloneSubject(subject))
	}
	sortSubjectsByName(subjects)
	return subjects, nil
}

// NameExists checks the subject natural key
func (r *SubjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByName(ctx, name)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// Delete removes a subject unless a grade, chapter or question references it
func (r *SubjectRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subjects[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, g := range r.s.grades {
		for _, sid := range g.SubjectIDs {
			if sid == id {
				return repositories.ErrReferenced
			}
		}
	}
	for _, c := range r.s.chapters {
		if c.SubjectID == id {
			return repositories.ErrReferenced
		}
	}
	for _, q := range r.s.questions {
		if q.SubjectID == id {
			return repositories.ErrReferenced
		}
	}
	delete(r.s.subjects, id)
	return nil
}

// GradeRepository is the in-memory grades table
type GradeRepository struct {
	s *Store
}

// hydrate copies g and resolves its subject set; callers hold a lock
func (r *GradeRepository) hydrate(g *models.Grade) *models.Grade {
	c := *g
	c.SubjectIDs = append([]uuid.UUID{}, g.SubjectIDs...)
	c.Subjects = []*models.Subject{}
	for _, id := range g.SubjectIDs {
		if subject, ok := r.s.subjects[id]; ok {
			c.Subjects = append(c.Subjects, cloneSubject(subject))
		}
	}
	sortSubjectsByName(c.Subjects)
	return &c
}

// Create inserts a grade with a unique name; every subject must exist
func (r *GradeRepository) Create(_ context.Context, grade *models.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.grades {
		if existing.Name == grade.Name {
			return repositories.ErrDuplicate
		}
	}

	seen := map[uuid.UUID]bool{}
	ids := make([]uuid.UUID, 0, len(grade.SubjectIDs))
	for _, id := range grade.SubjectIDs {
		if _, ok := r.s.subjects[id]; !ok {
			return repositories.ErrReferenced
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	grade.ID, grade.CreatedAt = r.s.stamp()
	grade.UpdatedAt = grade.CreatedAt
	stored := &models.Grade{ID: grade.ID, Name: grade.Name, SubjectIDs: ids, CreatedAt: grade.CreatedAt, UpdatedAt: grade.UpdatedAt}
	r.s.grades[grade.ID] = stored

	hydrated := r.hydrate(stored)
	grade.SubjectIDs, grade.Subjects = hydrated.SubjectIDs, hydrated.Subjects
	return nil
}

// GetByID retrieves a grade with its subjects
func (r *GradeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.grades[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.hydrate(g), nil
}

// GetByName retrieves a grade by name
func (r *GradeRepository) GetByName(_ context.Context, name string) (*models.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.grades {
		if g.Name == name {
			return r.hydrate(g), nil
		}
	}
	return nil, repositories.ErrNotFound
}

// GetAll retrieves all grades ordered by name
func (r *GradeRepository) GetAll(_ context.Context) ([]*models.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	grades := make([]*models.Grade, 0, len(r.s.grades))
	for _, g := range r.s.grades {
		grades = append(grades, r.hydrate(g))
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].Name < grades[j].Name })
	return grades, nil
}

// NameExists checks the grade natural key
func (r *GradeRepository) NameExists(ctx context.Context, name string) (bool, error) {
	_, err := r.GetByName(ctx, name)
	if err == repositories.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// Delete removes a grade unless a chapter or question references it
func (r *GradeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.grades[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, c := range r.s.chapters {
		if c.GradeID == id {
			return repositories.ErrReferenced
		}
	}
	for _, q := range r.s.questions {
		if q.GradeID == id {
			return repositories.ErrReferenced
		}
	}
	delete(r.s.grades, id)
	return nil
}

// QuestionTypeRepository is the in-memory question_types table
type QuestionTypeRepository struct {
	s *Store
}

func cloneQuestionType(qt *models.QuestionType) *models.QuestionType {
	c := *qt
	return &c
}

// Create inserts a question type with a unique name
func (r *QuestionTypeRepository) Create(_ context.Context, qt *models.QuestionType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.questionTypes {
		if existing.Name == qt.Name {
			return repositories.ErrDuplicate
		}
	}
	qt.ID, qt.CreatedAt = r.s.stamp()
	qt.UpdatedAt = qt.CreatedAt
	r.s.questionTypes[qt.ID] = cloneQuestionType(qt)
	return nil
}

// GetByID retrieves a question type by ID
func (r *QuestionTypeRepository) GetByID(_ context.Context, id uuid.UUID) (*models.QuestionType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	qt, ok := r.s.questionTypes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneQuestionType(qt), nil
}

// GetAll retrieves all question types ordered by name
func (r *QuestionTypeRepository) GetAll(_ context.Context) ([]*models.QuestionType, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	types := make([]*models.QuestionType, 0, len(r.s.questionTypes))
	for _, qt := range r.s.questionTypes {
		types = append(types, cloneQuestionType(qt))
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// NameExists checks the question type natural key
func (r *QuestionTypeRepository) NameExists(_ context.Context, name string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, qt := range r.s.questionTypes {
		if qt.Name == name {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a question type unless a question uses it
func (r *QuestionTypeRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.questionTypes[id]; !ok {
		return repositories.ErrNotFound
	}
	for _, q := range r.s.questions {
		if q.QuestionTypeID == id {
			return repositories.ErrReferenced
		}
	}
	delete(r.s.questionTypes, id)
	return nil
}

// Package memory implements the repositories on mutex-guarded maps. It enforces
// the same unique keys and delete restrictions as the PostgreSQL schema and
// backs both the "memory" database driver and the service tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
)

// Store holds every table behind one lock so cross-table checks are atomic
type Store struct {
	mu            sync.RWMutex
	seq           int64
	order         map[uuid.UUID]int64
	users         map[uuid.UUID]*models.User
	subjects      map[uuid.UUID]*models.Subject
	grades        map[uuid.UUID]*models.Grade
	chapters      map[uuid.UUID]*models.Chapter
	questionTypes map[uuid.UUID]*models.QuestionType
	questions     map[uuid.UUID]*models.Question
	now           func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		order:         map[uuid.UUID]int64{},
		users:         map[uuid.UUID]*models.User{},
		subjects:      map[uuid.UUID]*models.Subject{},
		grades:        map[uuid.UUID]*models.Grade{},
		chapters:      map[uuid.UUID]*models.Chapter{},
		questionTypes: map[uuid.UUID]*models.QuestionType{},
		questions:     map[uuid.UUID]*models.Question{},
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// NewRepositories returns repositories sharing one fresh store
func NewRepositories() *repositories.Repositories {
	return NewStore().Repositories()
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         &UserRepository{s: s},
		Subjects:      &SubjectRepository{s: s},
		Grades:        &GradeRepository{s: s},
		Chapters:      &ChapterRepository{s: s},
		QuestionTypes: &QuestionTypeRepository{s: s},
		Questions:     &QuestionRepository{s: s},
	}
}

// stamp assigns id, timestamps and insertion order; callers hold the write lock
func (s *Store) stamp() (uuid.UUID, time.Time) {
	id := uuid.New()
	s.seq++
	s.order[id] = s.seq
	return id, s.now()
}

// newestFirst sorts by creation time, breaking ties by insertion order
func (s *Store) newestFirst(ids []uuid.UUID, created func(uuid.UUID) time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := created(ids[i]), created(ids[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return s.order[ids[i]] > s.order[ids[j]]
	})
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sameEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

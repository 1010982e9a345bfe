package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
)

// Repository errors shared by every implementation
var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write collides with a natural key
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when deleting a record another record still points to
	ErrReferenced = errors.New("record is still referenced")
	// ErrInvalidValue is returned when a value does not fit its column
	ErrInvalidValue = errors.New("invalid value")
)

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateAccessToken(ctx context.Context, id uuid.UUID, token *string) error
}

// SubjectRepository persists subjects
type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error)
	GetByName(ctx context.Context, name string) (*models.Subject, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Subject, error)
	GetAll(ctx context.Context) ([]*models.Subject, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// GradeRepository persists grades together with their subject set
type GradeRepository interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Grade, error)
	GetByName(ctx context.Context, name string) (*models.Grade, error)
	GetAll(ctx context.Context) ([]*models.Grade, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ChapterRepository persists chapters
type ChapterRepository interface {
	Create(ctx context.Context, chapter *models.Chapter) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	List(ctx context.Context, filter models.ChapterFilter) ([]*models.Chapter, error)
	// Exists checks the (grade, subject, chapterName, createdBy) key, ignoring excludeID when set
	Exists(ctx context.Context, gradeID, subjectID uuid.UUID, chapterName string, createdBy uuid.UUID, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionTypeRepository persists question types
type QuestionTypeRepository interface {
	Create(ctx context.Context, questionType *models.QuestionType) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.QuestionType, error)
	GetAll(ctx context.Context) ([]*models.QuestionType, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// QuestionRepository persists questions
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]*models.Question, int64, error)
	// TextExists checks the global question text key, ignoring excludeID when set
	TextExists(ctx context.Context, text string, excludeID *uuid.UUID) (bool, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repositories holds all the repository instances. It is built once at
// startup and handed to the services.
type Repositories struct {
	Users         UserRepository
	Subjects      SubjectRepository
	Grades        GradeRepository
	Chapters      ChapterRepository
	QuestionTypes QuestionTypeRepository
	Questions     QuestionRepository
}

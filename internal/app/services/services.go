package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/auth"
)

// Services groups the business services handed to the controllers:
//   - AuthService: registration, login and logout
//   - SubjectService, GradeService, QuestionTypeService: admin managed taxonomy
//   - ChapterService, QuestionService: owned content
type Services struct {
	Auth          *AuthService
	Subjects      SubjectService
	Grades        GradeService
	QuestionTypes QuestionTypeService
	Chapters      ChapterService
	Questions     QuestionService
}

// NewServices wires every service to the shared repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, hasher *auth.PasswordHasher, logger zerolog.Logger) *Services {
	return &Services{
		Auth:          NewAuthService(repos, jwtService, hasher, logger),
		Subjects:      NewSubjectService(repos),
		Grades:        NewGradeService(repos),
		QuestionTypes: NewQuestionTypeService(repos),
		Chapters:      NewChapterService(repos),
		Questions:     NewQuestionService(repos),
	}
}

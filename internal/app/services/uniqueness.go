package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
)

// UniquenessEnforcer rejects writes whose natural key is already taken. The
// database unique constraints catch writes that race past these checks; the
// services translate those into the same Conflict errors.
type UniquenessEnforcer struct {
	repos *repositories.Repositories
}

// NewUniquenessEnforcer creates a new UniquenessEnforcer
func NewUniquenessEnforcer(repos *repositories.Repositories) *UniquenessEnforcer {
	return &UniquenessEnforcer{repos: repos}
}

func conflictIf(taken bool, err error, errs writeErrors, op string) error {
	if err != nil {
		return apperrors.NewInternalError("failed to "+op, err)
	}
	if taken {
		return apperrors.NewConflictError(errs.duplicate)
	}
	return nil
}

// Email checks the user email key
func (u *UniquenessEnforcer) Email(ctx context.Context, email string) error {
	taken, err := u.repos.Users.EmailExists(ctx, email)
	return conflictIf(taken, err, userErrors, "check email")
}

// SubjectName checks the subject name key
func (u *UniquenessEnforcer) SubjectName(ctx context.Context, name string) error {
	taken, err := u.repos.Subjects.NameExists(ctx, name)
	return conflictIf(taken, err, subjectErrors, "check subject name")
}

// GradeName checks the grade name key
func (u *UniquenessEnforcer) GradeName(ctx context.Context, name string) error {
	taken, err := u.repos.Grades.NameExists(ctx, name)
	return conflictIf(taken, err, gradeErrors, "check grade name")
}

// QuestionTypeName checks the question type name key
func (u *UniquenessEnforcer) QuestionTypeName(ctx context.Context, name string) error {
	taken, err := u.repos.QuestionTypes.NameExists(ctx, name)
	return conflictIf(taken, err, questionTypeErrors, "check question type name")
}

// QuestionText checks the global question text key, skipping excludeID
func (u *UniquenessEnforcer) QuestionText(ctx context.Context, text string, excludeID *uuid.UUID) error {
	taken, err := u.repos.Questions.TextExists(ctx, text, excludeID)
	return conflictIf(taken, err, questionErrors, "check question text")
}

// ChapterKey checks (grade, subject, chapterName) among createdBy's chapters, skipping excludeID
func (u *UniquenessEnforcer) ChapterKey(ctx context.Context, gradeID, subjectID uuid.UUID, chapterName string, createdBy uuid.UUID, excludeID *uuid.UUID) error {
	taken, err := u.repos.Chapters.Exists(ctx, gradeID, subjectID, chapterName, createdBy, excludeID)
	return conflictIf(taken, err, chapterErrors, "check chapter")
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Question is owned by its creator. The question text is globally unique.
type Question struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	Question       string        `json:"question" db:"question" example:"Solve x + 2 = 5"`
	Answer         *string       `json:"answer,omitempty" db:"answer" example:"x = 3"`
	GradeID        uuid.UUID     `json:"gradeId" db:"grade_id"`
	SubjectID      uuid.UUID     `json:"subjectId" db:"subject_id"`
	ChapterID      uuid.UUID     `json:"chapterId" db:"chapter_id"`
	QuestionTypeID uuid.UUID     `json:"questionTypeId" db:"question_type_id"`
	Description    string        `json:"description" db:"description"`
	CreatedBy      uuid.UUID     `json:"createdById" db:"created_by"`
	Grade          *Grade        `json:"grade,omitempty"`
	Subject        *Subject      `json:"subject,omitempty"`
	Chapter        *Chapter      `json:"chapter,omitempty"`
	QuestionType   *QuestionType `json:"questionType,omitempty"`
	Creator        *UserSummary  `json:"createdBy,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
}

// QuestionFilter narrows question listings; nil fields mean "any"
type QuestionFilter struct {
	CreatedBy      *uuid.UUID
	GradeID        *uuid.UUID
	SubjectID      *uuid.UUID
	ChapterID      *uuid.UUID
	QuestionTypeID *uuid.UUID
	Limit          uint64
	Offset         uint64
}

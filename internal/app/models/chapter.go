package models

import (
	"time"

	"github.com/google/uuid"
)

// Chapter is owned by its creator. (GradeID, SubjectID, ChapterName) is unique per creator.
type Chapter struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	GradeID     uuid.UUID    `json:"gradeId" db:"grade_id"`
	SubjectID   uuid.UUID    `json:"subjectId" db:"subject_id"`
	ChapterName string       `json:"chapterName" db:"chapter_name" example:"Functions"`
	BookName    *string      `json:"bookName,omitempty" db:"book_name" example:"Algebra I"`
	CreatedBy   uuid.UUID    `json:"createdById" db:"created_by"`
	Grade       *Grade       `json:"grade,omitempty"`
	Subject     *Subject     `json:"subject,omitempty"`
	Creator     *UserSummary `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time    `json:"updatedAt" db:"updated_at"`
}

// ChapterFilter narrows chapter listings; zero values mean "any"
type ChapterFilter struct {
	CreatedBy *uuid.UUID
	GradeID   *uuid.UUID
	SubjectID *uuid.UUID
}

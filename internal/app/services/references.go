package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

// References holds the raw reference fields of one write payload. A nil field
// is absent from the payload and is neither validated nor looked up.
type References struct {
	Grade        *string
	Subject      *string
	Chapter      *string
	QuestionType *string
}

// ResolvedReferences holds the records behind the present fields of References
type ResolvedReferences struct {
	Grade        *models.Grade
	Subject      *models.Subject
	Chapter      *models.Chapter
	QuestionType *models.QuestionType
}

// ReferenceValidator checks that referenced records are well formed and exist
type ReferenceValidator struct {
	repos *repositories.Repositories
}

// NewReferenceValidator creates a new ReferenceValidator
func NewReferenceValidator(repos *repositories.Repositories) *ReferenceValidator {
	return &ReferenceValidator{repos: repos}
}

type parsedRefs struct {
	grade, subject, chapter, questionType *uuid.UUID
}

func parseRef(raw *string, entity string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, ok := validation.ParseID(*raw)
	if !ok {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid %s ID", entity))
	}
	return &id, nil
}

// Resolve validates every present reference. Identifier formats are all
// checked before any lookup, and the first failure aborts.
func (v *ReferenceValidator) Resolve(ctx context.Context, refs References) (*ResolvedReferences, error) {
	var parsed parsedRefs
	var err error
	if parsed.grade, err = parseRef(refs.Grade, "grade"); err != nil {
		return nil, err
	}
	if parsed.subject, err = parseRef(refs.Subject, "subject"); err != nil {
		return nil, err
	}
	if parsed.chapter, err = parseRef(refs.Chapter, "chapter"); err != nil {
		return nil, err
	}
	if parsed.questionType, err = parseRef(refs.QuestionType, "question type"); err != nil {
		return nil, err
	}

	resolved := &ResolvedReferences{}
	if parsed.grade != nil {
		if resolved.Grade, err = v.repos.Grades.GetByID(ctx, *parsed.grade); err != nil {
			return nil, gradeErrors.translate(err, "look up grade")
		}
	}
	if parsed.subject != nil {
		if resolved.Subject, err = v.repos.Subjects.GetByID(ctx, *parsed.subject); err != nil {
			return nil, subjectErrors.translate(err, "look up subject")
		}
	}
	if parsed.chapter != nil {
		if resolved.Chapter, err = v.repos.Chapters.GetByID(ctx, *parsed.chapter); err != nil {
			return nil, chapterErrors.translate(err, "look up chapter")
		}
	}
	if parsed.questionType != nil {
		if resolved.QuestionType, err = v.repos.QuestionTypes.GetByID(ctx, *parsed.questionType); err != nil {
			return nil, questionTypeErrors.translate(err, "look up question type")
		}
	}
	return resolved, nil
}

// Subjects resolves the subject list of a grade. Every entry must be a valid
// identifier and every distinct identifier must exist.
func (v *ReferenceValidator) Subjects(ctx context.Context, raws []string) ([]*models.Subject, error) {
	if len(raws) == 0 {
		return nil, apperrors.NewBadRequestError("At least one subject is required")
	}

	ids := make([]uuid.UUID, 0, len(raws))
	seen := make(map[uuid.UUID]bool, len(raws))
	for _, raw := range raws {
		id, ok := validation.ParseID(raw)
		if !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid subject ID: %s", raw))
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	subjects, err := v.repos.Subjects.GetByIDs(ctx, ids)
	if err != nil {
		return nil, subjectErrors.translate(err, "look up subjects")
	}
	if len(subjects) != len(ids) {
		return nil, apperrors.NewResourceNotFoundError("One or more subjects not found")
	}
	return subjects, nil
}

// TaxonomyKeys holds a grade and subject given by identifier or unique name
type TaxonomyKeys struct {
	Grade   *string
	Subject *string
}

// ResolveTaxonomy resolves grade and subject keys. Blank keys are rejected
// before any lookup; a key that parses as an identifier is looked up by id,
// anything else by name.
func (v *ReferenceValidator) ResolveTaxonomy(ctx context.Context, keys TaxonomyKeys) (*models.Grade, *models.Subject, error) {
	if keys.Grade != nil && validation.IsBlank(*keys.Grade) {
		return nil, nil, apperrors.NewBadRequestError("Grade cannot be empty")
	}
	if keys.Subject != nil && validation.IsBlank(*keys.Subject) {
		return nil, nil, apperrors.NewBadRequestError("Subject cannot be empty")
	}

	var grade *models.Grade
	var subject *models.Subject
	var err error
	if keys.Grade != nil {
		if grade, err = v.gradeByKey(ctx, strings.TrimSpace(*keys.Grade)); err != nil {
			return nil, nil, err
		}
	}
	if keys.Subject != nil {
		if subject, err = v.subjectByKey(ctx, strings.TrimSpace(*keys.Subject)); err != nil {
			return nil, nil, err
		}
	}
	return grade, subject, nil
}

func (v *ReferenceValidator) gradeByKey(ctx context.Context, key string) (*models.Grade, error) {
	var grade *models.Grade
	var err error
	if id, ok := validation.ParseID(key); ok {
		grade, err = v.repos.Grades.GetByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			grade, err = v.repos.Grades.GetByName(ctx, key)
		}
	} else {
		grade, err = v.repos.Grades.GetByName(ctx, key)
	}
	if err != nil {
		return nil, gradeErrors.translate(err, "look up grade")
	}
	return grade, nil
}

func (v *ReferenceValidator) subjectByKey(ctx context.Context, key string) (*models.Subject, error) {
	var subject *models.Subject
	var err error
	if id, ok := validation.ParseID(key); ok {
		subject, err = v.repos.Subjects.GetByID(ctx, id)
		if errors.Is(err, repositories.ErrNotFound) {
			subject, err = v.repos.Subjects.GetByName(ctx, key)
		}
	} else {
		subject, err = v.repos.Subjects.GetByName(ctx, key)
	}
	if err != nil {
		return nil, subjectErrors.translate(err, "look up subject")
	}
	return subject, nil
}

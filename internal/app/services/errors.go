package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/apperrors"
	"github.com/yigit/questionbank/internal/pkg/validation"
)

// writeErrors carries the client messages for one entity's repository failures
type writeErrors struct {
	notFound   string
	duplicate  string
	referenced string
	missingRef string
}

// translateWrite is translate for inserts and updates, where a dangling
// reference means the target of a foreign key disappeared
func (m writeErrors) translateWrite(err error, op string) error {
	if errors.Is(err, repositories.ErrReferenced) {
		return apperrors.NewResourceNotFoundError(m.missingRef)
	}
	return m.translate(err, op)
}

// translate maps repository sentinels to application errors; anything else is internal
func (m writeErrors) translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NewResourceNotFoundError(m.notFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return apperrors.NewConflictError(m.duplicate)
	case errors.Is(err, repositories.ErrReferenced):
		return apperrors.NewConflictError(m.referenced)
	case errors.Is(err, repositories.ErrInvalidValue):
		return apperrors.NewBadRequestError("A value exceeds the allowed length")
	default:
		return apperrors.NewInternalError(fmt.Sprintf("failed to %s", op), err)
	}
}

var (
	userErrors = writeErrors{
		notFound:   "User not found",
		duplicate:  "User with email already exists",
		referenced: "User is still referenced by other records",
		missingRef: "User not found",
	}
	subjectErrors = writeErrors{
		notFound:   "Subject not found",
		duplicate:  "Subject already exists",
		referenced: "Subject is still used by grades, chapters or questions",
		missingRef: "Subject not found",
	}
	gradeErrors = writeErrors{
		notFound:   "Grade not found",
		duplicate:  "Grade already exists",
		referenced: "Grade is still used by chapters or questions",
		missingRef: "One or more subjects not found",
	}
	questionTypeErrors = writeErrors{
		notFound:   "Question type not found",
		duplicate:  "Question type already exists",
		referenced: "Question type is still used by questions",
		missingRef: "Question type not found",
	}
	chapterErrors = writeErrors{
		notFound:   "Chapter not found",
		duplicate:  "Chapter already exists for this grade and subject",
		referenced: "Chapter still has questions",
		missingRef: "Grade or subject not found",
	}
	questionErrors = writeErrors{
		notFound:   "Question not found",
		duplicate:  "Question already exists",
		referenced: "Question is still referenced by other records",
		missingRef: "A referenced record no longer exists",
	}
)

// parsePathID validates the id segment of a request path
func parsePathID(raw, entity string) (uuid.UUID, error) {
	id, ok := validation.ParseID(raw)
	if !ok {
		return uuid.Nil, apperrors.NewBadRequestError(fmt.Sprintf("Invalid %s ID", entity))
	}
	return id, nil
}

// checkLength rejects text longer than the column that stores it
func checkLength(field, value string, max int) error {
	if validation.ExceedsLength(value, max) {
		return apperrors.NewBadRequestError(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}

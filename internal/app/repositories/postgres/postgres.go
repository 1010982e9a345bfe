package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/dberrors"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

// scanner is satisfied by pgx.Row and pgx.Rows
type scanner interface {
	Scan(dest ...any) error
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// translateWriteError maps constraint violations onto the repository errors
func translateWriteError(err error) error {
	switch {
	case dberrors.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	case dberrors.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrReferenced, err)
	case dberrors.IsStringTooLong(err):
		return fmt.Errorf("%w: %v", repositories.ErrInvalidValue, err)
	default:
		return err
	}
}

// NewRepositories initializes all PostgreSQL-backed repositories
func NewRepositories(pool *pgxpool.Pool) *repositories.Repositories {
	return &repositories.Repositories{
		Users:         NewUserRepository(pool),
		Subjects:      NewSubjectRepository(pool),
		Grades:        NewGradeRepository(pool),
		Chapters:      NewChapterRepository(pool),
		QuestionTypes: NewQuestionTypeRepository(pool),
		Questions:     NewQuestionRepository(pool),
	}
}

// exists wraps query in SELECT EXISTS(...)
func exists(ctx context.Context, db *pgxpool.Pool, query squirrel.SelectBuilder) (bool, error) {
	sql, args, err := query.Prefix("SELECT EXISTS (").Suffix(")").ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build exists query: %w", err)
	}

	var found bool
	if err := db.QueryRow(ctx, sql, args...).Scan(&found); err != nil {
		logger.Error().Err(err).Msg("Error executing exists query")
		return false, fmt.Errorf("error checking existence: %w", err)
	}
	return found, nil
}

// deleteByID deletes one row and reports ErrNotFound or ErrReferenced
func deleteByID(ctx context.Context, db *pgxpool.Pool, sb squirrel.StatementBuilderType, table string, id uuid.UUID) error {
	sql, args, err := sb.Delete(table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := db.Exec(ctx, sql, args...)
	if err != nil {
		err = translateWriteError(err)
		if !errors.Is(err, repositories.ErrReferenced) {
			logger.Error().Err(err).Str("table", table).Str("id", id.String()).Msg("Error deleting row")
		}
		return fmt.Errorf("error deleting from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

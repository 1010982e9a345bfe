package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/questionbank/internal/app/models"
	"github.com/yigit/questionbank/internal/app/repositories"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

var questionTypeColumns = []string{"id", "name", "description", "created_at", "updated_at"}

// QuestionTypeRepository handles question type database operations
type QuestionTypeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionTypeRepository creates a new QuestionTypeRepository
func NewQuestionTypeRepository(db *pgxpool.Pool) *QuestionTypeRepository {
	return &QuestionTypeRepository{db: db, sb: newBuilder()}
}

// Create inserts a question type
func (r *QuestionTypeRepository) Create(ctx context.Context, qt *models.QuestionType) error {
	sql, args, err := r.sb.Insert("question_types").
		Columns("name", "description").
		Values(qt.Name, qt.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create question type query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&qt.ID, &qt.CreatedAt, &qt.UpdatedAt); err != nil {
		return fmt.Errorf("error creating question type: %w", translateWriteError(err))
	}
	return nil
}

// GetByID retrieves a question type by ID
func (r *QuestionTypeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.QuestionType, error) {
	sql, args, err := r.sb.Select(questionTypeColumns...).From("question_types").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question type query: %w", err)
	}

	qt := &models.QuestionType{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&qt.ID, &qt.Name, &qt.Description, &qt.CreatedAt, &qt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Str("questionTypeID", id.String()).Msg("Error scanning question type row")
		return nil, fmt.Errorf("error getting question type: %w", err)
	}
	return qt, nil
}

// GetAll retrieves all question types ordered by name
func (r *QuestionTypeRepository) GetAll(ctx context.Context) ([]*models.QuestionType, error) {
	sql, args, err := r.sb.Select(questionTypeColumns...).From("question_types").OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list question types query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying question types")
		return nil, fmt.Errorf("error querying question types: %w", err)
	}
	defer rows.Close()

	types := []*models.QuestionType{}
	for rows.Next() {
		qt := &models.QuestionType{}
		if err := rows.Scan(&qt.ID, &qt.Name, &qt.Description, &qt.CreatedAt, &qt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning question type row: %w", err)
		}
		types = append(types, qt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question type rows: %w", err)
	}
	return types, nil
}

// NameExists checks the question type natural key
func (r *QuestionTypeRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("question_types").Where(squirrel.Eq{"name": name}))
}

// Delete removes a question type; questions using it block the delete
func (r *QuestionTypeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, r.sb, "question_types", id)
}

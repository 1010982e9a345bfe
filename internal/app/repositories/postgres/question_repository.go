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

var questionColumns = []string{
	"id", "question", "answer", "grade_id", "subject_id", "chapter_id",
	"question_type_id", "description", "created_by", "created_at", "updated_at",
}

// QuestionRepository handles question database operations
type QuestionRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewQuestionRepository creates a new QuestionRepository
func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db, sb: newBuilder()}
}

func scanQuestion(row scanner) (*models.Question, error) {
	q := &models.Question{}
	err := row.Scan(&q.ID, &q.Question, &q.Answer, &q.GradeID, &q.SubjectID, &q.ChapterID,
		&q.QuestionTypeID, &q.Description, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a question
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	sql, args, err := r.sb.Insert("questions").
		Columns("question", "answer", "grade_id", "subject_id", "chapter_id", "question_type_id", "description", "created_by").
		Values(q.Question, q.Answer, q.GradeID, q.SubjectID, q.ChapterID, q.QuestionTypeID, q.Description, q.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create question query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return fmt.Errorf("error creating question: %w", translateWriteError(err))
	}
	return nil
}

// GetByID retrieves a question by ID
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	sql, args, err := r.sb.Select(questionColumns...).From("questions").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get question query: %w", err)
	}

	q, err := scanQuestion(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Str("questionID", id.String()).Msg("Error scanning question row")
		return nil, fmt.Errorf("error getting question: %w", err)
	}
	return q, nil
}

func applyQuestionFilter(query squirrel.SelectBuilder, filter models.QuestionFilter) squirrel.SelectBuilder {
	if filter.CreatedBy != nil {
		query = query.Where(squirrel.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.GradeID != nil {
		query = query.Where(squirrel.Eq{"grade_id": *filter.GradeID})
	}
	if filter.SubjectID != nil {
		query = query.Where(squirrel.Eq{"subject_id": *filter.SubjectID})
	}
	if filter.ChapterID != nil {
		query = query.Where(squirrel.Eq{"chapter_id": *filter.ChapterID})
	}
	if filter.QuestionTypeID != nil {
		query = query.Where(squirrel.Eq{"question_type_id": *filter.QuestionTypeID})
	}
	return query
}

// List returns one page of questions matching filter, newest first, and the total match count
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]*models.Question, int64, error) {
	countSQL, countArgs, err := applyQuestionFilter(r.sb.Select("COUNT(*)").From("questions"), filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count questions query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting questions")
		return nil, 0, fmt.Errorf("error counting questions: %w", err)
	}

	query := applyQuestionFilter(r.sb.Select(questionColumns...).From("questions"), filter).OrderBy("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list questions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying questions")
		return nil, 0, fmt.Errorf("error querying questions: %w", err)
	}
	defer rows.Close()

	questions := []*models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating question rows: %w", err)
	}
	return questions, total, nil
}

// TextExists checks the global question text key
func (r *QuestionRepository) TextExists(ctx context.Context, text string, excludeID *uuid.UUID) (bool, error) {
	query := r.sb.Select("1").From("questions").Where(squirrel.Eq{"question": text})
	if excludeID != nil {
		query = query.Where(squirrel.NotEq{"id": *excludeID})
	}
	return exists(ctx, r.db, query)
}

// Update persists the mutable question fields
func (r *QuestionRepository) Update(ctx context.Context, q *models.Question) error {
	sql, args, err := r.sb.Update("questions").
		SetMap(map[string]interface{}{
			"question":         q.Question,
			"answer":           q.Answer,
			"grade_id":         q.GradeID,
			"subject_id":       q.SubjectID,
			"chapter_id":       q.ChapterID,
			"question_type_id": q.QuestionTypeID,
			"description":      q.Description,
			"updated_at":       squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": q.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update question query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&q.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("error updating question: %w", translateWriteError(err))
	}
	return nil
}

// Delete removes a question
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, r.sb, "questions", id)
}

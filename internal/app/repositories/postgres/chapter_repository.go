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

var chapterColumns = []string{"id", "grade_id", "subject_id", "chapter_name", "book_name", "created_by", "created_at", "updated_at"}

// ChapterRepository handles chapter database operations
type ChapterRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChapterRepository creates a new ChapterRepository
func NewChapterRepository(db *pgxpool.Pool) *ChapterRepository {
	return &ChapterRepository{db: db, sb: newBuilder()}
}

func scanChapter(row scanner) (*models.Chapter, error) {
	c := &models.Chapter{}
	if err := row.Scan(&c.ID, &c.GradeID, &c.SubjectID, &c.ChapterName, &c.BookName, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a chapter
func (r *ChapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	sql, args, err := r.sb.Insert("chapters").
		Columns("grade_id", "subject_id", "chapter_name", "book_name", "created_by").
		Values(chapter.GradeID, chapter.SubjectID, chapter.ChapterName, chapter.BookName, chapter.CreatedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create chapter query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt); err != nil {
		return fmt.Errorf("error creating chapter: %w", translateWriteError(err))
	}
	return nil
}

// GetByID retrieves a chapter by ID
func (r *ChapterRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	sql, args, err := r.sb.Select(chapterColumns...).From("chapters").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get chapter query: %w", err)
	}

	chapter, err := scanChapter(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Str("chapterID", id.String()).Msg("Error scanning chapter row")
		return nil, fmt.Errorf("error getting chapter: %w", err)
	}
	return chapter, nil
}

// List returns chapters matching filter, newest first
func (r *ChapterRepository) List(ctx context.Context, filter models.ChapterFilter) ([]*models.Chapter, error) {
	query := r.sb.Select(chapterColumns...).From("chapters").OrderBy("created_at DESC")
	if filter.CreatedBy != nil {
		query = query.Where(squirrel.Eq{"created_by": *filter.CreatedBy})
	}
	if filter.GradeID != nil {
		query = query.Where(squirrel.Eq{"grade_id": *filter.GradeID})
	}
	if filter.SubjectID != nil {
		query = query.Where(squirrel.Eq{"subject_id": *filter.SubjectID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list chapters query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying chapters")
		return nil, fmt.Errorf("error querying chapters: %w", err)
	}
	defer rows.Close()

	chapters := []*models.Chapter{}
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chapter row: %w", err)
		}
		chapters = append(chapters, chapter)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chapter rows: %w", err)
	}
	return chapters, nil
}

// Exists checks the per-creator chapter natural key
func (r *ChapterRepository) Exists(ctx context.Context, gradeID, subjectID uuid.UUID, chapterName string, createdBy uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	query := r.sb.Select("1").From("chapters").Where(squirrel.Eq{
		"grade_id":     gradeID,
		"subject_id":   subjectID,
		"chapter_name": chapterName,
		"created_by":   createdBy,
	})
	if excludeID != nil {
		query = query.Where(squirrel.NotEq{"id": *excludeID})
	}
	return exists(ctx, r.db, query)
}

// Update persists the mutable chapter fields
func (r *ChapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	sql, args, err := r.sb.Update("chapters").
		SetMap(map[string]interface{}{
			"grade_id":     chapter.GradeID,
			"subject_id":   chapter.SubjectID,
			"chapter_name": chapter.ChapterName,
			"book_name":    chapter.BookName,
			"updated_at":   squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": chapter.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update chapter query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&chapter.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repositories.ErrNotFound
		}
		return fmt.Errorf("error updating chapter: %w", translateWriteError(err))
	}
	return nil
}

// Delete removes a chapter; questions filed under it block the delete
func (r *ChapterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, r.sb, "chapters", id)
}

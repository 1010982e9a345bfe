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

var subjectColumns = []string{"id", "name", "description", "created_at", "updated_at"}

// SubjectRepository handles subject database operations
type SubjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{db: db, sb: newBuilder()}
}

func scanSubject(row scanner) (*models.Subject, error) {
	s := &models.Subject{}
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a subject
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	sql, args, err := r.sb.Insert("subjects").
		Columns("name", "description").
		Values(subject.Name, subject.Description).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create subject query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt); err != nil {
		return fmt.Errorf("error creating subject: %w", translateWriteError(err))
	}
	return nil
}

func (r *SubjectRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Subject, error) {
	sql, args, err := r.sb.Select(subjectColumns...).From("subjects").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get subject query: %w", err)
	}

	subject, err := scanSubject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repositories.ErrNotFound
		}
		logger.Error().Err(err).Msg("Error scanning subject row")
		return nil, fmt.Errorf("error getting subject: %w", err)
	}
	return subject, nil
}

// GetByID retrieves a subject by ID
func (r *SubjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a subject by its unique name
func (r *SubjectRepository) GetByName(ctx context.Context, name string) (*models.Subject, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// GetByIDs returns the subjects among ids that exist, ordered by name
func (r *SubjectRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Subject, error) {
	if len(ids) == 0 {
		return []*models.Subject{}, nil
	}
	return r.list(ctx, r.sb.Select(subjectColumns...).From("subjects").Where(squirrel.Eq{"id": ids}).OrderBy("name ASC"))
}

// GetAll retrieves all subjects ordered by name
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*models.Subject, error) {
	return r.list(ctx, r.sb.Select(subjectColumns...).From("subjects").OrderBy("name ASC"))
}

func (r *SubjectRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Subject, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying subjects")
		return nil, fmt.Errorf("error querying subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subject row: %w", err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subject rows: %w", err)
	}
	return subjects, nil
}

// NameExists checks the subject natural key
func (r *SubjectRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("subjects").Where(squirrel.Eq{"name": name}))
}

// Delete removes a subject. Grades, chapters and questions still pointing at it block the delete.
func (r *SubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, r.sb, "subjects", id)
}

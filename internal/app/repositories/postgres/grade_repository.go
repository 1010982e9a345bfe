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
	"github.com/yigit/questionbank/internal/db"
	"github.com/yigit/questionbank/internal/pkg/logger"
)

var gradeColumns = []string{"id", "name", "created_at", "updated_at"}

// GradeRepository handles grade database operations. The subject set lives in grade_subjects.
type GradeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGradeRepository creates a new GradeRepository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: db, sb: newBuilder()}
}

// Create inserts the grade and its subject links in one transaction
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	gradeSQL, gradeArgs, err := r.sb.Insert("grades").
		Columns("name").
		Values(grade.Name).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create grade query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, gradeSQL, gradeArgs...).Scan(&grade.ID, &grade.CreatedAt, &grade.UpdatedAt); err != nil {
			return translateWriteError(err)
		}

		if len(grade.SubjectIDs) == 0 {
			return nil
		}
		link := r.sb.Insert("grade_subjects").Columns("grade_id", "subject_id").Suffix("ON CONFLICT DO NOTHING")
		for _, subjectID := range grade.SubjectIDs {
			link = link.Values(grade.ID, subjectID)
		}
		linkSQL, linkArgs, err := link.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build grade subjects query: %w", err)
		}
		if _, err := tx.Exec(ctx, linkSQL, linkArgs...); err != nil {
			return translateWriteError(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			logger.Error().Err(err).Str("grade", grade.Name).Msg("Error creating grade")
		}
		return fmt.Errorf("error creating grade: %w", err)
	}
	return nil
}

func (r *GradeRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Grade, error) {
	grades, err := r.list(ctx, r.sb.Select(gradeColumns...).From("grades").Where(where).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, repositories.ErrNotFound
	}
	return grades[0], nil
}

// GetByID retrieves a grade with its subjects
func (r *GradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grade, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByName retrieves a grade by its unique name
func (r *GradeRepository) GetByName(ctx context.Context, name string) (*models.Grade, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

// GetAll retrieves all grades with their subjects
func (r *GradeRepository) GetAll(ctx context.Context) ([]*models.Grade, error) {
	return r.list(ctx, r.sb.Select(gradeColumns...).From("grades").OrderBy("name ASC"))
}

func (r *GradeRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Grade, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list grades query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying grades")
		return nil, fmt.Errorf("error querying grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	byID := map[uuid.UUID]*models.Grade{}
	for rows.Next() {
		g := &models.Grade{Subjects: []*models.Subject{}, SubjectIDs: []uuid.UUID{}}
		if err := rows.Scan(&g.ID, &g.Name, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning grade row: %w", err)
		}
		grades = append(grades, g)
		byID[g.ID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grade rows: %w", err)
	}

	if len(grades) == 0 {
		return grades, nil
	}
	if err := r.attachSubjects(ctx, byID); err != nil {
		return nil, err
	}
	return grades, nil
}

// attachSubjects loads the subject sets of all grades in byID with a single query
func (r *GradeRepository) attachSubjects(ctx context.Context, byID map[uuid.UUID]*models.Grade) error {
	ids := make([]uuid.UUID, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	sql, args, err := r.sb.Select("gs.grade_id", "s.id", "s.name", "s.description", "s.created_at", "s.updated_at").
		From("grade_subjects gs").
		Join("subjects s ON s.id = gs.subject_id").
		Where(squirrel.Eq{"gs.grade_id": ids}).
		OrderBy("s.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build grade subjects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying grade subjects")
		return fmt.Errorf("error querying grade subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gradeID uuid.UUID
		s := &models.Subject{}
		if err := rows.Scan(&gradeID, &s.ID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return fmt.Errorf("error scanning grade subject row: %w", err)
		}
		if g, ok := byID[gradeID]; ok {
			g.Subjects = append(g.Subjects, s)
			g.SubjectIDs = append(g.SubjectIDs, s.ID)
		}
	}
	return rows.Err()
}

// NameExists checks the grade natural key
func (r *GradeRepository) NameExists(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, r.sb.Select("1").From("grades").Where(squirrel.Eq{"name": name}))
}

// Delete removes a grade and its subject links; chapters and questions block the delete
func (r *GradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, r.sb, "grades", id)
}

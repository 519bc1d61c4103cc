package postgres

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/domain/grade"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	"github.com/gradeflow/gradeflow/internal/types"
)

type gradeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewGradeRepository(db *postgres.DB, logger *logger.Logger) grade.Repository {
	return &gradeRepository{db: db, logger: logger}
}

func (r *gradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	query := `
		INSERT INTO grades (
			id,
			name,
			description,
			plan,
			min_revenue,
			max_revenue,
			performance_levels,
			color,
			grade_order,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:name,
			:description,
			:plan,
			:min_revenue,
			:max_revenue,
			:performance_levels,
			:color,
			:grade_order,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating grade", "grade_id", g.ID, "name", g.Name)

	_, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		r.logger.Errorw("failed to create grade", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to create grade").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *gradeRepository) Get(ctx context.Context, id string) (*grade.Grade, error) {
	query := `
		SELECT * FROM grades
		WHERE id = :id
		AND status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":      id,
		"deleted": types.StatusDeleted,
	})
	if err != nil {
		r.logger.Errorw("failed to get grade", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get grade").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("grade not found").
			WithHintf("Grade with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var g grade.Grade
	if err := rows.StructScan(&g); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan grade").
			Mark(ierr.ErrDatabase)
	}
	return &g, nil
}

func (r *gradeRepository) List(ctx context.Context, filter *types.GradeFilter) ([]*grade.Grade, error) {
	query := `SELECT * FROM grades WHERE status != :deleted`
	params := map[string]interface{}{
		"deleted": types.StatusDeleted,
	}

	if filter != nil && filter.Status != nil {
		query += ` AND status = :status`
		params["status"] = *filter.Status
	}

	query += ` ORDER BY grade_order ASC`

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		r.logger.Errorw("failed to list grades", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list grades").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var grades []*grade.Grade
	for rows.Next() {
		var g grade.Grade
		if err := rows.StructScan(&g); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan grade").
				Mark(ierr.ErrDatabase)
		}
		grades = append(grades, &g)
	}
	return grades, nil
}

func (r *gradeRepository) Update(ctx context.Context, g *grade.Grade) error {
	g.UpdatedAt = time.Now().UTC()
	g.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE grades SET
			name = :name,
			description = :description,
			plan = :plan,
			min_revenue = :min_revenue,
			max_revenue = :max_revenue,
			performance_levels = :performance_levels,
			color = :color,
			grade_order = :grade_order,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		r.logger.Errorw("failed to update grade", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to update grade").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("grade not found").
			WithHintf("Grade with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *gradeRepository) Delete(ctx context.Context, id string) error {
	// soft delete keeps transition history referencing the grade intact
	query := `
		UPDATE grades SET
			status = :deleted,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND status != :deleted
	`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         id,
		"deleted":    types.StatusDeleted,
		"updated_at": time.Now().UTC(),
		"updated_by": types.GetUserID(ctx),
	})
	if err != nil {
		r.logger.Errorw("failed to delete grade", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to delete grade").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("grade not found").
			WithHintf("Grade with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

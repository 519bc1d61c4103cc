package postgres

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/domain/period"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/lib/pq"
)

type periodRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPeriodRepository(db *postgres.DB, logger *logger.Logger) period.Repository {
	return &periodRepository{db: db, logger: logger}
}

func (r *periodRepository) Create(ctx context.Context, p *period.Period) error {
	query := `
		INSERT INTO periods (
			id,
			name,
			start_date,
			end_date,
			period_type,
			period_status,
			participant_snapshots,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:name,
			:start_date,
			:end_date,
			:period_type,
			:period_status,
			:participant_snapshots,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating period", "period_id", p.ID, "name", p.Name)

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		r.logger.Errorw("failed to create period", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to create period").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *periodRepository) Get(ctx context.Context, id string) (*period.Period, error) {
	query := `SELECT * FROM periods WHERE id = :id`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id": id,
	})
	if err != nil {
		r.logger.Errorw("failed to get period", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get period").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("period not found").
			WithHintf("Period with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var p period.Period
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan period").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *periodRepository) List(ctx context.Context, filter *types.PeriodFilter) ([]*period.Period, error) {
	query := `SELECT * FROM periods WHERE 1 = 1`
	params := map[string]interface{}{}

	if filter != nil && filter.Status != nil {
		query += ` AND period_status = :period_status`
		params["period_status"] = *filter.Status
	}

	query += ` ORDER BY start_date DESC`

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		r.logger.Errorw("failed to list periods", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list periods").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var periods []*period.Period
	for rows.Next() {
		var p period.Period
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan period").
				Mark(ierr.ErrDatabase)
		}
		periods = append(periods, &p)
	}
	return periods, nil
}

func (r *periodRepository) Update(ctx context.Context, p *period.Period) error {
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE periods SET
			name = :name,
			start_date = :start_date,
			end_date = :end_date,
			period_type = :period_type,
			period_status = :period_status,
			participant_snapshots = :participant_snapshots,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		r.logger.Errorw("failed to update period", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to update period").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("period not found").
			WithHintf("Period with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *periodRepository) GetActive(ctx context.Context) (*period.Period, error) {
	return r.getByStatuses(ctx, types.PeriodStatusActive)
}

func (r *periodRepository) GetOpen(ctx context.Context) (*period.Period, error) {
	return r.getByStatuses(ctx, types.PeriodStatusPending, types.PeriodStatusActive)
}

func (r *periodRepository) getByStatuses(ctx context.Context, statuses ...types.PeriodStatus) (*period.Period, error) {
	query := `
		SELECT * FROM periods
		WHERE period_status = ANY(:statuses)
		ORDER BY start_date DESC
		LIMIT 1
	`

	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"statuses": pq.Array(values),
	})
	if err != nil {
		r.logger.Errorw("failed to get period by status", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get period").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("period not found").
			WithHintf("No period in status %v exists", statuses).
			Mark(ierr.ErrNotFound)
	}

	var p period.Period
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan period").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

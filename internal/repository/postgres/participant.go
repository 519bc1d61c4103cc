package postgres

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
	"github.com/gradeflow/gradeflow/internal/types"
)

type participantRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewParticipantRepository(db *postgres.DB, logger *logger.Logger) participant.Repository {
	return &participantRepository{db: db, logger: logger}
}

func (r *participantRepository) Create(ctx context.Context, p *participant.Participant) error {
	query := `
		INSERT INTO participants (
			id,
			first_name,
			last_name,
			email,
			phone_number,
			revenue,
			grade_id,
			warning_status,
			warning_periods_left,
			last_period_revenue,
			last_completion_percentage,
			joined_at,
			status,
			created_at,
			updated_at,
			created_by,
			updated_by
		)
		VALUES (
			:id,
			:first_name,
			:last_name,
			:email,
			:phone_number,
			:revenue,
			:grade_id,
			:warning_status,
			:warning_periods_left,
			:last_period_revenue,
			:last_completion_percentage,
			:joined_at,
			:status,
			:created_at,
			:updated_at,
			:created_by,
			:updated_by
		)
	`

	r.logger.Debugw("creating participant", "participant_id", p.ID)

	_, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		r.logger.Errorw("failed to create participant", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to create participant").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *participantRepository) Get(ctx context.Context, id string) (*participant.Participant, error) {
	query := `
		SELECT * FROM participants
		WHERE id = :id
		AND status != :deleted
	`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"id":      id,
		"deleted": types.StatusDeleted,
	})
	if err != nil {
		r.logger.Errorw("failed to get participant", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to get participant").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewError("participant not found").
			WithHintf("Participant with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}

	var p participant.Participant
	if err := rows.StructScan(&p); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan participant").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *participantRepository) List(ctx context.Context, filter *types.ParticipantFilter) ([]*participant.Participant, error) {
	query := `SELECT * FROM participants WHERE status != :deleted`
	params := map[string]interface{}{
		"deleted": types.StatusDeleted,
	}

	if filter != nil {
		if filter.Status != nil {
			query += ` AND status = :status`
			params["status"] = *filter.Status
		}
		if filter.GradeID != nil {
			query += ` AND grade_id = :grade_id`
			params["grade_id"] = *filter.GradeID
		}
		if filter.WarningStatus != nil {
			query += ` AND warning_status = :warning_status`
			params["warning_status"] = *filter.WarningStatus
		}
	}

	query += ` ORDER BY created_at ASC, id ASC`

	return r.queryParticipants(ctx, query, params)
}

func (r *participantRepository) ListWithWarnings(ctx context.Context) ([]*participant.Participant, error) {
	query := `
		SELECT * FROM participants
		WHERE status = :active
		AND warning_status != :none
		ORDER BY warning_periods_left ASC, id ASC
	`

	return r.queryParticipants(ctx, query, map[string]interface{}{
		"active": types.StatusActive,
		"none":   types.WarningStatusNone,
	})
}

func (r *participantRepository) queryParticipants(ctx context.Context, query string, params map[string]interface{}) ([]*participant.Participant, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		r.logger.Errorw("failed to list participants", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list participants").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var participants []*participant.Participant
	for rows.Next() {
		var p participant.Participant
		if err := rows.StructScan(&p); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan participant").
				Mark(ierr.ErrDatabase)
		}
		participants = append(participants, &p)
	}
	return participants, nil
}

func (r *participantRepository) Update(ctx context.Context, p *participant.Participant) error {
	p.UpdatedAt = time.Now().UTC()
	p.UpdatedBy = types.GetUserID(ctx)

	query := `
		UPDATE participants SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			phone_number = :phone_number,
			revenue = :revenue,
			grade_id = :grade_id,
			warning_status = :warning_status,
			warning_periods_left = :warning_periods_left,
			last_period_revenue = :last_period_revenue,
			last_completion_percentage = :last_completion_percentage,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, p)
	if err != nil {
		r.logger.Errorw("failed to update participant", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to update participant").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("participant not found").
			WithHintf("Participant with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *participantRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE participants SET
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
		r.logger.Errorw("failed to delete participant", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to delete participant").
			Mark(ierr.ErrDatabase)
	}

	if n, _ := result.RowsAffected(); n == 0 {
		return ierr.NewError("participant not found").
			WithHintf("Participant with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

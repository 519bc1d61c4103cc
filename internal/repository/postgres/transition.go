package postgres

import (
	"context"
	"strings"

	"github.com/gradeflow/gradeflow/internal/domain/transition"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/logger"
	"github.com/gradeflow/gradeflow/internal/postgres"
)

type transitionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTransitionRepository(db *postgres.DB, logger *logger.Logger) transition.Repository {
	return &transitionRepository{db: db, logger: logger}
}

func (r *transitionRepository) Append(ctx context.Context, t *transition.Transition) error {
	query := `
		INSERT INTO grade_transitions (
			id,
			participant_id,
			from_grade_id,
			to_grade_id,
			period_id,
			transition_type,
			reason,
			completion_percentage,
			revenue,
			idempotency_key,
			created_at
		)
		VALUES (
			:id,
			:participant_id,
			:from_grade_id,
			:to_grade_id,
			:period_id,
			:transition_type,
			:reason,
			:completion_percentage,
			:revenue,
			:idempotency_key,
			:created_at
		)
	`

	r.logger.Debugw("recording grade transition",
		"transition_id", t.ID,
		"participant_id", t.ParticipantID,
		"type", t.TransitionType)

	_, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		// the unique index on idempotency_key rejects a duplicate run
		if strings.Contains(err.Error(), "idempotency_key") {
			return ierr.WithError(err).
				WithHintf("Transition for idempotency key %s was already recorded", t.IdempotencyKey).
				Mark(ierr.ErrAlreadyExists)
		}
		r.logger.Errorw("failed to record transition", "error", err)
		return ierr.WithError(err).
			WithHint("Failed to record transition").
			Mark(ierr.ErrDatabase)
	}

	return nil
}

func (r *transitionRepository) ListByParticipant(ctx context.Context, participantID string) ([]*transition.Transition, error) {
	query := `
		SELECT * FROM grade_transitions
		WHERE participant_id = :participant_id
		ORDER BY created_at DESC, id DESC
	`

	return r.queryTransitions(ctx, query, map[string]interface{}{
		"participant_id": participantID,
	})
}

func (r *transitionRepository) ListByPeriod(ctx context.Context, periodID string) ([]*transition.Transition, error) {
	query := `
		SELECT * FROM grade_transitions
		WHERE period_id = :period_id
		ORDER BY created_at DESC, id DESC
	`

	return r.queryTransitions(ctx, query, map[string]interface{}{
		"period_id": periodID,
	})
}

func (r *transitionRepository) queryTransitions(ctx context.Context, query string, params map[string]interface{}) ([]*transition.Transition, error) {
	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		r.logger.Errorw("failed to list transitions", "error", err)
		return nil, ierr.WithError(err).
			WithHint("Failed to list transitions").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var transitions []*transition.Transition
	for rows.Next() {
		var t transition.Transition
		if err := rows.StructScan(&t); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan transition").
				Mark(ierr.ErrDatabase)
		}
		transitions = append(transitions, &t)
	}
	return transitions, nil
}

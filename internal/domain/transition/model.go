package transition

import (
	"time"

	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Transition is an append-only audit fact recording a grade change and its
// cause. Records are never updated or deleted.
type Transition struct {
	ID            string  `db:"id" json:"id"`
	ParticipantID string  `db:"participant_id" json:"participant_id"`
	FromGradeID   *string `db:"from_grade_id" json:"from_grade_id,omitempty"`
	ToGradeID     string  `db:"to_grade_id" json:"to_grade_id"`
	PeriodID      string  `db:"period_id" json:"period_id"`

	TransitionType types.TransitionType `db:"transition_type" json:"transition_type"`

	// Reason is human-readable and deterministic given the same inputs
	Reason string `db:"reason" json:"reason"`

	CompletionPercentage decimal.Decimal `db:"completion_percentage" json:"completion_percentage"`
	Revenue              decimal.Decimal `db:"revenue" json:"revenue"`

	// IdempotencyKey is derived from (period, participant) so re-processing
	// an already handled close can be detected by the persistence layer
	IdempotencyKey string `db:"idempotency_key" json:"idempotency_key"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

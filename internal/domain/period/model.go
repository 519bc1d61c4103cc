package period

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Period is the time-boxing concept whose completion triggers one transition
// run. Its id doubles as the idempotency/audit key for that run.
type Period struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	StartDate time.Time        `db:"start_date" json:"start_date"`
	EndDate   time.Time        `db:"end_date" json:"end_date"`
	Type      types.PeriodType `db:"period_type" json:"type"`

	PeriodStatus types.PeriodStatus `db:"period_status" json:"period_status"`

	// ParticipantSnapshots freezes per-participant figures at completion time
	ParticipantSnapshots Snapshots `db:"participant_snapshots" json:"participant_snapshots,omitempty"`

	types.BaseModel
}

// Snapshot is one participant's figures frozen when the period completed
type Snapshot struct {
	ParticipantID        string          `json:"participant_id"`
	Name                 string          `json:"name"`
	Revenue              decimal.Decimal `json:"revenue"`
	GradeID              *string         `json:"grade_id,omitempty"`
	GradeName            string          `json:"grade_name,omitempty"`
	CompletionPercentage decimal.Decimal `json:"completion_percentage"`
	SnapshotAt           time.Time       `json:"snapshot_at"`
}

// Snapshots is stored as a JSON column
type Snapshots []Snapshot

// Value implements driver.Valuer for sqlx
func (s Snapshots) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for sqlx
func (s *Snapshots) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for participant snapshots: %T", src)
	}
}

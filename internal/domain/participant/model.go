package participant

import (
	"strings"
	"time"

	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Participant is a salesperson tracked by the compensation scheme.
//
// Revenue is written only by the ingestion side; the transition engine reads
// it and writes the grade and warning fields at period close.
type Participant struct {
	ID          string `db:"id" json:"id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Email       string `db:"email" json:"email"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`

	// Revenue accumulated in the current period, externally supplied
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`

	// GradeID is nil while the participant has not been assigned a grade yet
	GradeID *string `db:"grade_id" json:"grade_id,omitempty"`

	WarningStatus      types.WarningStatus `db:"warning_status" json:"warning_status"`
	WarningPeriodsLeft int                 `db:"warning_periods_left" json:"warning_periods_left"`

	LastPeriodRevenue        decimal.Decimal `db:"last_period_revenue" json:"last_period_revenue"`
	LastCompletionPercentage decimal.Decimal `db:"last_completion_percentage" json:"last_completion_percentage"`

	JoinedAt time.Time `db:"joined_at" json:"joined_at"`

	types.BaseModel
}

// FullName joins the first and last name, tolerating a missing last name
func (p *Participant) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Assigned reports whether the participant currently holds a grade
func (p *Participant) Assigned() bool {
	return p.GradeID != nil && *p.GradeID != ""
}

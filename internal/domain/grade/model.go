package grade

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/shopspring/decimal"
)

// Grade is a ranked compensation tier with its own revenue plan and pay table.
// Grades are totally ordered by Order within an active catalog: order 0 is the
// top tier and larger values rank lower.
type Grade struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`

	// Plan is the target revenue assigned to this grade
	Plan decimal.Decimal `db:"plan" json:"plan"`

	// MinRevenue and MaxRevenue bound the revenue band the grade covers,
	// inclusive on both ends. A nil bound means the band is unbounded at
	// that extreme.
	MinRevenue *decimal.Decimal `db:"min_revenue" json:"min_revenue,omitempty"`
	MaxRevenue *decimal.Decimal `db:"max_revenue" json:"max_revenue,omitempty"`

	// PerformanceLevels holds the raw pay table as stored. The source data
	// drifts between two shapes, so everything downstream goes through
	// NormalizeLevels and only ever sees []PerformanceLevel.
	PerformanceLevels RawLevels `db:"performance_levels" json:"performance_levels,omitempty"`

	Color string `db:"color" json:"color"`
	Order int    `db:"grade_order" json:"order"`

	types.BaseModel
}

// ContainsRevenue reports whether revenue falls inside the grade's band,
// inclusive on both ends
func (g *Grade) ContainsRevenue(revenue decimal.Decimal) bool {
	if g.MinRevenue != nil && revenue.LessThan(*g.MinRevenue) {
		return false
	}
	if g.MaxRevenue != nil && revenue.GreaterThan(*g.MaxRevenue) {
		return false
	}
	return true
}

// CompletionPercent returns revenue as a percentage of the grade's plan.
// A non-positive plan yields zero rather than dividing by it.
func (g *Grade) CompletionPercent(revenue decimal.Decimal) decimal.Decimal {
	if g.Plan.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return revenue.Div(g.Plan).Mul(decimal.NewFromInt(100))
}

// RawLevels is the performance level column as stored: a JSON array in
// either the canonical band shape or the legacy checkpoint shape
type RawLevels json.RawMessage

// Value implements driver.Valuer for sqlx
func (r RawLevels) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return []byte(r), nil
}

// Scan implements sql.Scanner for sqlx
func (r *RawLevels) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawLevels(v)
	default:
		return fmt.Errorf("unsupported type for performance levels: %T", src)
	}
	return nil
}

// MarshalJSON passes the raw payload through untouched
func (r RawLevels) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return []byte(r), nil
}

// UnmarshalJSON stores the raw payload untouched
func (r *RawLevels) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

package dto

import (
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/shopspring/decimal"
)

// UnassignedGradeLabel is the sentinel used in breakdowns for participants
// without a grade
const UnassignedGradeLabel = "unassigned"

// SalaryBreakdown is the per-participant pay figure set for one period.
//
// Commission follows the current grade's governing band; the fixed salary
// follows the grade the raw revenue alone deserves, so base pay does not
// drop abruptly right after a demotion. Bonus is a deprecated output that
// always computes to zero but stays serialized for downstream readers.
type SalaryBreakdown struct {
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`

	CurrentGrade      string `json:"current_grade"`
	CurrentGradeID    string `json:"current_grade_id"`
	CurrentGradeColor string `json:"current_grade_color"`

	Revenue        decimal.Decimal `json:"revenue"`
	PlanCompletion decimal.Decimal `json:"plan_completion"`

	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`

	FixedSalary      decimal.Decimal `json:"fixed_salary"`
	FixedSalaryGrade string          `json:"fixed_salary_grade"`

	Bonus       decimal.Decimal `json:"bonus"`
	TotalSalary decimal.Decimal `json:"total_salary"`

	// PerformanceLevel labels the governing band, e.g. "90%"
	PerformanceLevel string `json:"performance_level"`
}

type SalarySummary struct {
	TotalCommission  decimal.Decimal `json:"total_commission"`
	TotalFixedSalary decimal.Decimal `json:"total_fixed_salary"`
	TotalBonus       decimal.Decimal `json:"total_bonus"`
	TotalSalary      decimal.Decimal `json:"total_salary"`
	PeriodID         string          `json:"period_id"`
	PeriodName       string          `json:"period_name"`
}

type SalaryCalculationResponse struct {
	Calculations []SalaryBreakdown `json:"calculations"`
	Summary      SalarySummary     `json:"summary"`
}

type ParticipantSalaryDetailsResponse struct {
	Participant        *ParticipantResponse     `json:"participant"`
	CurrentCalculation SalaryBreakdown          `json:"current_calculation"`
	PerformanceLevels  []grade.PerformanceLevel `json:"performance_levels"`
}

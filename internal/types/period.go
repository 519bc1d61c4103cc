package types

import (
	ierr "github.com/gradeflow/gradeflow/internal/errors"
)

// PeriodStatus is the lifecycle status of a compensation period.
// Only the ACTIVE -> COMPLETED transition triggers a grade transition run.
type PeriodStatus string

const (
	PeriodStatusPending   PeriodStatus = "PENDING"
	PeriodStatusActive    PeriodStatus = "ACTIVE"
	PeriodStatusCompleted PeriodStatus = "COMPLETED"
	PeriodStatusCancelled PeriodStatus = "CANCELLED"
)

func (s PeriodStatus) Validate() error {
	switch s {
	case PeriodStatusPending, PeriodStatusActive, PeriodStatusCompleted, PeriodStatusCancelled:
		return nil
	}
	return ierr.NewError("invalid period status").
		WithHintf("Period status %s is not supported", s).
		Mark(ierr.ErrValidation)
}

// PeriodType is the time-boxing granularity of a period
type PeriodType string

const (
	PeriodTypeMonthly   PeriodType = "MONTHLY"
	PeriodTypeQuarterly PeriodType = "QUARTERLY"
	PeriodTypeCustom    PeriodType = "CUSTOM"
)

func (t PeriodType) Validate() error {
	switch t {
	case PeriodTypeMonthly, PeriodTypeQuarterly, PeriodTypeCustom:
		return nil
	}
	return ierr.NewError("invalid period type").
		WithHintf("Period type %s is not supported", t).
		Mark(ierr.ErrValidation)
}

// PeriodFilter carries the filter options for listing periods
type PeriodFilter struct {
	Status *PeriodStatus `json:"status,omitempty" form:"status"`
}

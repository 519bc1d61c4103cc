package types

import (
	ierr "github.com/gradeflow/gradeflow/internal/errors"
)

// WarningStatus is the hysteresis state a participant carries between period
// closes. A warning delays demotion so a single weak period does not
// immediately cost the participant their grade.
type WarningStatus string

const (
	// WarningStatusNone means the participant carries no active warning
	WarningStatusNone WarningStatus = "NONE"
	// WarningStatus90 is issued when plan completion lands in [90%, 100%)
	WarningStatus90 WarningStatus = "WARNING_90"
	// WarningStatus80 is issued when plan completion lands in [80%, 90%)
	WarningStatus80 WarningStatus = "WARNING_80"
)

func (s WarningStatus) Validate() error {
	switch s {
	case WarningStatusNone, WarningStatus90, WarningStatus80:
		return nil
	}
	return ierr.NewError("invalid warning status").
		WithHintf("Warning status %s is not supported", s).
		Mark(ierr.ErrValidation)
}

// Active reports whether the participant is currently carrying a warning
func (s WarningStatus) Active() bool {
	return s == WarningStatus90 || s == WarningStatus80
}

// TransitionType classifies a grade change in the audit log
type TransitionType string

const (
	TransitionTypeInitial   TransitionType = "INITIAL"
	TransitionTypePromotion TransitionType = "PROMOTION"
	TransitionTypeDemotion  TransitionType = "DEMOTION"
)

func (t TransitionType) Validate() error {
	switch t {
	case TransitionTypeInitial, TransitionTypePromotion, TransitionTypeDemotion:
		return nil
	}
	return ierr.NewError("invalid transition type").
		WithHintf("Transition type %s is not supported", t).
		Mark(ierr.ErrValidation)
}

// GradeFilter carries the filter options for listing grades
type GradeFilter struct {
	Status *Status `json:"status,omitempty" form:"status"`
}

// ParticipantFilter carries the filter options for listing participants
type ParticipantFilter struct {
	GradeID       *string        `json:"grade_id,omitempty" form:"grade_id"`
	WarningStatus *WarningStatus `json:"warning_status,omitempty" form:"warning_status"`
	Status        *Status        `json:"status,omitempty" form:"status"`
}

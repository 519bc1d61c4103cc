package dto

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/domain/period"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/gradeflow/gradeflow/internal/validator"
)

type CreatePeriodRequest struct {
	Name      string           `json:"name" validate:"required"`
	StartDate time.Time        `json:"start_date" validate:"required"`
	EndDate   time.Time        `json:"end_date" validate:"required"`
	Type      types.PeriodType `json:"type" validate:"required"`
}

func (r *CreatePeriodRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Type.Validate(); err != nil {
		return err
	}

	if !r.StartDate.Before(r.EndDate) {
		return ierr.NewError("invalid period dates").
			WithHint("Start date must be before end date").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *CreatePeriodRequest) ToPeriod(ctx context.Context) *period.Period {
	return &period.Period{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PERIOD),
		Name:         r.Name,
		StartDate:    r.StartDate.UTC(),
		EndDate:      r.EndDate.UTC(),
		Type:         r.Type,
		PeriodStatus: types.PeriodStatusPending,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

type UpdatePeriodRequest struct {
	Name      *string           `json:"name"`
	StartDate *time.Time        `json:"start_date"`
	EndDate   *time.Time        `json:"end_date"`
	Type      *types.PeriodType `json:"type"`
}

func (r *UpdatePeriodRequest) Validate() error {
	if r.Type != nil {
		if err := r.Type.Validate(); err != nil {
			return err
		}
	}
	return nil
}

type CompletePeriodRequest struct {
	// SaveSnapshot defaults to true; pass false to skip freezing
	// participant figures on the period row
	SaveSnapshot *bool `json:"save_snapshot"`
}

type PeriodResponse struct {
	*period.Period

	TransitionCount int `json:"transition_count,omitempty"`
}

type ListPeriodsResponse struct {
	Periods []*PeriodResponse `json:"periods"`
	Total   int               `json:"total"`
}

// CompletePeriodResponse reports the outcome of a period close
type CompletePeriodResponse struct {
	Period      *PeriodResponse       `json:"period"`
	Transitions []*TransitionResponse `json:"transitions"`
}

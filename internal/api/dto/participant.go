package dto

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/gradeflow/gradeflow/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateParticipantRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number"`

	Revenue decimal.Decimal `json:"revenue"`
	GradeID *string         `json:"grade_id"`
}

func (r *CreateParticipantRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Revenue.IsNegative() {
		return ierr.NewError("revenue cannot be negative").
			WithHint("Revenue must be zero or positive").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *CreateParticipantRequest) ToParticipant(ctx context.Context) *participant.Participant {
	return &participant.Participant{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PARTICIPANT),
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Email:         r.Email,
		PhoneNumber:   r.PhoneNumber,
		Revenue:       r.Revenue,
		GradeID:       r.GradeID,
		WarningStatus: types.WarningStatusNone,
		JoinedAt:      time.Now().UTC(),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}

// UpdateParticipantRequest covers both profile edits and the revenue
// ingestion boundary. Grade and warning fields are owned by the transition
// engine and are deliberately absent here.
type UpdateParticipantRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`

	Revenue *decimal.Decimal `json:"revenue"`
}

func (r *UpdateParticipantRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Revenue != nil && r.Revenue.IsNegative() {
		return ierr.NewError("revenue cannot be negative").
			WithHint("Revenue must be zero or positive").
			Mark(ierr.ErrValidation)
	}

	return nil
}

type ParticipantResponse struct {
	*participant.Participant

	GradeName string `json:"grade_name,omitempty"`
}

type ListParticipantsResponse struct {
	Participants []*ParticipantResponse `json:"participants"`
	Total        int                    `json:"total"`
}

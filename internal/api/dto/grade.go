package dto

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/domain/grade"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/gradeflow/gradeflow/internal/validator"
	"github.com/shopspring/decimal"
)

type CreateGradeRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`

	Plan       decimal.Decimal  `json:"plan" validate:"required"`
	MinRevenue *decimal.Decimal `json:"min_revenue"`
	MaxRevenue *decimal.Decimal `json:"max_revenue"`

	// PerformanceLevels is accepted raw in either supported shape and
	// normalized on read
	PerformanceLevels grade.RawLevels `json:"performance_levels"`

	Color string `json:"color"`
	Order int    `json:"order" validate:"gte=0"`
}

func (r *CreateGradeRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Plan.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("plan must be positive").
			WithHint("The grade plan must be a positive revenue target").
			WithReportableDetails(map[string]any{"plan": r.Plan}).
			Mark(ierr.ErrValidation)
	}

	if r.MinRevenue != nil && r.MaxRevenue != nil && r.MinRevenue.GreaterThan(*r.MaxRevenue) {
		return ierr.NewError("invalid revenue band").
			WithHint("min_revenue must not exceed max_revenue").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (r *CreateGradeRequest) ToGrade(ctx context.Context) *grade.Grade {
	return &grade.Grade{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GRADE),
		Name:              r.Name,
		Description:       r.Description,
		Plan:              r.Plan,
		MinRevenue:        r.MinRevenue,
		MaxRevenue:        r.MaxRevenue,
		PerformanceLevels: r.PerformanceLevels,
		Color:             r.Color,
		Order:             r.Order,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
}

type UpdateGradeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`

	Plan       *decimal.Decimal `json:"plan"`
	MinRevenue *decimal.Decimal `json:"min_revenue"`
	MaxRevenue *decimal.Decimal `json:"max_revenue"`

	PerformanceLevels grade.RawLevels `json:"performance_levels"`

	Color *string `json:"color"`
	Order *int    `json:"order"`
}

func (r *UpdateGradeRequest) Validate() error {
	if r.Plan != nil && r.Plan.LessThanOrEqual(decimal.Zero) {
		return ierr.NewError("plan must be positive").
			WithHint("The grade plan must be a positive revenue target").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type GradeResponse struct {
	*grade.Grade

	// NormalizedLevels is the canonical band table the engine works with
	NormalizedLevels []grade.PerformanceLevel `json:"normalized_levels"`
}

func NewGradeResponse(g *grade.Grade) *GradeResponse {
	levels, _ := grade.NormalizeLevels(g.PerformanceLevels)
	return &GradeResponse{Grade: g, NormalizedLevels: levels}
}

type ListGradesResponse struct {
	Grades []*GradeResponse `json:"grades"`
	Total  int              `json:"total"`
}

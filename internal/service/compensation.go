package service

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	"github.com/gradeflow/gradeflow/internal/domain/grade"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/shopspring/decimal"
)

const defaultGradeColor = "#006657"

var oneHundred = decimal.NewFromInt(100)

type CompensationService interface {
	// CalculateSalaries computes the pay breakdown for every active
	// participant. An empty periodID targets the currently active period.
	CalculateSalaries(ctx context.Context, periodID string) (*dto.SalaryCalculationResponse, error)

	// CalculateParticipantSalary is the pure per-participant breakdown.
	// A nil current grade yields the zeroed unassigned breakdown.
	CalculateParticipantSalary(p *participant.Participant, current *grade.Grade, catalog *grade.Catalog) dto.SalaryBreakdown

	GetParticipantSalaryDetails(ctx context.Context, participantID string) (*dto.ParticipantSalaryDetailsResponse, error)
}

type compensationService struct {
	ServiceParams
}

func NewCompensationService(params ServiceParams) CompensationService {
	return &compensationService{
		ServiceParams: params,
	}
}

func (s *compensationService) CalculateSalaries(ctx context.Context, periodID string) (*dto.SalaryCalculationResponse, error) {
	var p *dto.PeriodResponse
	periodService := NewPeriodService(s.ServiceParams)
	if periodID != "" {
		found, err := periodService.GetPeriod(ctx, periodID)
		if err != nil {
			return nil, err
		}
		p = found
	} else {
		active, err := s.PeriodRepo.GetActive(ctx)
		if err != nil {
			if ierr.IsNotFound(err) {
				return nil, ierr.NewError("no active period").
					WithHint("Activate a period before calculating salaries").
					Mark(ierr.ErrInvalidOperation)
			}
			return nil, err
		}
		p = &dto.PeriodResponse{Period: active}
	}

	gradeService := NewGradeService(s.ServiceParams)
	catalog, err := gradeService.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	status := types.StatusActive
	participants, err := s.ParticipantRepo.List(ctx, &types.ParticipantFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	resp := &dto.SalaryCalculationResponse{
		Calculations: make([]dto.SalaryBreakdown, 0, len(participants)),
		Summary: dto.SalarySummary{
			TotalCommission:  decimal.Zero,
			TotalFixedSalary: decimal.Zero,
			TotalBonus:       decimal.Zero,
			TotalSalary:      decimal.Zero,
			PeriodID:         p.ID,
			PeriodName:       p.Name,
		},
	}

	for _, part := range participants {
		var current *grade.Grade
		if part.Assigned() {
			current, _ = catalog.ByID(*part.GradeID)
		}

		breakdown := s.CalculateParticipantSalary(part, current, catalog)
		resp.Calculations = append(resp.Calculations, breakdown)

		resp.Summary.TotalCommission = resp.Summary.TotalCommission.Add(breakdown.Commission)
		resp.Summary.TotalFixedSalary = resp.Summary.TotalFixedSalary.Add(breakdown.FixedSalary)
		resp.Summary.TotalBonus = resp.Summary.TotalBonus.Add(breakdown.Bonus)
		resp.Summary.TotalSalary = resp.Summary.TotalSalary.Add(breakdown.TotalSalary)
	}

	return resp, nil
}

func (s *compensationService) CalculateParticipantSalary(p *participant.Participant, current *grade.Grade, catalog *grade.Catalog) dto.SalaryBreakdown {
	breakdown := dto.SalaryBreakdown{
		ParticipantID:     p.ID,
		ParticipantName:   p.FullName(),
		CurrentGrade:      dto.UnassignedGradeLabel,
		CurrentGradeColor: defaultGradeColor,
		Revenue:           p.Revenue,
		PlanCompletion:    decimal.Zero,
		CommissionRate:    decimal.Zero,
		Commission:        decimal.Zero,
		FixedSalary:       decimal.Zero,
		Bonus:             decimal.Zero,
		TotalSalary:       decimal.Zero,
	}
	if current == nil {
		return breakdown
	}

	completion := current.CompletionPercent(p.Revenue)
	levels, usedDefault := grade.NormalizeLevels(current.PerformanceLevels)
	if usedDefault {
		s.Logger.Warnw("grade has no usable performance levels, using defaults",
			"grade_id", current.ID, "grade_name", current.Name)
	}
	lvl := grade.GoverningLevel(levels, completion)

	breakdown.CurrentGrade = current.Name
	breakdown.CurrentGradeID = current.ID
	if current.Color != "" {
		breakdown.CurrentGradeColor = current.Color
	}
	breakdown.PlanCompletion = completion
	breakdown.CommissionRate = lvl.CommissionRate
	breakdown.Commission = p.Revenue.Mul(lvl.CommissionRate).Div(oneHundred)
	breakdown.PerformanceLevel = lvl.MinPercentage.String() + "%"

	// Base pay follows the grade the raw revenue alone deserves, so a fresh
	// demotion does not also crater the fixed salary
	salaryGrade := catalog.FindByRevenue(p.Revenue)
	salaryLevels, _ := grade.NormalizeLevels(salaryGrade.PerformanceLevels)
	salaryLvl := grade.GoverningLevel(salaryLevels, salaryGrade.CompletionPercent(p.Revenue))
	breakdown.FixedSalary = salaryLvl.FixedSalary
	breakdown.FixedSalaryGrade = salaryGrade.Name

	breakdown.TotalSalary = breakdown.Commission.Add(breakdown.FixedSalary).Add(breakdown.Bonus)
	return breakdown
}

func (s *compensationService) GetParticipantSalaryDetails(ctx context.Context, participantID string) (*dto.ParticipantSalaryDetailsResponse, error) {
	p, err := s.ParticipantRepo.Get(ctx, participantID)
	if err != nil {
		return nil, err
	}

	gradeService := NewGradeService(s.ServiceParams)
	catalog, err := gradeService.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}

	var current *grade.Grade
	levels := grade.DefaultLevels()
	resp := &dto.ParticipantSalaryDetailsResponse{
		Participant: &dto.ParticipantResponse{Participant: p},
	}
	if p.Assigned() {
		if g, ok := catalog.ByID(*p.GradeID); ok {
			current = g
			resp.Participant.GradeName = g.Name
			levels, _ = grade.NormalizeLevels(g.PerformanceLevels)
		}
	}

	resp.CurrentCalculation = s.CalculateParticipantSalary(p, current, catalog)
	resp.PerformanceLevels = levels
	return resp, nil
}

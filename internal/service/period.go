package service

import (
	"context"
	"time"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	"github.com/gradeflow/gradeflow/internal/domain/period"
	"github.com/gradeflow/gradeflow/internal/domain/transition"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
)

type PeriodService interface {
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error)
	ListPeriods(ctx context.Context, filter *types.PeriodFilter) (*dto.ListPeriodsResponse, error)
	UpdatePeriod(ctx context.Context, id string, req dto.UpdatePeriodRequest) (*dto.PeriodResponse, error)

	// ActivatePeriod moves a pending period to active
	ActivatePeriod(ctx context.Context, id string) (*dto.PeriodResponse, error)

	// CompletePeriod closes an active period: it snapshots participant
	// figures, runs the transition engine once, and marks the period
	// completed, all atomically
	CompletePeriod(ctx context.Context, id string, req dto.CompletePeriodRequest) (*dto.CompletePeriodResponse, error)

	// CancelPeriod abandons an open period without running transitions
	CancelPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error)
}

type periodService struct {
	ServiceParams
}

func NewPeriodService(params ServiceParams) PeriodService {
	return &periodService{
		ServiceParams: params,
	}
}

func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// only one period may be pending or active at a time
	open, err := s.PeriodRepo.GetOpen(ctx)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if open != nil {
		return nil, ierr.NewError("an open period already exists").
			WithHintf("Period %s is still %s", open.Name, open.PeriodStatus).
			Mark(ierr.ErrAlreadyExists)
	}

	p := req.ToPeriod(ctx)
	if err := s.PeriodRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return &dto.PeriodResponse{Period: p}, nil
}

func (s *periodService) GetPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	if id == "" {
		return nil, ierr.NewError("period id is required").
			WithHint("Period ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.PeriodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	transitions, err := s.TransitionRepo.ListByPeriod(ctx, id)
	if err != nil {
		return nil, err
	}

	return &dto.PeriodResponse{Period: p, TransitionCount: len(transitions)}, nil
}

func (s *periodService) ListPeriods(ctx context.Context, filter *types.PeriodFilter) (*dto.ListPeriodsResponse, error) {
	periods, err := s.PeriodRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListPeriodsResponse{
		Periods: lo.Map(periods, func(p *period.Period, _ int) *dto.PeriodResponse {
			return &dto.PeriodResponse{Period: p}
		}),
		Total: len(periods),
	}, nil
}

func (s *periodService) UpdatePeriod(ctx context.Context, id string, req dto.UpdatePeriodRequest) (*dto.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.PeriodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PeriodStatus == types.PeriodStatusCompleted || p.PeriodStatus == types.PeriodStatusCancelled {
		return nil, ierr.NewError("period is closed").
			WithHintf("Period %s is %s and can no longer be edited", p.Name, p.PeriodStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.StartDate != nil {
		p.StartDate = req.StartDate.UTC()
	}
	if req.EndDate != nil {
		p.EndDate = req.EndDate.UTC()
	}
	if req.Type != nil {
		p.Type = *req.Type
	}

	if !p.StartDate.Before(p.EndDate) {
		return nil, ierr.NewError("invalid period dates").
			WithHint("Start date must be before end date").
			Mark(ierr.ErrValidation)
	}

	if err := s.PeriodRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return &dto.PeriodResponse{Period: p}, nil
}

func (s *periodService) ActivatePeriod(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	p, err := s.PeriodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PeriodStatus != types.PeriodStatusPending {
		return nil, ierr.NewError("period cannot be activated").
			WithHintf("Period %s is %s, only pending periods can be activated", p.Name, p.PeriodStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	p.PeriodStatus = types.PeriodStatusActive
	if err := s.PeriodRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("period activated", "period_id", p.ID, "period_name", p.Name)
	return &dto.PeriodResponse{Period: p}, nil
}

func (s *periodService) CompletePeriod(ctx context.Context, id string, req dto.CompletePeriodRequest) (*dto.CompletePeriodResponse, error) {
	p, err := s.PeriodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// re-completing is rejected, which keeps the close idempotent at the
	// orchestration boundary
	if p.PeriodStatus != types.PeriodStatusActive {
		return nil, ierr.NewError("period cannot be completed").
			WithHintf("Period %s is %s, only active periods can be completed", p.Name, p.PeriodStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	saveSnapshot := req.SaveSnapshot == nil || *req.SaveSnapshot

	transitionService := NewTransitionService(s.ServiceParams)
	var transitions []*transition.Transition

	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		if saveSnapshot {
			snapshots, err := s.snapshotParticipants(ctx)
			if err != nil {
				return err
			}
			p.ParticipantSnapshots = snapshots
		}

		transitions, err = transitionService.ProcessPeriod(ctx, p.ID)
		if err != nil {
			return err
		}

		p.PeriodStatus = types.PeriodStatusCompleted
		return s.PeriodRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("period completed",
		"period_id", p.ID,
		"period_name", p.Name,
		"transitions", len(transitions))

	return &dto.CompletePeriodResponse{
		Period: &dto.PeriodResponse{Period: p, TransitionCount: len(transitions)},
		Transitions: lo.Map(transitions, func(t *transition.Transition, _ int) *dto.TransitionResponse {
			return &dto.TransitionResponse{Transition: t}
		}),
	}, nil
}

func (s *periodService) CancelPeriod(ctx context.Context, id string) (*dto.PeriodResponse, error) {
	p, err := s.PeriodRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.PeriodStatus == types.PeriodStatusCompleted || p.PeriodStatus == types.PeriodStatusCancelled {
		return nil, ierr.NewError("period cannot be cancelled").
			WithHintf("Period %s is already %s", p.Name, p.PeriodStatus).
			Mark(ierr.ErrInvalidOperation)
	}

	p.PeriodStatus = types.PeriodStatusCancelled
	if err := s.PeriodRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.Logger.Infow("period cancelled", "period_id", p.ID, "period_name", p.Name)
	return &dto.PeriodResponse{Period: p}, nil
}

// snapshotParticipants freezes each active participant's closing figures
// before the engine rewrites grades and warnings
func (s *periodService) snapshotParticipants(ctx context.Context) (period.Snapshots, error) {
	status := types.StatusActive
	participants, err := s.ParticipantRepo.List(ctx, &types.ParticipantFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	grades, err := s.GradeRepo.List(ctx, &types.GradeFilter{})
	if err != nil {
		return nil, err
	}
	gradeNames := make(map[string]string, len(grades))
	gradesByID := make(map[string]int, len(grades))
	for i, g := range grades {
		gradeNames[g.ID] = g.Name
		gradesByID[g.ID] = i
	}

	now := time.Now().UTC()
	snapshots := make(period.Snapshots, 0, len(participants))
	for _, p := range participants {
		snap := period.Snapshot{
			ParticipantID: p.ID,
			Name:          p.FullName(),
			Revenue:       p.Revenue,
			GradeID:       p.GradeID,
			SnapshotAt:    now,
		}
		if p.Assigned() {
			snap.GradeName = gradeNames[*p.GradeID]
			if i, ok := gradesByID[*p.GradeID]; ok {
				snap.CompletionPercentage = grades[i].CompletionPercent(p.Revenue)
			}
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

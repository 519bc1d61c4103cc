package service

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/api/dto"
	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
	"github.com/samber/lo"
)

type ParticipantService interface {
	CreateParticipant(ctx context.Context, req dto.CreateParticipantRequest) (*dto.ParticipantResponse, error)
	GetParticipant(ctx context.Context, id string) (*dto.ParticipantResponse, error)
	ListParticipants(ctx context.Context, filter *types.ParticipantFilter) (*dto.ListParticipantsResponse, error)
	UpdateParticipant(ctx context.Context, id string, req dto.UpdateParticipantRequest) (*dto.ParticipantResponse, error)
	DeleteParticipant(ctx context.Context, id string) error

	// ListWithWarnings returns active participants currently carrying a warning
	ListWithWarnings(ctx context.Context) (*dto.ListParticipantsResponse, error)
}

type participantService struct {
	ServiceParams
}

func NewParticipantService(params ServiceParams) ParticipantService {
	return &participantService{
		ServiceParams: params,
	}
}

func (s *participantService) CreateParticipant(ctx context.Context, req dto.CreateParticipantRequest) (*dto.ParticipantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := req.ToParticipant(ctx)

	if p.GradeID != nil {
		if _, err := s.GradeRepo.Get(ctx, *p.GradeID); err != nil {
			return nil, err
		}
	}

	if err := s.ParticipantRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, p), nil
}

func (s *participantService) GetParticipant(ctx context.Context, id string) (*dto.ParticipantResponse, error) {
	if id == "" {
		return nil, ierr.NewError("participant id is required").
			WithHint("Participant ID is required").
			Mark(ierr.ErrValidation)
	}

	p, err := s.ParticipantRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.toResponse(ctx, p), nil
}

func (s *participantService) ListParticipants(ctx context.Context, filter *types.ParticipantFilter) (*dto.ListParticipantsResponse, error) {
	participants, err := s.ParticipantRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(ctx, participants)
}

func (s *participantService) UpdateParticipant(ctx context.Context, id string, req dto.UpdateParticipantRequest) (*dto.ParticipantResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.ParticipantRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		p.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		p.LastName = *req.LastName
	}
	if req.Email != nil {
		p.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		p.PhoneNumber = *req.PhoneNumber
	}
	if req.Revenue != nil {
		p.Revenue = *req.Revenue
	}

	if err := s.ParticipantRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	return s.toResponse(ctx, p), nil
}

func (s *participantService) DeleteParticipant(ctx context.Context, id string) error {
	if _, err := s.ParticipantRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ParticipantRepo.Delete(ctx, id)
}

func (s *participantService) ListWithWarnings(ctx context.Context) (*dto.ListParticipantsResponse, error) {
	participants, err := s.ParticipantRepo.ListWithWarnings(ctx)
	if err != nil {
		return nil, err
	}

	return s.toListResponse(ctx, participants)
}

// toResponse enriches the participant with its grade name. A missing grade is
// not an error here, the participant may simply be unassigned.
func (s *participantService) toResponse(ctx context.Context, p *participant.Participant) *dto.ParticipantResponse {
	resp := &dto.ParticipantResponse{Participant: p}
	if p.Assigned() {
		if g, err := s.GradeRepo.Get(ctx, *p.GradeID); err == nil {
			resp.GradeName = g.Name
		}
	}
	return resp
}

func (s *participantService) toListResponse(ctx context.Context, participants []*participant.Participant) (*dto.ListParticipantsResponse, error) {
	grades, err := s.GradeRepo.List(ctx, &types.GradeFilter{})
	if err != nil {
		return nil, err
	}
	gradeNames := make(map[string]string, len(grades))
	for _, g := range grades {
		gradeNames[g.ID] = g.Name
	}

	return &dto.ListParticipantsResponse{
		Participants: lo.Map(participants, func(p *participant.Participant, _ int) *dto.ParticipantResponse {
			resp := &dto.ParticipantResponse{Participant: p}
			if p.Assigned() {
				resp.GradeName = gradeNames[*p.GradeID]
			}
			return resp
		}),
		Total: len(participants),
	}, nil
}

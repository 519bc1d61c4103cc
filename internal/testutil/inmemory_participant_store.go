package testutil

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/domain/participant"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
)

// InMemoryParticipantStore implements participant.Repository
type InMemoryParticipantStore struct {
	*InMemoryStore[*participant.Participant]
}

func NewInMemoryParticipantStore() *InMemoryParticipantStore {
	return &InMemoryParticipantStore{
		InMemoryStore: NewInMemoryStore[*participant.Participant](),
	}
}

func (s *InMemoryParticipantStore) Create(ctx context.Context, p *participant.Participant) error {
	if p == nil {
		return ierr.NewError("participant cannot be nil").
			WithHint("Participant data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, p.ID, p); err != nil {
		return ierr.WithError(err).
			WithHintf("A participant with ID %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryParticipantStore) Get(ctx context.Context, id string) (*participant.Participant, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || p.Status == types.StatusDeleted {
		return nil, ierr.NewError("participant not found").
			WithHintf("Participant with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryParticipantStore) List(ctx context.Context, filter *types.ParticipantFilter) ([]*participant.Participant, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, p *participant.Participant, f interface{}) bool {
			filter, _ := f.(*types.ParticipantFilter)
			if filter == nil {
				return p.Status != types.StatusDeleted
			}
			if filter.Status != nil {
				if p.Status != *filter.Status {
					return false
				}
			} else if p.Status == types.StatusDeleted {
				return false
			}
			if filter.GradeID != nil {
				if p.GradeID == nil || *p.GradeID != *filter.GradeID {
					return false
				}
			}
			if filter.WarningStatus != nil && p.WarningStatus != *filter.WarningStatus {
				return false
			}
			return true
		},
		func(a, b *participant.Participant) bool {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return a.ID < b.ID
			}
			return a.CreatedAt.Before(b.CreatedAt)
		})
}

func (s *InMemoryParticipantStore) ListWithWarnings(ctx context.Context) ([]*participant.Participant, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, p *participant.Participant, _ interface{}) bool {
			return p.Status == types.StatusActive && p.WarningStatus.Active()
		},
		func(a, b *participant.Participant) bool {
			return a.ID < b.ID
		})
}

func (s *InMemoryParticipantStore) Update(ctx context.Context, p *participant.Participant) error {
	if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
		return ierr.WithError(err).
			WithHintf("Participant with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryParticipantStore) Delete(ctx context.Context, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Status = types.StatusDeleted
	return s.Update(ctx, p)
}

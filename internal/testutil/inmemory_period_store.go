package testutil

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/domain/period"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
)

// InMemoryPeriodStore implements period.Repository
type InMemoryPeriodStore struct {
	*InMemoryStore[*period.Period]
}

func NewInMemoryPeriodStore() *InMemoryPeriodStore {
	return &InMemoryPeriodStore{
		InMemoryStore: NewInMemoryStore[*period.Period](),
	}
}

func (s *InMemoryPeriodStore) Create(ctx context.Context, p *period.Period) error {
	if p == nil {
		return ierr.NewError("period cannot be nil").
			WithHint("Period data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, p.ID, p); err != nil {
		return ierr.WithError(err).
			WithHintf("A period with ID %s already exists", p.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryPeriodStore) Get(ctx context.Context, id string) (*period.Period, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("period not found").
			WithHintf("Period with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryPeriodStore) List(ctx context.Context, filter *types.PeriodFilter) ([]*period.Period, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, p *period.Period, f interface{}) bool {
			filter, _ := f.(*types.PeriodFilter)
			if filter != nil && filter.Status != nil {
				return p.PeriodStatus == *filter.Status
			}
			return true
		},
		func(a, b *period.Period) bool {
			return a.StartDate.After(b.StartDate)
		})
}

func (s *InMemoryPeriodStore) Update(ctx context.Context, p *period.Period) error {
	if err := s.InMemoryStore.Update(ctx, p.ID, p); err != nil {
		return ierr.WithError(err).
			WithHintf("Period with ID %s was not found", p.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryPeriodStore) GetActive(ctx context.Context) (*period.Period, error) {
	return s.getByStatus(ctx, types.PeriodStatusActive)
}

func (s *InMemoryPeriodStore) GetOpen(ctx context.Context) (*period.Period, error) {
	periods, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, p *period.Period, _ interface{}) bool {
			return p.PeriodStatus == types.PeriodStatusPending || p.PeriodStatus == types.PeriodStatusActive
		}, nil)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ierr.NewError("no open period").
			WithHint("No pending or active period exists").
			Mark(ierr.ErrNotFound)
	}
	return periods[0], nil
}

func (s *InMemoryPeriodStore) getByStatus(ctx context.Context, status types.PeriodStatus) (*period.Period, error) {
	periods, err := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, p *period.Period, _ interface{}) bool {
			return p.PeriodStatus == status
		}, nil)
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ierr.NewError("period not found").
			WithHintf("No %s period exists", status).
			Mark(ierr.ErrNotFound)
	}
	return periods[0], nil
}

package testutil

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/domain/grade"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
	"github.com/gradeflow/gradeflow/internal/types"
)

// InMemoryGradeStore implements grade.Repository
type InMemoryGradeStore struct {
	*InMemoryStore[*grade.Grade]
}

func NewInMemoryGradeStore() *InMemoryGradeStore {
	return &InMemoryGradeStore{
		InMemoryStore: NewInMemoryStore[*grade.Grade](),
	}
}

func (s *InMemoryGradeStore) Create(ctx context.Context, g *grade.Grade) error {
	if g == nil {
		return ierr.NewError("grade cannot be nil").
			WithHint("Grade data is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.InMemoryStore.Create(ctx, g.ID, g); err != nil {
		return ierr.WithError(err).
			WithHintf("A grade with ID %s already exists", g.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryGradeStore) Get(ctx context.Context, id string) (*grade.Grade, error) {
	g, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || g.Status == types.StatusDeleted {
		return nil, ierr.NewError("grade not found").
			WithHintf("Grade with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return g, nil
}

func (s *InMemoryGradeStore) List(ctx context.Context, filter *types.GradeFilter) ([]*grade.Grade, error) {
	return s.InMemoryStore.List(ctx, filter,
		func(ctx context.Context, g *grade.Grade, f interface{}) bool {
			filter, _ := f.(*types.GradeFilter)
			if filter != nil && filter.Status != nil {
				return g.Status == *filter.Status
			}
			return g.Status != types.StatusDeleted
		},
		func(a, b *grade.Grade) bool {
			return a.Order < b.Order
		})
}

func (s *InMemoryGradeStore) Update(ctx context.Context, g *grade.Grade) error {
	if err := s.InMemoryStore.Update(ctx, g.ID, g); err != nil {
		return ierr.WithError(err).
			WithHintf("Grade with ID %s was not found", g.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryGradeStore) Delete(ctx context.Context, id string) error {
	g, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	g.Status = types.StatusDeleted
	return s.Update(ctx, g)
}

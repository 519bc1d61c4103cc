package testutil

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/domain/transition"
	ierr "github.com/gradeflow/gradeflow/internal/errors"
)

// InMemoryTransitionStore implements transition.Repository
type InMemoryTransitionStore struct {
	*InMemoryStore[*transition.Transition]
}

func NewInMemoryTransitionStore() *InMemoryTransitionStore {
	return &InMemoryTransitionStore{
		InMemoryStore: NewInMemoryStore[*transition.Transition](),
	}
}

func (s *InMemoryTransitionStore) Append(ctx context.Context, t *transition.Transition) error {
	if t == nil {
		return ierr.NewError("transition cannot be nil").
			WithHint("Transition data is required").
			Mark(ierr.ErrValidation)
	}

	// the idempotency key is unique, mirroring the database constraint
	existing, _ := s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, item *transition.Transition, _ interface{}) bool {
			return item.IdempotencyKey == t.IdempotencyKey
		}, nil)
	if len(existing) > 0 {
		return ierr.NewError("transition already recorded").
			WithHintf("A transition with idempotency key %s already exists", t.IdempotencyKey).
			Mark(ierr.ErrAlreadyExists)
	}

	if err := s.InMemoryStore.Create(ctx, t.ID, t); err != nil {
		return ierr.WithError(err).
			WithHintf("A transition with ID %s already exists", t.ID).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTransitionStore) ListByParticipant(ctx context.Context, participantID string) ([]*transition.Transition, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, t *transition.Transition, _ interface{}) bool {
			return t.ParticipantID == participantID
		},
		newestFirst)
}

func (s *InMemoryTransitionStore) ListByPeriod(ctx context.Context, periodID string) ([]*transition.Transition, error) {
	return s.InMemoryStore.List(ctx, nil,
		func(ctx context.Context, t *transition.Transition, _ interface{}) bool {
			return t.PeriodID == periodID
		},
		newestFirst)
}

func newestFirst(a, b *transition.Transition) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}

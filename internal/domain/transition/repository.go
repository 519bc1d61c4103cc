package transition

import (
	"context"
)

// Repository defines the interface for transition persistence.
// The log is append-only: there are no update or delete operations.
type Repository interface {
	Append(ctx context.Context, transition *Transition) error
	ListByParticipant(ctx context.Context, participantID string) ([]*Transition, error)
	ListByPeriod(ctx context.Context, periodID string) ([]*Transition, error)
}

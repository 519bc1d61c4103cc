package participant

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/types"
)

// Repository defines the interface for participant persistence
type Repository interface {
	Create(ctx context.Context, participant *Participant) error
	Get(ctx context.Context, id string) (*Participant, error)
	List(ctx context.Context, filter *types.ParticipantFilter) ([]*Participant, error)
	ListWithWarnings(ctx context.Context) ([]*Participant, error)
	Update(ctx context.Context, participant *Participant) error
	Delete(ctx context.Context, id string) error
}

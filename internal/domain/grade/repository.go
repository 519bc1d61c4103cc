package grade

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/types"
)

// Repository defines the interface for grade persistence
type Repository interface {
	Create(ctx context.Context, grade *Grade) error
	Get(ctx context.Context, id string) (*Grade, error)
	List(ctx context.Context, filter *types.GradeFilter) ([]*Grade, error)
	Update(ctx context.Context, grade *Grade) error
	Delete(ctx context.Context, id string) error
}

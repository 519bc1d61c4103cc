package period

import (
	"context"

	"github.com/gradeflow/gradeflow/internal/types"
)

// Repository defines the interface for period persistence
type Repository interface {
	Create(ctx context.Context, period *Period) error
	Get(ctx context.Context, id string) (*Period, error)
	List(ctx context.Context, filter *types.PeriodFilter) ([]*Period, error)
	Update(ctx context.Context, period *Period) error

	// GetActive returns the single ACTIVE period, or a not found error
	GetActive(ctx context.Context) (*Period, error)

	// GetOpen returns a PENDING or ACTIVE period if one exists, or a not
	// found error. At most one period may be open at a time.
	GetOpen(ctx context.Context) (*Period, error)
}

package variables

import (
	"context"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
)

// System defines the public contract for variable domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Variable], error)

	Find(ctx context.Context, id uuid.UUID) (*Variable, error)
	FindByName(ctx context.Context, name string) (*Variable, error)
	Create(ctx context.Context, cmd CreateCommand) (*Variable, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Variable, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

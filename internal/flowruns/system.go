package flowruns

import (
	"context"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
)

// System defines the public contract for flow run domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Create(ctx context.Context, cmd CreateCommand) (*Run, error)
	SetState(ctx context.Context, id uuid.UUID, cmd SetStateCommand) (*Run, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

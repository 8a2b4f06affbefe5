package flows

import (
	"context"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
)

// System defines the public contract for flow domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Flow], error)

	Find(ctx context.Context, id uuid.UUID) (*Flow, error)
	FindByName(ctx context.Context, name string) (*Flow, error)
	Create(ctx context.Context, cmd CreateCommand) (*Flow, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Flow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

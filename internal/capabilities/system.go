package capabilities

import (
	"context"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
)

// System defines the public contract for capability domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[CapabilitySet], error)

	Find(ctx context.Context, id uuid.UUID) (*CapabilitySet, error)
	FindBySubject(ctx context.Context, subject string) (*CapabilitySet, error)
	Create(ctx context.Context, cmd CreateCommand) (*CapabilitySet, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*CapabilitySet, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

package artifacts

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
)

// System defines the public contract for artifact domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Artifact], error)

	Find(ctx context.Context, id uuid.UUID) (*Artifact, error)
	Upload(ctx context.Context, cmd UploadCommand) (*Artifact, error)
	UploadBatch(ctx context.Context, cmds []UploadCommand) ([]Artifact, error)
	Download(ctx context.Context, id uuid.UUID) (*Artifact, io.ReadCloser, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

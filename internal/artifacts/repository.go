package artifacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/derkuci/prefect/pkg/pagination"
	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
	"github.com/derkuci/prefect/pkg/storage"
)

const (
	defaultContentType = "application/octet-stream"
	batchConcurrency   = 4
)

type repo struct {
	db         *sql.DB
	store      storage.System
	logger     *slog.Logger
	pagination pagination.Config
	maxUpload  int64
}

// New creates an artifact repository implementing the System interface.
// Payloads go to blob storage; metadata goes to the database.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUpload int64,
) System {
	return &repo{
		db:         db,
		store:      store,
		logger:     logger.With("system", "artifacts"),
		pagination: pagination,
		maxUpload:  maxUpload,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination, r.maxUpload)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Artifact], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Key", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Upload stores the payload in blob storage and records the metadata row.
// A failed metadata insert compensates by deleting the uploaded blob.
func (r *repo) Upload(ctx context.Context, cmd UploadCommand) (*Artifact, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}
	if r.maxUpload > 0 && cmd.SizeBytes > r.maxUpload {
		return nil, ErrTooLarge
	}

	contentType := cmd.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	id := uuid.New()
	key := blobKey(id)

	if err := r.store.Upload(ctx, key, cmd.Payload, contentType); err != nil {
		return nil, fmt.Errorf("upload artifact payload: %w", err)
	}

	q := `
		INSERT INTO artifacts(id, key, description, content_type, size_bytes, flow_run_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, key, description, content_type, size_bytes, flow_run_id, created_at, updated_at`

	insertArgs := []any{id, cmd.Key, cmd.Description, contentType, cmd.SizeBytes, cmd.FlowRunID}

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Artifact, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanArtifact)
	})
	if err != nil {
		if delErr := r.store.Delete(ctx, key); delErr != nil {
			r.logger.Warn("orphaned artifact blob", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("artifact uploaded", "id", a.ID, "key", a.Key, "size", a.SizeBytes)
	return &a, nil
}

// UploadBatch uploads several artifacts concurrently. The batch is not
// atomic: artifacts stored before the first failure remain recorded.
func (r *repo) UploadBatch(ctx context.Context, cmds []UploadCommand) ([]Artifact, error) {
	results := make([]Artifact, len(cmds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, cmd := range cmds {
		g.Go(func() error {
			a, err := r.Upload(ctx, cmd)
			if err != nil {
				return fmt.Errorf("upload %q: %w", cmd.Key, err)
			}
			results[i] = *a
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID) (*Artifact, io.ReadCloser, error) {
	a, err := r.Find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	body, err := r.store.Download(ctx, blobKey(a.ID))
	if err != nil {
		return nil, nil, err
	}

	return a, body, nil
}

// Delete removes the metadata row, then the payload blob. A missing blob
// is tolerated so a half-failed upload can still be cleaned up.
func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM artifacts WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if err := r.store.Delete(ctx, blobKey(id)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("artifact blob cleanup failed", "id", id, "error", err)
	}

	r.logger.Info("artifact deleted", "id", id)
	return nil
}

func blobKey(id uuid.UUID) string {
	return "artifacts/" + id.String()
}

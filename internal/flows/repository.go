package flows

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/pagination"
	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a flow repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "flows"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Flow], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Description")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count flows: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	found, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanFlow)
	if err != nil {
		return nil, fmt.Errorf("query flows: %w", err)
	}

	result := pagination.NewPageResult(found, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Flow, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFlow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*Flow, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("Name", name).
		BuildSingleOrNull()

	f, err := repository.QueryOne(ctx, r.db, q, args, scanFlow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Flow, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	q := `
		INSERT INTO flows(id, name, description, tags, retries, retry_delay_seconds)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6)
		RETURNING id, name, description, tags, retries, retry_delay_seconds, created_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		cmd.Name,
		cmd.Description,
		tags,
		cmd.Retries,
		cmd.RetryDelaySeconds,
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Flow, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanFlow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("flow created", "id", f.ID, "name", f.Name)
	return &f, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Flow, error) {
	if err := cmd.validate(); err != nil {
		return nil, err
	}

	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	q := `
		UPDATE flows
		SET description = $2, tags = $3::jsonb, retries = $4,
			retry_delay_seconds = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, description, tags, retries, retry_delay_seconds, created_at, updated_at`

	updateArgs := []any{id, cmd.Description, tags, cmd.Retries, cmd.RetryDelaySeconds}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Flow, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanFlow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("flow updated", "id", f.ID, "name", f.Name)
	return &f, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM flows WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("flow deleted", "id", id)
	return nil
}

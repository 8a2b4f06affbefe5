package variables

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

// New creates a variable repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "variables"),
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
) (*pagination.PageResult[Variable], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Value")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count variables: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	vars, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanVariable)
	if err != nil {
		return nil, fmt.Errorf("query variables: %w", err)
	}

	result := pagination.NewPageResult(vars, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Variable, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVariable)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*Variable, error) {
	if name == "" {
		return nil, ErrInvalidName
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("Name", name).
		BuildSingleOrNull()

	v, err := repository.QueryOne(ctx, r.db, q, args, scanVariable)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &v, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Variable, error) {
	if cmd.Name == "" {
		return nil, ErrInvalidName
	}

	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	q := `
		INSERT INTO variables(id, name, value, tags)
		VALUES ($1, $2, $3, $4::jsonb)
		RETURNING id, name, value, tags, created_at, updated_at`

	insertArgs := []any{uuid.New(), cmd.Name, cmd.Value, tags}

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Variable, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanVariable)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variable created", "id", v.ID, "name", v.Name)
	return &v, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Variable, error) {
	tags, err := encodeTags(cmd.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}

	q := `
		UPDATE variables
		SET value = $2, tags = $3::jsonb, updated_at = now()
		WHERE id = $1
		RETURNING id, name, value, tags, created_at, updated_at`

	v, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Variable, error) {
		return repository.QueryOne(ctx, tx, q, []any{id, cmd.Value, tags}, scanVariable)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variable updated", "id", v.ID, "name", v.Name)
	return &v, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM variables WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("variable deleted", "id", id)
	return nil
}

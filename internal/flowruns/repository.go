package flowruns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/derkuci/prefect/pkg/pagination"
	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

const pgForeignKeyViolation = "23503"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a flow run repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "flowruns"),
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
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count flow runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	runs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query flow runs: %w", err)
	}

	result := pagination.NewPageResult(runs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}
	return &run, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Run, error) {
	if err := cmd.normalize(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO flow_runs(id, flow_id, name, state, parameters, started_at, ended_at)
		VALUES ($1, $2, $3, $4, $5::jsonb,
			CASE WHEN $4 = 'running' THEN now() END,
			CASE WHEN $4 IN ('completed', 'failed', 'cancelled', 'crashed') THEN now() END)
		RETURNING id, flow_id, name, state, state_message, parameters, started_at, ended_at, created_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		cmd.FlowID,
		cmd.Name,
		string(cmd.State),
		[]byte(cmd.Parameters),
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanRun)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrFlowNotFound
		}
		return nil, repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("flow run recorded",
		"id", run.ID,
		"flow_id", run.FlowID,
		"name", run.Name,
		"state", run.State,
	)
	return &run, nil
}

// SetState transitions a run to a new state. Runs in a terminal state are
// frozen and reject every transition. Entering running stamps started_at
// once; entering a terminal state stamps ended_at.
func (r *repo) SetState(ctx context.Context, id uuid.UUID, cmd SetStateCommand) (*Run, error) {
	if !cmd.State.IsValid() {
		return nil, ErrInvalidState
	}

	run, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		var current State
		err := tx.QueryRowContext(ctx,
			"SELECT state FROM flow_runs WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&current)
		if err != nil {
			return Run{}, err
		}

		if current.IsTerminal() {
			return Run{}, ErrTerminal
		}

		q := `
			UPDATE flow_runs
			SET state = $2,
				state_message = $3,
				started_at = CASE WHEN $2 = 'running' THEN COALESCE(started_at, now()) ELSE started_at END,
				ended_at = CASE WHEN $2 IN ('completed', 'failed', 'cancelled', 'crashed') THEN now() ELSE ended_at END,
				updated_at = now()
			WHERE id = $1
			RETURNING id, flow_id, name, state, state_message, parameters, started_at, ended_at, created_at, updated_at`

		return repository.QueryOne(ctx, tx, q, []any{id, string(cmd.State), cmd.Message}, scanRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("flow run state changed", "id", run.ID, "state", run.State)
	return &run, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM flow_runs WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, err)
	}

	r.logger.Info("flow run deleted", "id", id)
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

package capabilities

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/derkuci/prefect/pkg/cache"
	"github.com/derkuci/prefect/pkg/pagination"
	"github.com/derkuci/prefect/pkg/query"
	"github.com/derkuci/prefect/pkg/repository"
)

type repo struct {
	db         *sql.DB
	cache      cache.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a capability repository implementing the System interface.
// Resolved subject flags are cached; writes invalidate the subject's entry.
func New(
	db *sql.DB,
	cacheSys cache.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		cache:      cacheSys,
		logger:     logger.With("system", "capabilities"),
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
) (*pagination.PageResult[CapabilitySet], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Subject")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count capability sets: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	sets, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCapabilitySet)
	if err != nil {
		return nil, fmt.Errorf("query capability sets: %w", err)
	}

	result := pagination.NewPageResult(sets, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*CapabilitySet, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	cs, err := repository.QueryOne(ctx, r.db, q, args, scanCapabilitySet)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &cs, nil
}

func (r *repo) FindBySubject(ctx context.Context, subject string) (*CapabilitySet, error) {
	if subject == "" {
		return nil, ErrInvalidSubject
	}

	if cached, err := r.cache.Get(ctx, cacheKey(subject)); err == nil {
		var cs CapabilitySet
		if err := json.Unmarshal([]byte(cached), &cs); err == nil {
			return &cs, nil
		}
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("Subject", subject).
		BuildSingleOrNull()

	cs, err := repository.QueryOne(ctx, r.db, q, args, scanCapabilitySet)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.cacheSet(ctx, &cs)
	return &cs, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*CapabilitySet, error) {
	if cmd.Subject == "" {
		return nil, ErrInvalidSubject
	}

	q := `
		INSERT INTO capability_sets(id, subject, work_pools, read_work_pool, artifacts)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, subject, work_pools, read_work_pool, artifacts, created_at, updated_at`

	insertArgs := []any{
		uuid.New(),
		cmd.Subject,
		cmd.WorkPools,
		cmd.ReadWorkPool,
		cmd.Artifacts,
	}

	cs, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CapabilitySet, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanCapabilitySet)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.invalidate(ctx, cs.Subject)
	r.logger.Info("capability set created", "id", cs.ID, "subject", cs.Subject)
	return &cs, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*CapabilitySet, error) {
	q := `
		UPDATE capability_sets
		SET work_pools = $2, read_work_pool = $3, artifacts = $4, updated_at = now()
		WHERE id = $1
		RETURNING id, subject, work_pools, read_work_pool, artifacts, created_at, updated_at`

	updateArgs := []any{id, cmd.WorkPools, cmd.ReadWorkPool, cmd.Artifacts}

	cs, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (CapabilitySet, error) {
		return repository.QueryOne(ctx, tx, q, updateArgs, scanCapabilitySet)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.invalidate(ctx, cs.Subject)
	r.logger.Info("capability set updated", "id", cs.ID, "subject", cs.Subject)
	return &cs, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	cs, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM capability_sets WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.invalidate(ctx, cs.Subject)
	r.logger.Info("capability set deleted", "id", id, "subject", cs.Subject)
	return nil
}

func (r *repo) cacheSet(ctx context.Context, cs *CapabilitySet) {
	data, err := json.Marshal(cs)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, cacheKey(cs.Subject), string(data)); err != nil {
		r.logger.Warn("capability cache set failed", "subject", cs.Subject, "error", err)
	}
}

func (r *repo) invalidate(ctx context.Context, subject string) {
	if err := r.cache.Delete(ctx, cacheKey(subject)); err != nil {
		r.logger.Warn("capability cache invalidation failed", "subject", subject, "error", err)
	}
}

func cacheKey(subject string) string {
	return "capabilities:" + subject
}

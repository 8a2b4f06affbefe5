package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/derkuci/prefect/pkg/repository"
)

func TestMapError(t *testing.T) {
	notFound := errors.New("not found")
	duplicate := errors.New("duplicate")

	t.Run("nil passes through", func(t *testing.T) {
		if err := repository.MapError(nil, notFound, duplicate); err != nil {
			t.Errorf("err = %v, want nil", err)
		}
	})

	t.Run("no rows maps to not found", func(t *testing.T) {
		err := repository.MapError(fmt.Errorf("query: %w", sql.ErrNoRows), notFound, duplicate)
		if !errors.Is(err, notFound) {
			t.Errorf("err = %v, want not found", err)
		}
	})

	t.Run("unique violation maps to duplicate", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505"}
		err := repository.MapError(fmt.Errorf("insert: %w", pgErr), notFound, duplicate)
		if !errors.Is(err, duplicate) {
			t.Errorf("err = %v, want duplicate", err)
		}
	})

	t.Run("other pg errors pass through", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503"}
		wrapped := fmt.Errorf("insert: %w", pgErr)
		err := repository.MapError(wrapped, notFound, duplicate)
		if !errors.Is(err, pgErr) {
			t.Errorf("err = %v, want original", err)
		}
	})

	t.Run("unrelated errors pass through", func(t *testing.T) {
		original := errors.New("connection refused")
		if err := repository.MapError(original, notFound, duplicate); err != original {
			t.Errorf("err = %v, want original", err)
		}
	})
}

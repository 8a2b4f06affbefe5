// Command migrate applies database migrations embedded in the binary.
//
// Usage:
//
//	migrate [-config config.toml] [up|down|version]
package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/derkuci/prefect/internal/config"
	"github.com/derkuci/prefect/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

func main() {
	configPath := flag.String("config", "config.toml", "path to the base config file")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("load config: %v", err)
	}

	m, err := newMigrator(&cfg.Database)
	if err != nil {
		fail("initialize migrator: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("version: %d dirty: %v\n", version, dirty)
		}
	default:
		fail("unknown command: %s", command)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fail("migrate %s: %v", command, err)
	}

	fmt.Println("done")
}

func newMigrator(cfg *database.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}

	dsn := fmt.Sprintf(
		"pgx5://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	return migrate.NewWithSourceInstance("iofs", source, dsn)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

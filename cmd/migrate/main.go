package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/evgeniy-krivenko/notes-migrations/internal/config"
	"github.com/evgeniy-krivenko/notes-migrations/internal/migrations"
	"github.com/evgeniy-krivenko/notes-migrations/internal/migrator"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/logger/slogx"
)

const usage = `Usage: migrate <command>

Commands:
  up         apply all pending migrations
  up-by-one  apply the next pending migration
  down       roll back the latest migration
  status     print state of every migration
  version    print the current database version
  verify     check that every object owned by applied migrations exists
`

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("run app: %v", err)
	}
}

func run(command string) error {
	if command == "" {
		flag.Usage()
		return errors.New("command is required")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("parse cfg: %v", err)
	}

	if err := slogx.InitGlobal(os.Stdout, cfg.App.LogLevel, cfg.App.Pretty); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	ctx, cancel = context.WithTimeout(ctx, cfg.Migrations.Timeout)
	defer cancel()

	pool, err := database.NewPGX(ctx, database.NewOptions(
		cfg.Database.Addr(),
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		database.WithSslMode(cfg.Database.SSLMode),
		database.WithRetryAttempts(cfg.Database.RetryAttempts),
		database.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("init pgx pool: %v", err)
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	m, err := migrator.New(migrator.NewOptions(
		db,
		migrations.All(),
		migrator.WithObjects(migrations.NotesSchema()),
		migrator.WithTable(cfg.Migrations.Table),
		migrator.WithLock(cfg.Migrations.Lock),
		migrator.WithLogger(slogx.Default()),
	))
	if err != nil {
		return fmt.Errorf("init migrator: %v", err)
	}
	defer m.Close()

	return dispatch(ctx, m, command)
}

func dispatch(ctx context.Context, m *migrator.Migrator, command string) error {
	switch command {
	case "up":
		_, err := m.Up(ctx)
		return err

	case "up-by-one":
		_, err := m.UpByOne(ctx)
		return err

	case "down":
		_, err := m.Down(ctx)
		return err

	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}

		for _, s := range statuses {
			attrs := []slog.Attr{slogx.Version(s.Source.Version), slog.String("state", string(s.State))}
			if !s.AppliedAt.IsZero() {
				attrs = append(attrs, slog.Time("applied_at", s.AppliedAt))
			}
			slogx.Info(ctx, "migration status", attrs...)
		}

		return nil

	case "version":
		v, err := m.Version(ctx)
		if err != nil {
			return err
		}

		slogx.Info(ctx, "database version", slogx.Version(v))
		return nil

	case "verify":
		report, err := m.Verify(ctx)
		for _, o := range report.Objects {
			slogx.Info(ctx, "schema object", slog.String("object", o.Object.String()), slog.Bool("present", o.Present))
		}

		return err

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Fprint(flag.CommandLine.Output(), usage)

	desc, err := config.Description()
	if err != nil {
		return
	}

	fmt.Fprintln(flag.CommandLine.Output())
	fmt.Fprintln(flag.CommandLine.Output(), desc)
}

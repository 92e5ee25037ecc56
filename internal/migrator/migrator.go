// Package migrator applies and rolls back registered migrations with goose,
// keeping the applied-version ledger in Postgres.
package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
	"github.com/pressly/goose/v3/lock"

	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
	"github.com/evgeniy-krivenko/notes-migrations/pkg/logger/slogx"
)

var ErrSchemaIncomplete = errors.New("schema incomplete")

type logger interface {
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
}

//go:generate go run github.com/kazhuravlev/options-gen/cmd/options-gen@v0.55.3 -out-filename=migrator_options.gen.go -from-struct=Options
type Options struct {
	db         *sql.DB            `option:"mandatory" validate:"required"`
	migrations []*goose.Migration `option:"mandatory" validate:"required,min=1"`

	objects []database.Object

	table string `default:"goose_db_version" validate:"required"`
	lock  bool   `default:"true"`

	logger logger
}

type Migrator struct {
	opts     Options
	provider *goose.Provider
}

func New(opts Options) (*Migrator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate migrator options: %v", err)
	}

	if opts.logger == nil {
		opts.logger = slogx.Default()
	}

	store, err := goosedb.NewStore(goosedb.DialectPostgres, opts.table)
	if err != nil {
		return nil, fmt.Errorf("new goose store: %v", err)
	}

	providerOpts := []goose.ProviderOption{
		goose.WithStore(store),
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(opts.migrations...),
	}

	if opts.lock {
		locker, err := lock.NewPostgresSessionLocker()
		if err != nil {
			return nil, fmt.Errorf("new session locker: %v", err)
		}

		providerOpts = append(providerOpts, goose.WithSessionLocker(locker))
	}

	// Dialect stays empty because the store already carries it.
	provider, err := goose.NewProvider("", opts.db, nil, providerOpts...)
	if err != nil {
		return nil, fmt.Errorf("new goose provider: %v", err)
	}

	return &Migrator{opts: opts, provider: provider}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) ([]*goose.MigrationResult, error) {
	results, err := m.provider.Up(ctx)
	m.logResults(ctx, results)
	if err != nil {
		return results, fmt.Errorf("migrate up: %w", err)
	}

	if len(results) == 0 {
		m.opts.logger.Info(ctx, "no pending migrations")
	}

	return results, nil
}

// UpByOne applies the next pending migration. It returns nil when nothing is pending.
func (m *Migrator) UpByOne(ctx context.Context) (*goose.MigrationResult, error) {
	result, err := m.provider.UpByOne(ctx)
	if errors.Is(err, goose.ErrNoNextVersion) {
		m.opts.logger.Info(ctx, "no pending migrations")
		return nil, nil
	}
	if result != nil {
		m.logResults(ctx, []*goose.MigrationResult{result})
	}
	if err != nil {
		return result, fmt.Errorf("migrate up by one: %w", err)
	}

	return result, nil
}

// Down rolls back the latest applied migration. It returns nil when nothing is applied.
func (m *Migrator) Down(ctx context.Context) (*goose.MigrationResult, error) {
	result, err := m.provider.Down(ctx)
	if errors.Is(err, goose.ErrNoNextVersion) {
		m.opts.logger.Info(ctx, "no applied migrations")
		return nil, nil
	}
	if result != nil {
		m.logResults(ctx, []*goose.MigrationResult{result})
	}
	if err != nil {
		return result, fmt.Errorf("migrate down: %w", err)
	}

	return result, nil
}

func (m *Migrator) Status(ctx context.Context) ([]*goose.MigrationStatus, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("migrations status: %w", err)
	}

	return statuses, nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}

	return v, nil
}

func (m *Migrator) Close() error {
	return m.provider.Close()
}

func (m *Migrator) logResults(ctx context.Context, results []*goose.MigrationResult) {
	for _, r := range results {
		attrs := []slog.Attr{
			slogx.Version(r.Source.Version),
			slog.String("direction", r.Direction),
			slogx.Duration(r.Duration),
		}

		if r.Error != nil {
			m.opts.logger.Warn(ctx, "migration failed", append(attrs, slogx.Err(r.Error))...)
			continue
		}

		m.opts.logger.Info(ctx, "migration applied", attrs...)
	}
}

// Package pgtest starts a disposable PostgreSQL container for integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/evgeniy-krivenko/notes-migrations/pkg/database"
)

const (
	user     = "notes"
	password = "secret"
	dbName   = "notes"

	maxWait = 120 * time.Second
)

type Container struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource

	Pool *pgxpool.Pool
	DB   *sql.DB
}

// Start runs postgres:16-alpine and waits until it accepts connections.
func Start(ctx context.Context) (*Container, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("connect to docker: %v", err)
	}

	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("ping docker: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=" + user,
			"POSTGRES_PASSWORD=" + password,
			"POSTGRES_DB=" + dbName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("start postgres: %v", err)
	}

	if err := resource.Expire(uint(maxWait.Seconds()) * 5); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("set container expiry: %v", err)
	}

	pool.MaxWait = maxWait

	c := &Container{pool: pool, resource: resource}

	if err := pool.Retry(func() error {
		p, err := database.NewPGX(ctx, database.NewOptions(
			resource.GetHostPort("5432/tcp"),
			user,
			password,
			dbName,
			database.WithRetry(false),
		))
		if err != nil {
			return err
		}

		c.Pool = p
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("connect to postgres: %v", err)
	}

	c.DB = stdlib.OpenDBFromPool(c.Pool)

	return c, nil
}

func (c *Container) Close() error {
	c.DB.Close()
	c.Pool.Close()

	if err := c.pool.Purge(c.resource); err != nil {
		return fmt.Errorf("purge postgres: %v", err)
	}

	return nil
}

// Reset recreates the public schema so each test starts from an empty database.
func (c *Container) Reset(t testing.TB) {
	t.Helper()

	for _, q := range []string{`DROP SCHEMA public CASCADE`, `CREATE SCHEMA public`} {
		if _, err := c.DB.ExecContext(context.Background(), q); err != nil {
			t.Fatalf("reset schema: %v", err)
		}
	}

	c.Pool.Reset()
}

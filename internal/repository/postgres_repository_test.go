package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgres(t *testing.T) *PostgresRepository {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "./migrations/postgres",
	}

	repo, err := NewPostgresRepository(creds)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations(creds))

	t.Cleanup(func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return repo
}

func TestPostgres_Repository(t *testing.T) {
	repo := setupPostgres(t)

	t.Run("next order number is sequential", func(t *testing.T) { testNextOrderNumberSequential(t, repo) })
	t.Run("create and get", func(t *testing.T) { testCreateAndGet(t, repo) })
	t.Run("duplicate", func(t *testing.T) { testCreateDuplicate(t, repo) })
	t.Run("not found", func(t *testing.T) { testGetNotFound(t, repo) })
}

func TestPostgres_NextOrderNumber_Concurrent(t *testing.T) {
	testNextOrderNumberConcurrent(t, setupPostgres(t))
}

func TestPostgres_ListOrders(t *testing.T) {
	testListOrders(t, setupPostgres(t))
}

// Package dbtest starts a throwaway Postgres for integration tests.
package dbtest

import (
	"ashtray_server/database"
	"ashtray_server/structs"
	"context"
	"os"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres launches postgres:16-alpine, migrates the schema and returns a
// connected handle. It skips the test under -short, when SKIP_INTEGRATION is set or when no
// healthy container provider is reachable.
func StartPostgres(t *testing.T) *database.DB {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_INTEGRATION") != "" {
		t.Skip("skipping postgres integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &structs.DatabaseConfig{
		Driver:             "pgdriver",
		Host:               host,
		Port:               port.Int(),
		User:               "testuser",
		Password:           "testpass",
		Name:               "testdb",
		SSLMode:            "disable",
		MaxConns:           10,
		MinConns:           2,
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		SlowQueryThreshold: time.Second,
	}
	if driver := os.Getenv("TEST_DB_DRIVER"); driver != "" {
		cfg.Driver = driver
	}

	db, err := database.Open(cfg, gecho.NewDefaultLogger())
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

// Truncate empties every table between tests.
func Truncate(t testing.TB, db *database.DB) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), `TRUNCATE
		order_items, orders, cart_items, carts, addresses, customers, products, processed_events, admin_users
		RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

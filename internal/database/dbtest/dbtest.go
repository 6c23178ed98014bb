// Package dbtest provides a migrated PostgreSQL database for integration
// tests. It connects to the server described by the POSTGRES_* variables
// and falls back to a throwaway testcontainers instance. Tests are skipped
// when neither is available.
package dbtest

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"agencysite/internal/database"
)

// lockKey serialises integration tests across packages sharing one server.
const lockKey = 727001

// Tables holds every data table, children first, for Reset.
var Tables = []string{
	"assets", "enquiries", "visitors",
	"banners", "sliders", "services", "testimonials",
	"portfolios", "team_members", "faqs", "blogs",
	"users",
}

var (
	containerOnce sync.Once
	containerDSN  string
	containerErr  error
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN returns the connection string built from POSTGRES_* variables, with
// defaults matching docker-compose.yml.
func DSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "agencysite")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "agencysite")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func ping(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// startContainer launches one Postgres container per test binary. The
// testcontainers reaper removes it when the binary exits.
func startContainer() (string, error) {
	containerOnce.Do(func() {
		ctx := context.Background()
		ctr, err := postgres.Run(ctx,
			"postgres:17-alpine",
			postgres.WithDatabase("agencysite"),
			postgres.WithUsername("agencysite"),
			postgres.WithPassword("agencysite"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			containerErr = err
			return
		}
		containerDSN, containerErr = ctr.ConnectionString(ctx, "sslmode=disable")
	})
	return containerDSN, containerErr
}

// Open returns a migrated database with every data table emptied. It holds
// a session advisory lock until the test ends so integration tests in
// different packages never see each other's rows.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	db, err := ping(DSN())
	if err != nil {
		if os.Getenv("DBTEST_NO_CONTAINER") != "" {
			t.Skipf("skipping integration test: DB not reachable: %v", err)
		}
		testcontainers.SkipIfProviderIsNotHealthy(t)
		dsn, cerr := startContainer()
		if cerr != nil {
			t.Skipf("skipping integration test: no DB and no container: %v", cerr)
		}
		if db, err = ping(dsn); err != nil {
			t.Skipf("skipping integration test: container DB not reachable: %v", err)
		}
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		t.Fatalf("reserve lock connection: %v", err)
	}
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		t.Fatalf("acquire test lock: %v", err)
	}
	t.Cleanup(func() {
		conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockKey)
		conn.Close()
	})

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	Reset(t, db)
	return db
}

// Reset empties every data table and restores the default settings row.
func Reset(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	for _, table := range Tables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("reset %s: %v", table, err)
		}
	}
	_, err := db.ExecContext(ctx, `
		UPDATE settings SET site_name = 'Agency Site', tagline = NULL, logo_path = NULL,
			favicon_path = NULL, og_image_path = NULL, contact_email = NULL, contact_phone = NULL,
			address = NULL, facebook_url = NULL, twitter_url = NULL, instagram_url = NULL,
			linkedin_url = NULL, youtube_url = NULL, meta_title = NULL, meta_description = NULL,
			meta_keywords = NULL, maintenance_mode = FALSE, email_notifications = TRUE
		WHERE id = 1`)
	if err != nil {
		t.Fatalf("reset settings: %v", err)
	}
}

// store_test.go provides the shared database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"testing"

	"agencysite/internal/database/dbtest"
)

// testDB returns an empty, migrated database reserved for this test.
func testDB(t *testing.T) *sql.DB {
	t.Helper()
	return dbtest.Open(t)
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()

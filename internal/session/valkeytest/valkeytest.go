// Package valkeytest provides a Valkey client for integration tests. It
// connects to the server described by the VALKEY_* variables and falls
// back to a throwaway testcontainers instance. Tests are skipped when
// neither is available.
package valkeytest

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	containerOnce sync.Once
	containerAddr string
	containerErr  error
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// startContainer launches one Valkey container per test binary.
func startContainer() (string, error) {
	containerOnce.Do(func() {
		ctx := context.Background()
		ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "valkey/valkey:8-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
			},
			Started: true,
		})
		if err != nil {
			containerErr = err
			return
		}
		containerAddr, containerErr = ctr.PortEndpoint(ctx, "6379/tcp", "")
	})
	return containerAddr, containerErr
}

// Client returns a client on logical database db, which is flushed when
// the test ends. Give each package its own db so parallel package runs
// do not clear each other's keys.
func Client(t *testing.T, db int) *redis.Client {
	t.Helper()
	ctx := context.Background()

	addr := envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		testcontainers.SkipIfProviderIsNotHealthy(t)
		caddr, cerr := startContainer()
		if cerr != nil {
			t.Skipf("skipping integration test: Valkey not reachable: %v", err)
		}
		client = redis.NewClient(&redis.Options{Addr: caddr, DB: db})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			t.Skipf("skipping integration test: Valkey container not reachable: %v", err)
		}
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

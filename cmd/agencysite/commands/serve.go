package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"agencysite/internal/database"
	"agencysite/internal/middleware"
	"agencysite/internal/router"
	"agencysite/internal/session"
	"agencysite/internal/settings"
	"agencysite/internal/storage"
	"agencysite/internal/store"
)

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Run the HTTP server. Pending migrations are applied first; in development
the database is also seeded with a default admin account.

The server drains in-flight requests for up to 30 seconds on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	cfg, db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"slug_policy", cfg.SlugPolicy,
	)

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
	}

	valkeyClient, err := session.Connect(ctx, cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		return err
	}
	defer valkeyClient.Close()

	// In non-development environments session cookies are HTTPS-only.
	sessions := session.NewStore(valkeyClient, !cfg.IsDev())

	storageClient, err := storage.New(storage.Options{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return err
	}

	deps := router.Deps{
		DB:       db,
		Sessions: sessions,
		Stores:   router.NewStores(db, store.WithSlugPolicy(cfg.SlugPolicy)),
		IPs:      middleware.IPResolver{TrustProxy: cfg.TrustProxy},
	}

	// Stored asset paths resolve against ASSET_BASE_URL, then the bucket's
	// public URL, then the site itself.
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", storageClient.Bucket())
		deps.Objects = storageClient
		deps.Resolver = settings.NewResolver(cfg.AssetBaseURL, storageClient.BaseURL(), cfg.AppURL)
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
		deps.Resolver = settings.NewResolver(cfg.AssetBaseURL, cfg.AppURL)
	}

	deps.LoginLimiter, deps.EnquiryLimiter = router.NewLimiters(valkeyClient, deps.IPs)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.New(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	// Give active requests up to 30 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}

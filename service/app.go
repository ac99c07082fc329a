package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"postboard/app/client"
	"postboard/app/config"
	"postboard/app/logging"
	"postboard/app/repositories"
	"postboard/app/routes"
	"postboard/app/services"
)

// App is the wired application: remote client, cache, comment store and
// router.
type App struct {
	Config *config.Config
	Router http.Handler
	Posts  *services.PostService

	repo    *repositories.Repository
	closers []func()
}

// NewApp builds every component from cfg. Close releases them.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	cache, err := newCache(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	repo, err := repositories.NewRepository(cfg.CommentsDBPath)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to open comment store: %w", err)
	}
	app.repo = repo

	app.Posts = services.NewPostService(newClient(cfg, cache), repo.Comments())
	app.Router = routes.SetupRoutes(app.Posts)
	return app, nil
}

func newClient(cfg *config.Config, cache client.Cache) *client.Client {
	return client.NewClient(cfg.APIBaseURL, cache,
		client.WithTTL(cfg.CacheTTL),
		client.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		client.WithLogger(logging.Logger),
	)
}

// newCache opens the configured cache backend and registers its cleanup on app.
func newCache(ctx context.Context, cfg *config.Config, app *App) (client.Cache, error) {
	switch cfg.CacheBackend {
	case config.CacheBackendRedis:
		rdb, err := client.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { rdb.Close() })
		return client.NewRedisCache(rdb), nil
	default:
		mem, err := client.NewMemoryCache()
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, mem.Close)
		return mem, nil
	}
}

// Close releases the comment store and the cache.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
		a.repo = nil
	}
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
	return err
}

// Serve answers requests on ln until ctx is done, then shuts down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RunAppServer starts the blog service on the configured port and blocks
// until ctx is done.
func RunAppServer(ctx context.Context, cfg *config.Config) error {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
	}
	logging.Logger.Info("starting blog service",
		slog.String("addr", ln.Addr().String()),
		slog.String("api", cfg.APIBaseURL),
		slog.String("cache", cfg.CacheBackend),
	)
	return app.Serve(ctx, ln)
}

// Command myspace-login runs a small HTTP server that walks a browser
// through the MySpace OAuth 1.0a login and exposes the resulting session.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	repositorycache "github.com/goliatone/go-repository-cache/cache"
	socialauth "github.com/goliatone/go-socialauth"
	"github.com/goliatone/go-socialauth/adapters/gocommand"
	"github.com/goliatone/go-socialauth/providers/myspace"
	sqlstore "github.com/goliatone/go-socialauth/store/sql"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "myspace-login:", err)
		os.Exit(1)
	}
}

// run treats positional args as .env files to load before the environment.
func run(ctx context.Context, envFiles []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(envFiles...)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)

	client, err := sqlstore.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	factory, err := sqlstore.NewRepositoryFactoryFromPersistence(client)
	if err != nil {
		return err
	}
	if cfg.Retention > 0 {
		pruned, pruneErr := factory.ActivityStore().Prune(ctx, time.Now().Add(-cfg.Retention))
		if pruneErr != nil {
			logger.Warn("activity prune failed", "error", pruneErr)
		} else if pruned > 0 {
			logger.Info("activity pruned", "deleted", pruned)
		}
	}

	cacheService, err := repositorycache.NewCacheService(repositorycache.DefaultConfig())
	if err != nil {
		return fmt.Errorf("activity cache: %w", err)
	}
	activity, err := sqlstore.NewCachedActivityStore(factory.ActivityStore(), cacheService)
	if err != nil {
		return err
	}

	provider, err := myspace.New(
		cfg.providerConfig(),
		myspace.WithLogger(logger),
		myspace.WithActivitySink(activity),
		myspace.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return err
	}

	facade, err := socialauth.NewFacade(provider, socialauth.WithActivityReader(activity))
	if err != nil {
		return err
	}
	registry := gocommand.NewRegistryAdapter(nil)
	subs, err := gocommand.RegisterFacade(registry, facade)
	if err != nil {
		return err
	}
	defer subs.Unsubscribe()
	if err := registry.Initialize(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newServer(provider, cfg.callbackURL(), logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Addr, "callback", cfg.callbackURL(), "db_driver", cfg.DB.GetDriver())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

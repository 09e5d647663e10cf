package cmd

import (
	"context"
	"errors"
	"net/http"

	"ordercore/api"
	"ordercore/config"
	"ordercore/infrastructure/persistence/mysql"
	"ordercore/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config  *config.Config
	router  *api.Router
	server  *http.Server
	worker  *mysql.OutboxWorker
	closers []closer
}

// Run serves HTTP, and relays the outbox when the worker is enabled, until
// ctx is cancelled or either of them fails. Open resources are closed
// before it returns.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if a.worker != nil {
		g.Go(func() error {
			if err := a.worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return a.Shutdown()
	})

	err := g.Wait()
	closeAll(context.Background(), a.closers)
	logger.Info("Server stopped")
	return err
}

// Shutdown drains in-flight requests within the configured timeout.
func (a *App) Shutdown() error {
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	return a.server.Shutdown(ctx)
}

// Handler exposes the router for in-process tests.
func (a *App) Handler() http.Handler {
	return a.router.Engine()
}

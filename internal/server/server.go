package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MMMikeM/DND-Campaign-sub000/internal/config"
	mid "github.com/MMMikeM/DND-Campaign-sub000/internal/server/middleware"
	"github.com/MMMikeM/DND-Campaign-sub000/internal/storage"
	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// shutdownTimeout bounds draining in-flight requests.
const shutdownTimeout = 10 * time.Second

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.RequestID())
	e.Use(mid.RequestLogger(app.Log))
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e)
	return e
}

// Run opens the configured backend and serves the API until ctx is done.
func Run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()

	embedder, err := cfg.Embedder(log)
	if err != nil {
		return err
	}
	if embedder != nil && backend.Kind == "memory" {
		if _, err := backend.Index(ctx, cfg, embedder, log); err != nil {
			log.Warn("Failed to index embeddings, semantic search will find nothing", "err", err)
		}
	}

	e := New(&mid.App{
		Campaign: backend.Service(cfg, embedder, log),
		Log:      log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Port, "backend", backend.Kind)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown server", "err", err)
		return err
	}
	return nil
}

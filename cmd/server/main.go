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

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/app"
	"ledgerlens/internal/auth"
	"ledgerlens/internal/config"
	"ledgerlens/internal/handler"
	"ledgerlens/internal/logger"
	"ledgerlens/internal/middleware"
	"ledgerlens/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(&cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var verifier middleware.TokenVerifier
	if cfg.Auth.Enabled() {
		verifier = auth.NewTokenVerifier(&cfg.Auth)
	}

	// Initialize handlers
	docH := handler.NewDocumentHandler(a.Pipeline, cfg.Pipeline.MaxUploadBytes())
	recordH := handler.NewRecordHandler(a.Pipeline)
	healthH := handler.NewHealthHandler(a.Model)

	r := router.Setup(verifier, cfg.CORS.AllowedOrigins, docH, recordH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

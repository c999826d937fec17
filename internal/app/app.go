// Package app wires configuration into a ready-to-use pipeline for the
// server and CLI entry points.
package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"ledgerlens/internal/cache/noop"
	rediscache "ledgerlens/internal/cache/redis"
	"ledgerlens/internal/config"
	"ledgerlens/internal/extraction"
	"ledgerlens/internal/llm"
	_ "ledgerlens/internal/llm/providers"
	"ledgerlens/internal/port"
	"ledgerlens/internal/repair"
	"ledgerlens/internal/service"
	s3storage "ledgerlens/internal/storage/s3"
	"ledgerlens/internal/validator"
)

// App holds the wired components.
type App struct {
	Pipeline service.PipelineService
	Model    port.ModelClient
	closers  []func() error
}

// Close releases external connections.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Printf("app.Close: %v", err)
		}
	}
}

// New builds the pipeline from config.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	model, err := llm.NewClientChain(&cfg.Parser)
	if err != nil {
		return nil, fmt.Errorf("initializing model client: %w", err)
	}
	a.Model = model

	cache, err := a.buildCache(ctx, &cfg.Cache)
	if err != nil {
		return nil, err
	}

	var storage port.ObjectStorage
	if cfg.Storage.Enabled {
		storage, err = s3storage.NewS3Client(ctx, &cfg.Storage)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("initializing S3 client: %w", err)
		}
	}

	extractor := extraction.NewService(model, extraction.Options{MaxImageDimension: cfg.Extraction.MaxImageDimension})
	repairer := repair.NewService(model, validator.DefaultRegistry(), nil)
	a.Pipeline = service.NewPipelineService(extractor, repairer, cache, storage, &cfg.Pipeline, &cfg.Storage)

	log.WithFields(log.Fields{
		"providers": cfg.Parser.PrimaryConfig().Provider,
		"cache":     cfg.Cache.Provider,
		"archive":   cfg.Storage.Enabled,
	}).Info("app.New: pipeline ready")
	return a, nil
}

func (a *App) buildCache(ctx context.Context, cfg *config.CacheConfig) (port.ExtractionCache, error) {
	switch cfg.Provider {
	case "", "none":
		return noop.NewCache(), nil
	case "redis":
		c, closeFn, err := rediscache.Connect(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing extraction cache: %w", err)
		}
		a.closers = append(a.closers, closeFn)
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache provider: %s", cfg.Provider)
	}
}

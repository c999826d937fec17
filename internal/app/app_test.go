package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerlens/internal/app"
	"ledgerlens/internal/config"
	"ledgerlens/internal/domain"
)

func baseConfig() *config.Config {
	return &config.Config{
		Parser: config.ParserConfig{
			Primary: config.ParserProviderConfig{Provider: "gemini", APIKey: "k", DefaultModel: "gemini-2.0-flash", TimeoutSecs: 5},
		},
		Cache:    config.CacheConfig{Provider: "none"},
		Pipeline: config.PipelineConfig{RepairConcurrency: 2},
	}
}

func TestNew_DefaultWiring(t *testing.T) {
	a, err := app.New(context.Background(), baseConfig())
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Model)
	assert.NotNil(t, a.Pipeline)

	res := a.Pipeline.Detect(domain.EmptyCategoryData())
	assert.Zero(t, res.IssueCount)
}

func TestNew_NoProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.Parser = config.ParserConfig{}

	_, err := app.New(context.Background(), cfg)

	assert.ErrorIs(t, err, domain.ErrModelClientUnconfigured)
}

func TestNew_UnknownCacheProvider(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache.Provider = "memcached"

	_, err := app.New(context.Background(), cfg)

	assert.ErrorContains(t, err, "unknown cache provider")
}

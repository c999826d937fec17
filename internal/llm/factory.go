package llm

import (
	"fmt"
	"sync"

	"ledgerlens/internal/config"
	"ledgerlens/internal/domain"
	"ledgerlens/internal/port"
)

// ProviderFactory creates a ModelClient from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.ModelClient, error)

// registry of provider factories, populated by init() in each provider package
// or explicitly via RegisterProvider.
var (
	providersMu sync.RWMutex
	providers   = map[string]ProviderFactory{}
)

// RegisterProvider registers a provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = factory
}

// NewClient creates a ModelClient from a provider config using the registered factory.
func NewClient(cfg *config.ParserProviderConfig) (port.ModelClient, error) {
	providersMu.RLock()
	factory, ok := providers[cfg.Provider]
	providersMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewClientChain builds the configured provider chain. A single provider is
// returned as-is; two or more are wrapped in a FallbackClient.
func NewClientChain(cfg *config.ParserConfig) (port.ModelClient, error) {
	tiers := []*config.ParserProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()}

	var clients []port.ModelClient
	var names []string
	for _, tier := range tiers {
		if tier == nil || tier.Provider == "" {
			continue
		}
		c, err := NewClient(tier)
		if err != nil {
			return nil, fmt.Errorf("creating %s client: %w", tier.Provider, err)
		}
		clients = append(clients, c)
		names = append(names, tier.Provider)
	}

	switch len(clients) {
	case 0:
		return nil, domain.ErrModelClientUnconfigured
	case 1:
		return clients[0], nil
	default:
		return NewFallbackClient(clients, names), nil
	}
}

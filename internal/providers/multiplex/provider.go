// internal/providers/multiplex/provider.go
// Package multiplex routes provider calls based on host type.
package multiplex

import (
	"context"
	"fmt"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/providers"
)

// Provider delegates calls to an underlying provider based on host type.
type Provider struct {
	providers map[string]providers.ChatProvider
}

// New constructs a Provider from a map of host type to provider implementation.
func New(providerMap map[string]providers.ChatProvider) *Provider {
	normalized := make(map[string]providers.ChatProvider, len(providerMap))
	for key, provider := range providerMap {
		normalized[appconfig.NormalizeHostType(key)] = provider
	}
	return &Provider{providers: normalized}
}

// EnsureModelReady checks if a model is ready to be used and loads it if necessary.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	provider, err := p.providerForHost(host)
	if err != nil {
		return err
	}
	return provider.EnsureModelReady(ctx, host, model)
}

// Stream forwards the request to the provider registered for its host type.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	provider, err := p.providerForHost(req.Host)
	if err != nil {
		return err
	}
	return provider.Stream(ctx, req, callbacks)
}

// Close cleans up every distinct underlying provider and returns the first error.
func (p *Provider) Close() error {
	var firstErr error
	seen := map[providers.ChatProvider]struct{}{}
	for _, provider := range p.providers {
		if _, ok := seen[provider]; ok {
			continue
		}
		seen[provider] = struct{}{}
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *Provider) providerForHost(host appconfig.Host) (providers.ChatProvider, error) {
	hostType := appconfig.NormalizeHostType(host.Type)
	if hostType == "" {
		hostType = appconfig.HostTypeLlamaCpp
	}
	if provider, ok := p.providers[hostType]; ok {
		return provider, nil
	}
	return nil, fmt.Errorf("no provider registered for host type %q", host.Type)
}

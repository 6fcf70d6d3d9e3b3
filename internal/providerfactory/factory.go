// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/providers"
	"github.com/mwiater/cryptic/internal/providers/gemini"
	"github.com/mwiater/cryptic/internal/providers/mockllm"
	"github.com/mwiater/cryptic/internal/providers/multiplex"
	"github.com/mwiater/cryptic/internal/providers/openai"
)

// NewChatProvider builds a provider for every host type in the
// configuration. A single type gets its provider directly; mixed
// configurations are routed through a multiplexer.
func NewChatProvider(cfg *appconfig.Config) (providers.ChatProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}
	types, err := collectHostTypes(cfg)
	if err != nil {
		return nil, err
	}

	var shared *openai.Provider
	built := make(map[string]providers.ChatProvider, len(types))
	for hostType := range types {
		switch hostType {
		case appconfig.HostTypeOpenAI, appconfig.HostTypeLlamaCpp:
			if shared == nil {
				shared = openai.New(cfg)
			}
			built[hostType] = shared
		case appconfig.HostTypeGoogle:
			built[hostType] = gemini.New(cfg)
		case appconfig.HostTypeMockLLM:
			built[hostType] = mockllm.New()
		}
	}

	if len(built) == 1 {
		for _, p := range built {
			return p, nil
		}
	}
	return multiplex.New(built), nil
}

// collectHostTypes returns the canonical host types in use. An empty type
// means llama.cpp.
func collectHostTypes(cfg *appconfig.Config) (map[string]bool, error) {
	types := make(map[string]bool)
	for _, host := range cfg.Hosts {
		t := appconfig.NormalizeHostType(host.Type)
		if t == "" {
			t = appconfig.HostTypeLlamaCpp
		}
		switch t {
		case appconfig.HostTypeOpenAI, appconfig.HostTypeLlamaCpp, appconfig.HostTypeGoogle, appconfig.HostTypeMockLLM:
			types[t] = true
		default:
			return nil, fmt.Errorf("unsupported host type %q for host %q", host.Type, host.Name)
		}
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("no hosts configured")
	}
	return types, nil
}

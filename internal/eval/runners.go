// internal/eval/runners.go
package eval

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwiater/cryptic/internal/appconfig"
)

// runner is one model on one host.
type runner struct {
	host  appconfig.Host
	model string
}

// ID is the provider-qualified model name, such as "openai/gpt-4o".
func (r runner) ID() string {
	return hostType(r.host) + "/" + r.model
}

func hostType(h appconfig.Host) string {
	t := appconfig.NormalizeHostType(h.Type)
	if t == "" {
		return appconfig.HostTypeLlamaCpp
	}
	return t
}

// implicitHosts are used when a requested provider has no configured host.
var implicitHosts = map[string]appconfig.Host{
	appconfig.HostTypeOpenAI:  {Name: "openai", Type: appconfig.HostTypeOpenAI},
	appconfig.HostTypeGoogle:  {Name: "google", Type: appconfig.HostTypeGoogle},
	appconfig.HostTypeMockLLM: {Name: "mockllm", Type: appconfig.HostTypeMockLLM},
}

// selectRunners returns every host/model pair matching model. An empty
// model selects them all. A "provider/name" for a hosted provider that the
// configuration does not list gets a default host.
func selectRunners(hosts []appconfig.Host, model string) ([]runner, error) {
	model = strings.TrimSpace(model)
	var out []runner
	for _, h := range hosts {
		for _, m := range h.Models {
			r := runner{host: h, model: m}
			if model == "" || strings.EqualFold(r.ID(), model) {
				out = append(out, r)
			}
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	if model == "" {
		return nil, fmt.Errorf("no hosts configured")
	}

	provider, name, ok := strings.Cut(model, "/")
	if !ok || name == "" {
		return nil, fmt.Errorf("model %q must be written as provider/name", model)
	}
	host, known := implicitHosts[appconfig.NormalizeHostType(provider)]
	if !known {
		return nil, fmt.Errorf("no configured host serves %q", model)
	}
	host.Models = []string{name}
	return []runner{{host: host, model: name}}, nil
}

// modelArgs renders the host's sampling parameters as a generic map.
func modelArgs(p appconfig.Parameters) map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return nil
	}
	var args map[string]any
	if err := json.Unmarshal(data, &args); err != nil || len(args) == 0 {
		return nil
	}
	return args
}

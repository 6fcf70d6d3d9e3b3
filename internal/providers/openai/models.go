// internal/providers/openai/models.go
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
)

// llama.cpp's router lists models in several shapes depending on version.
type modelsResponse struct {
	Data   []llamaModel `json:"data"`
	Models []llamaModel `json:"models"`
}

type llamaModel struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Model  string      `json:"model"`
	Path   string      `json:"path"`
	Status statusField `json:"status"`
}

type statusField struct {
	Value string
}

func (s *statusField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		s.Value = ""
		return nil
	}
	if trimmed[0] == '"' {
		return json.Unmarshal(data, &s.Value)
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	s.Value = obj.Value
	return nil
}

func parseModels(body []byte) ([]llamaModel, error) {
	var wrapped modelsResponse
	if err := json.Unmarshal(body, &wrapped); err == nil {
		if len(wrapped.Models) > 0 {
			return wrapped.Models, nil
		}
		if len(wrapped.Data) > 0 {
			return wrapped.Data, nil
		}
	}

	var direct []llamaModel
	if err := json.Unmarshal(body, &direct); err == nil && len(direct) > 0 {
		return direct, nil
	}

	var names struct {
		Models []string `json:"models"`
	}
	if err := json.Unmarshal(body, &names); err == nil && len(names.Models) > 0 {
		out := make([]llamaModel, 0, len(names.Models))
		for _, name := range names.Models {
			out = append(out, llamaModel{Name: name})
		}
		return out, nil
	}
	return nil, fmt.Errorf("llama.cpp: unrecognized /models response")
}

func modelDisplayName(model llamaModel) string {
	for _, v := range []string{model.ID, model.Name, model.Model, model.Path} {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (p *Provider) fetchModels(ctx context.Context, host appconfig.Host) ([]llamaModel, error) {
	path := "/models"
	if appconfig.NormalizeHostType(host.Type) == appconfig.HostTypeOpenAI {
		path = "/v1/models"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL(host)+path, nil)
	if err != nil {
		return nil, err
	}
	if key := host.APIKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", path, resp.Status)
	}
	return parseModels(body)
}

// ModelStatus is a model a host reports. Status is empty when the host does
// not track load state.
type ModelStatus struct {
	Name   string
	Status string
}

// ListModels returns the models host serves.
func (p *Provider) ListModels(ctx context.Context, host appconfig.Host) ([]ModelStatus, error) {
	models, err := p.fetchModels(ctx, host)
	if err != nil {
		return nil, err
	}
	out := make([]ModelStatus, 0, len(models))
	for _, m := range models {
		if name := modelDisplayName(m); name != "" {
			out = append(out, ModelStatus{Name: name, Status: strings.TrimSpace(m.Status.Value)})
		}
	}
	return out, nil
}

func (p *Provider) waitForModelLoaded(ctx context.Context, host appconfig.Host, model string) error {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		models, err := p.fetchModels(ctx, host)
		if err != nil {
			return err
		}
		for _, item := range models {
			if strings.EqualFold(modelDisplayName(item), model) && strings.EqualFold(strings.TrimSpace(item.Status.Value), "loaded") {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("llama.cpp: model %s did not load before timeout", model)
		case <-ticker.C:
		}
	}
}

func isAlreadyLoadedError(statusCode int, body []byte) bool {
	if statusCode != http.StatusBadRequest {
		return false
	}
	if strings.Contains(strings.ToLower(string(body)), "already loaded") {
		return true
	}
	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return strings.Contains(strings.ToLower(payload.Error.Message), "already loaded")
	}
	return false
}

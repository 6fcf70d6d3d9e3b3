// internal/providers/openai/models_test.go
package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mwiater/cryptic/internal/appconfig"
)

func TestParseModelsVariants(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "wrapped models", data: `{"models":[{"id":"m1"},{"name":"m2"}]}`, want: []string{"m1", "m2"}},
		{name: "wrapped data", data: `{"data":[{"model":"m3"},{"path":"m4.gguf"}]}`, want: []string{"m3", "m4.gguf"}},
		{name: "direct array", data: `[{"id":"m5"},{"name":"m6"}]`, want: []string{"m5", "m6"}},
		{name: "names list", data: `{"models":["m7","m8"]}`, want: []string{"m7", "m8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models, err := parseModels([]byte(tt.data))
			if err != nil {
				t.Fatalf("parseModels error: %v", err)
			}
			if len(models) != len(tt.want) {
				t.Fatalf("expected %d models, got %d", len(tt.want), len(models))
			}
			for i, want := range tt.want {
				if got := modelDisplayName(models[i]); got != want {
					t.Fatalf("model %d name = %q, want %q", i, got, want)
				}
			}
		})
	}

	if _, err := parseModels([]byte(`{"unexpected":true}`)); err == nil {
		t.Fatal("expected an error for an unknown shape")
	}
}

func TestStatusFieldUnmarshalJSON(t *testing.T) {
	var s statusField
	if err := s.UnmarshalJSON([]byte(`"loaded"`)); err != nil || s.Value != "loaded" {
		t.Fatalf("string status: %q, %v", s.Value, err)
	}
	if err := s.UnmarshalJSON([]byte(`{"value":"unloaded"}`)); err != nil || s.Value != "unloaded" {
		t.Fatalf("object status: %q, %v", s.Value, err)
	}
	if err := s.UnmarshalJSON([]byte(`null`)); err != nil || s.Value != "" {
		t.Fatalf("null status: %q, %v", s.Value, err)
	}
}

func TestIsAlreadyLoadedError(t *testing.T) {
	body := []byte(`{"error":{"message":"model already loaded"}}`)
	if !isAlreadyLoadedError(400, body) {
		t.Fatal("expected already loaded match")
	}
	if isAlreadyLoadedError(500, body) {
		t.Fatal("expected false for non-400 status")
	}
	if isAlreadyLoadedError(400, []byte(`{"error":{"message":"bad request"}}`)) {
		t.Fatal("expected false for unrelated error")
	}
}

func TestEnsureModelReadyWaitsForLoad(t *testing.T) {
	polls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/load":
			w.WriteHeader(http.StatusOK)
		case "/models":
			polls++
			status := "loading"
			if polls > 1 {
				status = "loaded"
			}
			_, _ = w.Write([]byte(`{"data":[{"id":"qwen3","status":{"value":"` + status + `"}}]}`))
		}
	}))
	defer server.Close()

	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	host := appconfig.Host{Name: "local", URL: server.URL, Type: "llamacpp"}
	if err := provider.EnsureModelReady(context.Background(), host, "qwen3"); err != nil {
		t.Fatalf("EnsureModelReady error: %v", err)
	}
	if polls < 2 {
		t.Fatalf("expected polling until loaded, got %d polls", polls)
	}

	if err := provider.EnsureModelReady(context.Background(), appconfig.Host{Type: "openai", URL: "http://127.0.0.1:1"}, "gpt-4o"); err != nil {
		t.Fatalf("OpenAI hosts should not be contacted: %v", err)
	}
}

func TestListModels(t *testing.T) {
	var auth, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o"},{"id":"gpt-5"}]}`))
	}))
	defer server.Close()

	t.Setenv("CRYPTIC_TEST_KEY", "sk-test")
	provider := New(&appconfig.Config{TimeoutSeconds: 5})
	host := appconfig.Host{Name: "cloud", URL: server.URL + "/v1", Type: "openai", APIKeyEnv: "CRYPTIC_TEST_KEY"}

	models, err := provider.ListModels(context.Background(), host)
	if err != nil {
		t.Fatalf("ListModels error: %v", err)
	}
	if len(models) != 2 || models[1].Name != "gpt-5" || models[1].Status != "" {
		t.Fatalf("unexpected models %+v", models)
	}
	if path != "/v1/models" || auth != "Bearer sk-test" {
		t.Fatalf("unexpected request path=%q auth=%q", path, auth)
	}
}

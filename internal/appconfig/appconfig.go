// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/clues"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for model requests.
	defaultRequestTimeout = 600 * time.Second

	defaultDataDir         = "data"
	defaultResultsDir      = "results"
	defaultLogsDir         = "logs"
	defaultSQLitePath      = "results/results.db"
	defaultDashboardOutput = "web/results.json"
	defaultLogFile         = "cryptic.log"
	defaultVisionModel     = "gemini-2.5-pro"
	defaultVisionRegion    = "us-central1"
)

// Host types understood by the provider factory.
const (
	HostTypeOpenAI   = "openai"
	HostTypeLlamaCpp = "llama.cpp"
	HostTypeGoogle   = "google"
	HostTypeMockLLM  = "mockllm"
)

// Results store kinds.
const (
	StoreJSONL  = "jsonl"
	StoreSQLite = "sqlite"
)

// Config represents the top-level application configuration.
type Config struct {
	Hosts           []Host           `json:"hosts" mapstructure:"hosts"`
	Vision          Vision           `json:"vision" mapstructure:"vision"`
	DataDir         string           `json:"dataDir,omitempty" mapstructure:"dataDir"`
	ResultsDir      string           `json:"resultsDir,omitempty" mapstructure:"resultsDir"`
	LogsDir         string           `json:"logsDir,omitempty" mapstructure:"logsDir"`
	ResultsStore    string           `json:"resultsStore,omitempty" mapstructure:"resultsStore"`
	SQLitePath      string           `json:"sqlitePath,omitempty" mapstructure:"sqlitePath"`
	DashboardOutput string           `json:"dashboardOutput,omitempty" mapstructure:"dashboardOutput"`
	TimeoutSeconds  int              `json:"timeout,omitempty" mapstructure:"timeout"`
	LogFile         string           `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug           bool             `json:"debug" mapstructure:"debug"`
	Layout          Layout           `json:"layout" mapstructure:"layout"`
	Pricing         map[string]Price `json:"pricing,omitempty" mapstructure:"pricing"`
	ConfigPath      string           `json:"-" mapstructure:"-"`
}

// Host represents a single endpoint that can serve models under evaluation.
type Host struct {
	Name         string     `json:"name" mapstructure:"name"`
	URL          string     `json:"url" mapstructure:"url"`
	Type         string     `json:"type" mapstructure:"type"`
	Models       []string   `json:"models" mapstructure:"models"`
	APIKeyEnv    string     `json:"apiKeyEnv,omitempty" mapstructure:"apiKeyEnv"`
	SystemPrompt string     `json:"systemprompt,omitempty" mapstructure:"systemprompt"`
	Parameters   Parameters `json:"parameters" mapstructure:"parameters"`
}

// Parameters are the sampling options forwarded with every request.
type Parameters struct {
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
	TopP        *float64 `json:"top_p,omitempty" mapstructure:"top_p"`
	TopK        *int     `json:"top_k,omitempty" mapstructure:"top_k"`
	MaxTokens   *int     `json:"max_tokens,omitempty" mapstructure:"max_tokens"`
}

// Vision configures the model that reads answers off solved grid images.
// Backend is "vertex" (Project and Region required) or "gemini" (API key).
type Vision struct {
	Backend     string   `json:"backend,omitempty" mapstructure:"backend"`
	Project     string   `json:"project,omitempty" mapstructure:"project"`
	Region      string   `json:"region,omitempty" mapstructure:"region"`
	APIKeyEnv   string   `json:"apiKeyEnv,omitempty" mapstructure:"apiKeyEnv"`
	Model       string   `json:"model,omitempty" mapstructure:"model"`
	Temperature *float64 `json:"temperature,omitempty" mapstructure:"temperature"`
}

// Layout tunes clue extraction for a print layout.
type Layout struct {
	ColumnBoundary   float64  `json:"columnBoundary,omitempty" mapstructure:"columnBoundary"`
	LinePrecision    *int     `json:"linePrecision,omitempty" mapstructure:"linePrecision"`
	MetadataLines    int      `json:"metadataLines,omitempty" mapstructure:"metadataLines"`
	PuzzleKeywords   []string `json:"puzzleKeywords,omitempty" mapstructure:"puzzleKeywords"`
	StrictLineStarts *bool    `json:"strictLineStarts,omitempty" mapstructure:"strictLineStarts"`
}

// Price is a model's cost in USD per million tokens.
type Price struct {
	Input  float64 `json:"input" mapstructure:"input"`
	Output float64 `json:"output" mapstructure:"output"`
}

// DefaultPricing returns a fresh copy of the built-in price table, keyed by
// model prefix.
func DefaultPricing() map[string]Price {
	return map[string]Price{
		"anthropic/claude-opus-4":   {Input: 15.0, Output: 75.0},
		"anthropic/claude-sonnet-4": {Input: 3.0, Output: 15.0},
		"anthropic/claude-haiku-4":  {Input: 0.80, Output: 4.0},
		"openai/gpt-5":              {Input: 2.0, Output: 8.0},
		"openai/gpt-4o":             {Input: 2.50, Output: 10.0},
		"openai/gpt-4.1":            {Input: 2.0, Output: 8.0},
		"openai/o3":                 {Input: 2.0, Output: 8.0},
		"openai/o1":                 {Input: 15.0, Output: 60.0},
		"google/gemini-3":           {Input: 1.25, Output: 10.0},
		"google/gemini-2.5-pro":     {Input: 1.25, Output: 10.0},
		"google/gemini-2.5-flash":   {Input: 0.15, Output: 0.60},
		"google/gemini-2.0":         {Input: 0.10, Output: 0.40},
	}
}

// RequestTimeout returns the timeout duration for model requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := strings.TrimSpace(c.LogFile); path != "" {
		return path
	}
	return defaultLogFile
}

// PricingTable returns the configured prices, or the defaults when none are set.
func (c Config) PricingTable() map[string]Price {
	if len(c.Pricing) == 0 {
		return DefaultPricing()
	}
	out := make(map[string]Price, len(c.Pricing))
	for k, v := range c.Pricing {
		out[k] = v
	}
	return out
}

// ClueOptions converts the layout section into extractor options.
func (c Config) ClueOptions() clues.Options {
	opts := clues.DefaultOptions()
	if c.Layout.ColumnBoundary > 0 && c.Layout.ColumnBoundary < 1 {
		opts.BoundaryRatio = c.Layout.ColumnBoundary
	}
	if c.Layout.LinePrecision != nil && *c.Layout.LinePrecision >= 0 {
		opts.Precision = *c.Layout.LinePrecision
	}
	if c.Layout.MetadataLines > 0 {
		opts.Metadata.Lines = c.Layout.MetadataLines
	}
	if len(c.Layout.PuzzleKeywords) > 0 {
		opts.Metadata.Keywords = append([]string(nil), c.Layout.PuzzleKeywords...)
	}
	if c.Layout.StrictLineStarts != nil {
		opts.StrictLineStarts = *c.Layout.StrictLineStarts
	}
	return opts
}

// ApplyDefaults fills unset paths and settings in place.
func (c *Config) ApplyDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	setDefault(&c.DataDir, defaultDataDir)
	setDefault(&c.ResultsDir, defaultResultsDir)
	setDefault(&c.LogsDir, defaultLogsDir)
	setDefault(&c.ResultsStore, StoreJSONL)
	setDefault(&c.SQLitePath, defaultSQLitePath)
	setDefault(&c.DashboardOutput, defaultDashboardOutput)
	setDefault(&c.LogFile, defaultLogFile)
	setDefault(&c.Vision.Model, defaultVisionModel)
	setDefault(&c.Vision.Region, defaultVisionRegion)
	if c.Vision.Backend == "" {
		if c.Vision.Project != "" {
			c.Vision.Backend = "vertex"
		} else {
			c.Vision.Backend = "gemini"
		}
	}
	setDefault(&c.Vision.APIKeyEnv, "GEMINI_API_KEY")
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}

// Host returns the host with the given name.
func (c Config) Host(name string) (Host, bool) {
	for _, h := range c.Hosts {
		if strings.EqualFold(h.Name, name) {
			return h, true
		}
	}
	return Host{}, false
}

// APIKey reads the host's API key from its environment variable, defaulting
// the variable name by host type.
func (h Host) APIKey() string {
	env := strings.TrimSpace(h.APIKeyEnv)
	if env == "" {
		switch NormalizeHostType(h.Type) {
		case HostTypeOpenAI:
			env = "OPENAI_API_KEY"
		case HostTypeGoogle:
			env = "GEMINI_API_KEY"
		default:
			return ""
		}
	}
	return os.Getenv(env)
}

// NormalizeHostType maps spelling variants of a host type to its canonical name.
func NormalizeHostType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "openai", "openai-compatible":
		return HostTypeOpenAI
	case "llama.cpp", "llamacpp", "llama-cpp":
		return HostTypeLlamaCpp
	case "google", "gemini", "genai":
		return HostTypeGoogle
	case "mockllm", "mock":
		return HostTypeMockLLM
	default:
		return strings.ToLower(strings.TrimSpace(t))
	}
}

// Load reads the application configuration from path and applies defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	for i, h := range config.Hosts {
		if strings.TrimSpace(h.Name) == "" {
			return Config{}, fmt.Errorf("host %d has no name", i)
		}
		if len(h.Models) == 0 {
			return Config{}, fmt.Errorf("host %q lists no models", h.Name)
		}
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	config.ApplyDefaults()
	return config, nil
}

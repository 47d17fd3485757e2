package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Storage    StorageConfig    `yaml:"storage"`
}

type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider,omitempty"`
	Providers       map[string]ProviderConfig `yaml:"providers,omitempty"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model,omitempty"`
}

type EvaluationConfig struct {
	Concurrency     int           `yaml:"concurrency,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"` // per predictor call
	SaveEvery       int           `yaml:"save_every,omitempty"`
	SaveInterval    time.Duration `yaml:"save_interval,omitempty"`
	StringThreshold float64       `yaml:"string_threshold,omitempty"`
	ListThreshold   float64       `yaml:"list_threshold,omitempty"`
	Retry           RetryConfig   `yaml:"retry,omitempty"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts,omitempty"`
	InitialDelay time.Duration `yaml:"initial_delay,omitempty"`
	MaxDelay     time.Duration `yaml:"max_delay,omitempty"`
}

type StorageConfig struct {
	Type string `yaml:"type,omitempty"` // "sqlite" or "memory"
	Path string `yaml:"path,omitempty"` // SQLite file path
}

// Load reads the config file and applies API-key environment overrides.
// A missing file at the default path yields a usable zero config, so a
// run can be driven entirely by flags and environment variables.
func Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	useDefault := path == ""
	if useDefault {
		path = DefaultPath
	}

	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	case os.IsNotExist(err) && useDefault:
		// Environment-only configuration.
	default:
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	if cfg.LLM.Providers == nil {
		cfg.LLM.Providers = make(map[string]ProviderConfig)
	}
	if strings.TrimSpace(cfg.LLM.DefaultProvider) == "" {
		cfg.LLM.DefaultProvider = "claude"
	}

	if v := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	} else if v := strings.TrimSpace(os.Getenv("ANTHROPIC_AUTH_TOKEN")); v != "" {
		p := cfg.LLM.Providers["claude"]
		p.APIKey = v
		cfg.LLM.Providers["claude"] = p
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		p := cfg.LLM.Providers["openai"]
		p.APIKey = v
		cfg.LLM.Providers["openai"] = p
	}

	return &cfg, nil
}

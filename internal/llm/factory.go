package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tyyim/esg-reason-sub000/internal/config"
)

func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}

	r := NewRegistry()
	for name, pcfg := range cfg.LLM.Providers {
		switch canonicalName(name) {
		case "":
			continue
		case "claude", "anthropic":
			r.Register(NewClaudeProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model))
		case "openai":
			r.Register(NewOpenAIProvider(pcfg.APIKey, pcfg.BaseURL, pcfg.Model))
		default:
			return nil, fmt.Errorf("llm: unknown provider %q", name)
		}
	}

	return r, nil
}

// ProviderFromConfig resolves the named provider, falling back to the
// configured default when name is empty.
func ProviderFromConfig(cfg *config.Config, name string) (Provider, error) {
	if cfg == nil {
		return nil, errors.New("llm: nil config")
	}
	reg, err := NewRegistryFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if name == "" {
		name = "claude"
	}
	if p, ok := reg.Get(name); ok {
		return p, nil
	}

	if len(reg.providers) == 1 {
		for _, p := range reg.providers {
			return p, nil
		}
	}

	return nil, fmt.Errorf("llm: provider %q not configured (available: %s)", name, strings.Join(reg.Names(), ", "))
}

func DefaultProviderFromConfig(cfg *config.Config) (Provider, error) {
	return ProviderFromConfig(cfg, "")
}

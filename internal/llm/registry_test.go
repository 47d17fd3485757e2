package llm

import (
	"context"
	"strings"
	"testing"

	"github.com/tyyim/esg-reason-sub000/internal/config"
)

type stubProvider struct {
	name string
}

func (p stubProvider) Name() string { return p.name }
func (p stubProvider) Complete(context.Context, *Request) (*Response, error) {
	return nil, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	t.Parallel()

	var nilReg *Registry
	nilReg.Register(stubProvider{name: "x"}) // should be no-op

	r := &Registry{}
	r.Register(stubProvider{name: " \t "}) // should be ignored
	if _, ok := r.Get("x"); ok {
		t.Fatalf("Get: unexpected provider")
	}

	r.Register(nil)
	r.Register(stubProvider{name: "  X "})

	if r.providers == nil {
		t.Fatalf("providers: nil")
	}
	if got, ok := r.Get("x"); !ok || got == nil {
		t.Fatalf("Get(x): ok=%v provider=%v", ok, got)
	}
	if _, ok := r.Get(" \t "); ok {
		t.Fatalf("Get(empty): unexpected ok")
	}
}

func TestRegistry_NamesSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubProvider{name: "openai"})
	r.Register(stubProvider{name: "Claude"})

	names := r.Names()
	if len(names) != 2 || names[0] != "claude" || names[1] != "openai" {
		t.Fatalf("Names: %v", names)
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewRegistryFromConfig(nil); err == nil {
		t.Fatalf("NewRegistryFromConfig(nil): expected error")
	}

	_, err := NewRegistryFromConfig(&config.Config{
		LLM: config.LLMConfig{
			Providers: map[string]config.ProviderConfig{
				"unknown": {},
			},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown provider") {
		t.Fatalf("unknown provider: got err %v", err)
	}

	reg, err := NewRegistryFromConfig(&config.Config{
		LLM: config.LLMConfig{
			Providers: map[string]config.ProviderConfig{
				"claude": {APIKey: "k1"},
				"openai": {APIKey: "k2"},
			},
		},
	})
	if err != nil {
		t.Fatalf("NewRegistryFromConfig: %v", err)
	}
	if _, ok := reg.Get("claude"); !ok {
		t.Fatalf("Get(claude): missing")
	}
	if _, ok := reg.Get("openai"); !ok {
		t.Fatalf("Get(openai): missing")
	}
}

func TestProviderFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "claude",
			Providers: map[string]config.ProviderConfig{
				"claude": {APIKey: "k1"},
				"openai": {APIKey: "k2"},
			},
		},
	}

	p, err := ProviderFromConfig(cfg, "")
	if err != nil {
		t.Fatalf("ProviderFromConfig(default): %v", err)
	}
	if p.Name() != "claude" {
		t.Fatalf("default provider: got %q want %q", p.Name(), "claude")
	}

	p, err = ProviderFromConfig(cfg, "openai")
	if err != nil {
		t.Fatalf("ProviderFromConfig(openai): %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("explicit provider: got %q want %q", p.Name(), "openai")
	}

	_, err = ProviderFromConfig(cfg, "mistral")
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("missing provider: got err %v", err)
	}
}

func TestProviderFromConfig_SingleFallback(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		LLM: config.LLMConfig{
			DefaultProvider: "claude",
			Providers: map[string]config.ProviderConfig{
				"openai": {APIKey: "k"},
			},
		},
	}

	p, err := ProviderFromConfig(cfg, "")
	if err != nil {
		t.Fatalf("ProviderFromConfig: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("single fallback: got %q want %q", p.Name(), "openai")
	}
}

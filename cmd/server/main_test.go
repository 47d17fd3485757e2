package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tyyim/esg-reason-sub000/api"
	"github.com/tyyim/esg-reason-sub000/internal/config"
)

func memConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Storage.Type = "memory"
	return cfg
}

func stubMain(t *testing.T) *bytes.Buffer {
	t.Helper()

	origLoad := loadConfig
	origRun := runServer
	origStderr := stderrWriter
	t.Cleanup(func() {
		loadConfig = origLoad
		runServer = origRun
		stderrWriter = origStderr
	})

	var buf bytes.Buffer
	stderrWriter = &buf
	loadConfig = func(string) (*config.Config, error) { return memConfig(), nil }
	runServer = func(*api.Server, string) error { return nil }
	return &buf
}

func TestRunMainOK(t *testing.T) {
	stubMain(t)
	t.Setenv("ESG_EVAL_DISABLE_AUTH", "true")

	var gotAddr string
	runServer = func(_ *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}

	if code := runMain([]string{"--addr", ":9999"}); code != 0 {
		t.Fatalf("runMain = %d", code)
	}
	if gotAddr != ":9999" {
		t.Fatalf("addr = %q", gotAddr)
	}
}

func TestRunMainHelp(t *testing.T) {
	buf := stubMain(t)

	if code := runMain([]string{"--help"}); code != 0 {
		t.Fatalf("runMain(--help) = %d", code)
	}
	if !strings.Contains(buf.String(), "-addr") {
		t.Fatalf("usage output = %q", buf.String())
	}
}

func TestRunMainBadFlag(t *testing.T) {
	stubMain(t)

	if code := runMain([]string{"--nope"}); code != 2 {
		t.Fatalf("runMain(--nope) = %d", code)
	}
}

func TestRunMainConfigError(t *testing.T) {
	buf := stubMain(t)
	loadConfig = func(string) (*config.Config, error) { return nil, errors.New("config: boom") }

	if code := runMain(nil); code != 1 {
		t.Fatalf("runMain = %d", code)
	}
	if !strings.Contains(buf.String(), "config: boom") {
		t.Fatalf("stderr = %q", buf.String())
	}
}

func TestRunMainAuthError(t *testing.T) {
	buf := stubMain(t)
	t.Setenv("ESG_EVAL_DISABLE_AUTH", "")
	t.Setenv("ESG_EVAL_API_KEY", "")

	if code := runMain(nil); code != 1 {
		t.Fatalf("runMain = %d", code)
	}
	if !strings.Contains(buf.String(), "auth") {
		t.Fatalf("stderr = %q", buf.String())
	}
}

func TestRunMainServerError(t *testing.T) {
	buf := stubMain(t)
	t.Setenv("ESG_EVAL_DISABLE_AUTH", "true")
	runServer = func(*api.Server, string) error { return errors.New("api: listen failed") }

	if code := runMain(nil); code != 1 {
		t.Fatalf("runMain = %d", code)
	}
	if !strings.Contains(buf.String(), "listen failed") {
		t.Fatalf("stderr = %q", buf.String())
	}
}

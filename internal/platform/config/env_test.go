package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port int `env:"CONTROLKIT_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Addr string `env:"TEST_ADDR" envDefault:":8090"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("CONTROLKIT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefix(t *testing.T) {
	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != ":8090" {
		t.Fatalf("expected default addr, got %q", cfg.Addr)
	}

	t.Setenv("CONTROLKIT_TEST_ADDR", "127.0.0.1:9999")
	cfg = prefixedTestConfig{}
	if err := ParseEnvWithPrefix(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected prefixed env addr, got %q", cfg.Addr)
	}
}

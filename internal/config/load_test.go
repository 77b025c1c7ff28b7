// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DSN", "postgres://localhost/tenants")

	specs, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if specs.DSN != "postgres://localhost/tenants" {
		t.Errorf("unexpected DSN %q", specs.DSN)
	}
	if specs.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", specs.Port)
	}
	if specs.DBMaxConnLifetime != time.Hour {
		t.Errorf("expected default lifetime 1h, got %v", specs.DBMaxConnLifetime)
	}
	if specs.BcryptCost != 10 {
		t.Errorf("expected default bcrypt cost 10, got %d", specs.BcryptCost)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("LOG_LEVEL=debug\nPORT=9090\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv never overrides set variables; t.Setenv restores them afterwards
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	specs, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if specs.LogLevel != "debug" {
		t.Errorf("expected log level from file, got %q", specs.LogLevel)
	}
	if specs.Port != 9090 {
		t.Errorf("expected port from file, got %d", specs.Port)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected an error for a missing env file")
	}
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Error("expected an error for an invalid port")
	}
}

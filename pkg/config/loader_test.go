package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigLayering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  host: localhost
  port: 5432
server:
  port: ":8080"
`)
	writeFile(t, dir, "production.yaml", `
db:
  host: db.internal
`)

	cfg, err := LoadConfig("production", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	db := cfg["db"].(map[string]interface{})
	if db["host"] != "db.internal" {
		t.Errorf("host = %v, want overlay value db.internal", db["host"])
	}
	if db["port"] != 5432 {
		t.Errorf("port = %v, want base value 5432", db["port"])
	}

	server := cfg["server"].(map[string]interface{})
	if server["port"] != ":8080" {
		t.Errorf("server port = %v, want base value :8080", server["port"])
	}
}

func TestLoadConfigMissingOverlayIsFine(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "server:\n  port: \":8080\"\n")

	if _, err := LoadConfig("staging", dir); err != nil {
		t.Fatalf("LoadConfig with absent overlay: %v", err)
	}
}

func TestLoadConfigSecretSubstitution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", `
db:
  password: ${DB_PASSWORD}
jwt:
  secret: ${JWT_SECRET}
`)
	writeFile(t, dir, "secrets.env", `
# secrets
DB_PASSWORD=s3cret
JWT_SECRET="quoted-secret"
`)

	cfg, err := LoadConfig("local", dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	db := cfg["db"].(map[string]interface{})
	if db["password"] != "s3cret" {
		t.Errorf("password = %v, want s3cret", db["password"])
	}
	jwt := cfg["jwt"].(map[string]interface{})
	if jwt["secret"] != "quoted-secret" {
		t.Errorf("secret = %v, want quoted-secret (quotes stripped)", jwt["secret"])
	}
}

func TestLoadConfigMissingBaseFails(t *testing.T) {
	if _, err := LoadConfig("local", t.TempDir()); err == nil {
		t.Error("LoadConfig without base.yaml succeeded, want error")
	}
}

func TestOverrideDBFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")
	t.Setenv("DB_PORT", "6543")

	cfg := DBConfig{Host: "file-host", Port: 5432, User: "u"}
	OverrideDBFromEnv(&cfg)

	if cfg.Host != "env-host" {
		t.Errorf("Host = %q, want env-host", cfg.Host)
	}
	if cfg.Port != 6543 {
		t.Errorf("Port = %d, want 6543", cfg.Port)
	}
	if cfg.User != "u" {
		t.Errorf("User = %q, unset env var must not override", cfg.User)
	}
}

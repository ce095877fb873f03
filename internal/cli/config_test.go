package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[cache]
redis_addr = "localhost:6379"

[store]
mongo_uri = "mongodb://localhost:27017"

[generate]
openai_api_key = "sk-test"
model = "dall-e-2"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Cache.RedisAddr)
	}
	if cfg.Store.MongoURI != "mongodb://localhost:27017" {
		t.Errorf("mongo uri = %q", cfg.Store.MongoURI)
	}
	if cfg.Store.MongoDatabase != appName {
		t.Errorf("mongo database should default to %q, got %q", appName, cfg.Store.MongoDatabase)
	}
	if cfg.Generate.OpenAIKey != "sk-test" || cfg.Generate.Model != "dall-e-2" {
		t.Errorf("generate config = %+v", cfg.Generate)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config file should not error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("missing config should be zero, got %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("cache = [nonsense"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("invalid TOML should error")
	}
}

package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Config - User Configuration File
// =============================================================================

// Config is the layerforge configuration, read from
// ~/.config/layerforge/config.toml (or $XDG_CONFIG_HOME/layerforge/config.toml).
// All fields are optional: a missing file yields a zero config and the CLI
// falls back to the file cache, the in-memory store, and disabled generation.
type Config struct {
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Generate GenerateConfig `toml:"generate"`
}

// CacheConfig selects and configures the pipeline cache backend.
type CacheConfig struct {
	// Dir overrides the file cache directory (default ~/.cache/layerforge).
	Dir string `toml:"dir"`

	// RedisAddr switches the cache to Redis when non-empty (host:port).
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig configures the payload store.
type StoreConfig struct {
	// MongoURI switches the store to MongoDB when non-empty.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// GenerateConfig configures the image generation backend.
type GenerateConfig struct {
	// OpenAIKey enables generation. The OPENAI_API_KEY environment
	// variable is used when empty.
	OpenAIKey string `toml:"openai_api_key"`

	// Model overrides the image model (default dall-e-3).
	Model string `toml:"model"`
}

// LoadConfig reads the configuration from path, or from the default location
// when path is empty. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		var err error
		path, err = configPath()
		if err != nil {
			return Config{}, nil
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if cfg.Store.MongoDatabase == "" {
		cfg.Store.MongoDatabase = appName
	}
	return cfg, nil
}

// configPath returns the config file path using XDG standard
// (~/.config/layerforge/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

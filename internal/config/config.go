// Package config loads burnlog settings from a YAML or TOML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhabedank/burnlog/internal/llm"
)

const (
	// AppName names the data directory.
	AppName = "burnlog"
	// FileName is the config file looked up in the working and home directory.
	FileName = ".burnlog.yaml"
)

// Environment variables read by ApplyEnv.
const (
	PortEnv      = "PORT"
	ServerURLEnv = "BURNLOG_SERVER_URL"
)

// Config is the merged file configuration.
type Config struct {
	// Listen is the gateway listen address.
	Listen string `yaml:"listen,omitempty" toml:"listen"`
	// ServerURL is the gateway the client talks to.
	ServerURL string `yaml:"server_url,omitempty" toml:"server_url"`
	// Model is the completion model ID.
	Model string `yaml:"model,omitempty" toml:"model"`
	// MaxTokens limits the completion length.
	MaxTokens int `yaml:"max_tokens,omitempty" toml:"max_tokens"`
	// DBPath is the client history database.
	DBPath string `yaml:"db_path,omitempty" toml:"db_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	llmDefaults := llm.DefaultConfig()
	return Config{
		Listen:    ":3000",
		ServerURL: "http://localhost:3000",
		Model:     llmDefaults.Model,
		MaxTokens: llmDefaults.MaxTokens,
		DBPath:    DefaultDBPath(),
	}
}

// DefaultDBPath is ~/.burnlog/burnlog.db, or ./burnlog.db without a home.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName + ".db"
	}
	return filepath.Join(home, "."+AppName, AppName+".db")
}

// HomePath is the config file written by the setup wizard.
func HomePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// FindPath returns explicit if set, else .burnlog.yaml in the working
// directory, else ~/.burnlog.yaml. It returns "" when none exists.
func FindPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	if p := HomePath(); p != FileName {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads path over the defaults. An empty path returns the defaults.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &file); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// merge copies the non-zero fields of other.
func (c *Config) merge(other Config) {
	if other.Listen != "" {
		c.Listen = other.Listen
	}
	if other.ServerURL != "" {
		c.ServerURL = other.ServerURL
	}
	if other.Model != "" {
		c.Model = other.Model
	}
	if other.MaxTokens != 0 {
		c.MaxTokens = other.MaxTokens
	}
	if other.DBPath != "" {
		c.DBPath = expandHome(other.DBPath)
	}
}

// ApplyEnv lets PORT and BURNLOG_SERVER_URL override file values.
func (c *Config) ApplyEnv() {
	if port := strings.TrimSpace(os.Getenv(PortEnv)); port != "" {
		c.Listen = ":" + strings.TrimPrefix(port, ":")
	}
	if url := strings.TrimSpace(os.Getenv(ServerURLEnv)); url != "" {
		c.ServerURL = url
	}
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative, got %d", c.MaxTokens)
	}
	if c.ServerURL != "" && !strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") {
		return fmt.Errorf("server_url must start with http:// or https://, got %q", c.ServerURL)
	}
	return nil
}

// LLM returns the adapter configuration.
func (c Config) LLM() llm.Config {
	return llm.Config{Model: c.Model, MaxTokens: c.MaxTokens}
}

// SaveModel writes only the model choice to path, keeping the other keys already
// in the file.
func SaveModel(path, model string) error {
	var existing map[string]any
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &existing); err != nil {
			return fmt.Errorf("failed to parse existing config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing config: %w", err)
	}
	if existing == nil {
		existing = map[string]any{}
	}
	existing["model"] = model

	data, err := yaml.Marshal(existing)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

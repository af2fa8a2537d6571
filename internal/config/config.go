package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

var (
	ErrNoAPIKey    = errors.New("api_key not set in config or OPENROUTER_API_KEY")
	ErrInvalidJSON = errors.New("invalid config JSON")
	ErrBadDebounce = errors.New("debounce_ms must not be negative")
	ErrBadContext  = errors.New("context_lines must not be negative")
)

// DefaultIgnoreDirs are directory names that are never watched, matched
// per path segment.
var DefaultIgnoreDirs = []string{
	".git",
	".hg",
	".idea",
	".vscode",
	"node_modules",
	"dist",
	"target",
	"__pycache__",
	".pytest_cache",
	"build",
	".venv",
	"venv",
}

// DefaultIgnoreFiles are file names that are never processed.
var DefaultIgnoreFiles = []string{
	".DS_Store",
	".gitignore",
	".env",
	"package-lock.json",
}

// Config holds the global anycoder configuration.
type Config struct {
	APIKey           string   `json:"api_key"`
	BaseURL          string   `json:"base_url"`
	Model            string   `json:"model"`
	Marker           string   `json:"marker"`             // Completion trigger token (default "??")
	DebounceMs       int      `json:"debounce_ms"`        // Quiescence window before a save is processed
	ContextLines     int      `json:"context_lines"`      // Lines either side of the marker in the small window
	MaxContextTokens int      `json:"max_context_tokens"` // Token cap for the large window
	IgnoreDirs       []string `json:"ignore_dirs"`
	IgnoreFiles      []string `json:"ignore_files"`
	UseGitignore     *bool    `json:"use_gitignore"` // Also honor the project's .gitignore (default: true)
}

// Load reads the config from ~/.config/anycoder/config.json.
// A missing file is not an error: defaults plus the OPENROUTER_API_KEY
// environment variable are enough to run.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(homeDir, ".config", "anycoder", "config.json")
	return LoadFrom(configPath)
}

// LoadFrom reads the config from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, ErrInvalidJSON
		}
	case os.IsNotExist(err):
		// Run on defaults
	default:
		return nil, err
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	// Set defaults
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "mistralai/codestral-2501"
	}
	if cfg.Marker == "" {
		cfg.Marker = "??"
	}
	if cfg.DebounceMs == 0 {
		cfg.DebounceMs = 300
	}
	if cfg.ContextLines == 0 {
		cfg.ContextLines = 3
	}
	if cfg.MaxContextTokens == 0 {
		cfg.MaxContextTokens = 4096
	}
	if cfg.IgnoreDirs == nil {
		cfg.IgnoreDirs = DefaultIgnoreDirs
	}
	if cfg.IgnoreFiles == nil {
		cfg.IgnoreFiles = DefaultIgnoreFiles
	}
	if cfg.UseGitignore == nil {
		t := true
		cfg.UseGitignore = &t
	}

	if cfg.DebounceMs < 0 {
		return nil, ErrBadDebounce
	}
	if cfg.ContextLines < 0 {
		return nil, ErrBadContext
	}

	return &cfg, nil
}

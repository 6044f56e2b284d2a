package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// HistoryFileName is the fixed name of the persisted draw history.
const HistoryFileName = "Sorteador_historico.json"

// Config holds application configuration.
type Config struct {
	// DocumentsDir holds the history file and default export location.
	// Empty means ~/Documents.
	DocumentsDir string `json:"documents_dir,omitempty"`

	// CategoryColumn is the column letter read as the optional item category.
	CategoryColumn string `json:"category_column,omitempty"`

	// DefaultQuantity is the draw size used when a command omits one.
	DefaultQuantity int `json:"default_quantity,omitempty"`

	// DefaultGroups is the group count used when a command omits one.
	DefaultGroups int `json:"default_groups,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// WebBind and WebPort configure the local web UI listener.
	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CategoryColumn:  "B",
		DefaultQuantity: 3,
		DefaultGroups:   2,
		LogLevel:        "info",
		WebBind:         "127.0.0.1",
		WebPort:         8437,
	}
}

// Documents returns the resolved documents directory.
func (c *Config) Documents() (string, error) {
	if c != nil && c.DocumentsDir != "" {
		return c.DocumentsDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Documents"), nil
}

// HistoryPath returns the fixed location of the history file.
func (c *Config) HistoryPath() (string, error) {
	dir, err := c.Documents()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, HistoryFileName), nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.sorteador.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.sorteador) and repo (.sorteador) directories.
// Repo config is found by walking upward from startDir to find the nearest .sorteador/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .sorteador/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".sorteador", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ApplyEnv overlays SORTEADOR_* environment variables onto cfg.
func ApplyEnv(cfg *Config) *Config {
	overlay := &Config{
		DocumentsDir:   strings.TrimSpace(os.Getenv("SORTEADOR_DOCUMENTS_DIR")),
		CategoryColumn: strings.TrimSpace(os.Getenv("SORTEADOR_CATEGORY_COLUMN")),
		LogLevel:       strings.TrimSpace(os.Getenv("SORTEADOR_LOG_LEVEL")),
	}
	return Merge(cfg, overlay)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		DocumentsDir:    pickString(overlay.DocumentsDir, base.DocumentsDir),
		CategoryColumn:  strings.ToUpper(pickString(overlay.CategoryColumn, base.CategoryColumn)),
		LogLevel:        pickString(overlay.LogLevel, base.LogLevel),
		WebBind:         pickString(overlay.WebBind, base.WebBind),
		DefaultQuantity: pickInt(overlay.DefaultQuantity, base.DefaultQuantity),
		DefaultGroups:   pickInt(overlay.DefaultGroups, base.DefaultGroups),
		WebPort:         pickInt(overlay.WebPort, base.WebPort),
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return strings.TrimSpace(overlay)
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

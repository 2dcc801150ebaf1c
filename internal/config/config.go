package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DirName is the project-local directory holding config, logs and sessions.
const DirName = ".gfm"

// Config represents the genomechat configuration
type Config struct {
	// Chat client
	APIBaseURL     string   `json:"api_base_url"`
	RequestTimeout Duration `json:"request_timeout"`

	// UI / logging
	Theme   string `json:"theme"`
	LogMode string `json:"log_mode"`

	// Gateway
	ListenAddr     string   `json:"listen_addr"`
	AllowedOrigins []string `json:"allowed_origins"`
	LLMBaseURL     string   `json:"llm_base_url"`
	LLMModel       string   `json:"llm_model"`
	LLMAPIKey      string   `json:"llm_api_key"`
	Temperature    float32  `json:"temperature"`
	MaxTokens      int      `json:"max_tokens"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     "http://localhost:8000",
		RequestTimeout: Duration(2 * time.Minute),
		Theme:          "gfm",
		LogMode:        "dev",
		ListenAddr:     ":8000",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"http://localhost:3000",
			"http://127.0.0.1:3000",
		},
		LLMModel:    "qwen3",
		Temperature: 0.7,
		MaxTokens:   2048,
	}
}

// Duration is a time.Duration stored as a Go duration string ("90s", "2m").
type Duration time.Duration

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts a duration string or a number of seconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := parseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("duration must be a string or number: %w", err)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid duration %q: must not be negative", s)
	}
	return d, nil
}

// Manager handles configuration loading and saving.
//
// The file keeps exactly what the user wrote ($VAR references included);
// the effective config adds environment expansion and overrides on top and
// is never written back.
type Manager struct {
	projectPath string
	configPath  string
	file        *Config
	config      *Config
}

// NewManager creates a new configuration manager
func NewManager(projectPath string) *Manager {
	return &Manager{
		projectPath: projectPath,
		configPath:  filepath.Join(projectPath, DirName, "config.json"),
		file:        DefaultConfig(),
		config:      DefaultConfig(),
	}
}

// Dir returns the project-local data directory.
func (m *Manager) Dir() string {
	return filepath.Dir(m.configPath)
}

// Load reads the configuration from disk, creating defaults if needed.
// Values from .env never replace variables already set in the process.
func (m *Manager) Load() error {
	if err := os.MkdirAll(m.Dir(), 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	if err := m.ensureGitignore(); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	if err := godotenv.Load(filepath.Join(m.projectPath, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	if _, err := os.Stat(m.configPath); errors.Is(err, os.ErrNotExist) {
		if err := m.Save(); err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(m.configPath)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		file := DefaultConfig()
		if err := json.Unmarshal(data, file); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
		m.file = file
	}

	effective := *m.file
	effective.AllowedOrigins = append([]string(nil), m.file.AllowedOrigins...)
	m.expandEnvVars(&effective)
	if err := applyEnvOverrides(&effective); err != nil {
		return err
	}
	m.config = &effective
	return nil
}

// Save writes the file configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the effective configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Set updates a configuration value and saves
func (m *Manager) Set(key, value string) error {
	for _, cfg := range []*Config{m.file, m.config} {
		if err := setField(cfg, key, value); err != nil {
			return err
		}
	}
	return m.Save()
}

func setField(cfg *Config, key, value string) error {
	switch key {
	case "api_base_url":
		cfg.APIBaseURL = value
	case "request_timeout":
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = Duration(d)
	case "theme":
		cfg.Theme = value
	case "log_mode":
		cfg.LogMode = value
	case "listen_addr":
		cfg.ListenAddr = value
	case "llm_base_url":
		cfg.LLMBaseURL = value
	case "llm_model":
		cfg.LLMModel = value
	case "llm_api_key":
		cfg.LLMAPIKey = value
	case "temperature":
		f, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("invalid temperature %q: %w", value, err)
		}
		cfg.Temperature = float32(f)
	case "max_tokens":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid max_tokens %q: %w", value, err)
		}
		cfg.MaxTokens = n
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file.
func applyEnvOverrides(cfg *Config) error {
	if v := firstEnv("GFM_API_BASE_URL", "VITE_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := firstEnv("GFM_REQUEST_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("GFM_REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = Duration(d)
	}
	if v := firstEnv("GFM_LOG_MODE"); v != "" {
		cfg.LogMode = v
	}
	if v := firstEnv("GFM_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := firstEnv("GFM_LLM_BASE_URL"); v != "" {
		cfg.LLMBaseURL = v
	}
	if v := firstEnv("GFM_LLM_MODEL"); v != "" {
		cfg.LLMModel = v
	}
	if v := firstEnv("GFM_LLM_API_KEY", "OPENAI_API_KEY"); v != "" {
		cfg.LLMAPIKey = v
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

// ensureGitignore creates a .gitignore in .gfm/ with smart defaults
func (m *Manager) ensureGitignore() error {
	gitignorePath := filepath.Join(m.Dir(), ".gitignore")

	if _, err := os.Stat(gitignorePath); !errors.Is(err, os.ErrNotExist) {
		return nil // Already exists
	}

	gitignoreContent := `# genomechat data directory
#
# Config is committed; logs and saved chat sessions are not.

*.log
*.tmp
sessions/

!config.json
!.gitignore
`

	return os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644)
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variables in config values
func (m *Manager) expandEnvVars(cfg *Config) {
	cfg.APIBaseURL = expandString(cfg.APIBaseURL)
	cfg.ListenAddr = expandString(cfg.ListenAddr)
	cfg.LLMBaseURL = expandString(cfg.LLMBaseURL)
	cfg.LLMModel = expandString(cfg.LLMModel)
	cfg.LLMAPIKey = expandString(cfg.LLMAPIKey)
	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = expandString(o)
	}
}

// expandString expands environment variables in a string.
// Supports $VAR and ${VAR} syntax; unknown variables are left as written.
func expandString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}

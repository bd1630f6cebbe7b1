package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docqa/internal/domain"
)

// Config holds the docqa service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Cache     CacheConfig     `yaml:"cache"`
	Chat      ChatConfig      `yaml:"chat"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// KnowledgeConfig describes the document directory and how it is read.
type KnowledgeConfig struct {
	Directory        string   `yaml:"directory"`
	Extensions       []string `yaml:"extensions"`
	MaxFileSizeBytes int64    `yaml:"max_file_size_bytes"`
	PDFTimeoutSec    int      `yaml:"pdf_timeout_sec"`
	Concurrency      int      `yaml:"concurrency"`
	TopicsFile       string   `yaml:"topics_file"` // empty = built-in catalog
	Stemming         bool     `yaml:"stemming"`
}

// RetrievalConfig holds result-count limits.
type RetrievalConfig struct {
	DefaultMaxResults int `yaml:"default_max_results"`
	MaxResultsLimit   int `yaml:"max_results_limit"`
}

// Cache drivers.
const (
	CacheNone    = "none"
	CacheMemory  = "memory"
	CacheRedis   = "redis"
	CacheValkey  = "valkey"
	CacheLevelDB = "leveldb"
)

// CacheConfig selects the extracted-content cache backend.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // none (default), memory, redis, valkey, leveldb
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Persistent reports whether the driver keeps data across restarts.
func (c CacheConfig) Persistent() bool {
	switch c.Driver {
	case CacheRedis, CacheValkey, CacheLevelDB:
		return true
	}
	return false
}

// ChatConfig holds chat provider settings.
type ChatConfig struct {
	Provider      string       `yaml:"provider"`
	BaseURL       string       `yaml:"base_url"`
	APIKey        string       `yaml:"api_key"`
	Model         string       `yaml:"model"`
	HistoryLimit  int          `yaml:"history_limit"`
	MaxToolRounds int          `yaml:"max_tool_rounds"`
	SystemPrompt  string       `yaml:"system_prompt"` // empty = built-in onboarding prompt
	Budget        BudgetConfig `yaml:"budget"`
}

// Enabled reports whether a chat provider is configured.
func (c ChatConfig) Enabled() bool {
	return c.APIKey != ""
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document, substituting ${VAR} references, then applies
// defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	def := domain.DefaultKnowledge()

	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Knowledge.Directory == "" {
		c.Knowledge.Directory = "./uploads"
	}
	if len(c.Knowledge.Extensions) == 0 {
		c.Knowledge.Extensions = def.Extensions
	}
	if c.Knowledge.MaxFileSizeBytes <= 0 {
		c.Knowledge.MaxFileSizeBytes = def.MaxFileSize
	}
	if c.Knowledge.PDFTimeoutSec <= 0 {
		c.Knowledge.PDFTimeoutSec = def.PDFTimeoutSec
	}
	if c.Knowledge.Concurrency <= 0 {
		c.Knowledge.Concurrency = def.Concurrency
	}
	if c.Retrieval.DefaultMaxResults == 0 {
		c.Retrieval.DefaultMaxResults = def.DefaultResults
	}
	if c.Retrieval.MaxResultsLimit == 0 {
		c.Retrieval.MaxResultsLimit = def.MaxResults
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheNone
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 24 * 60 * 60
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Chat.Provider == "" {
		c.Chat.Provider = "gemini"
	}
	if c.Chat.Model == "" {
		c.Chat.Model = "gemini-2.0-flash"
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 10
	}
	if c.Chat.MaxToolRounds <= 0 {
		c.Chat.MaxToolRounds = 4
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Cache.Driver {
	case CacheNone, CacheMemory:
	case CacheRedis, CacheValkey:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	case CacheLevelDB:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be one of none, memory, redis, valkey, leveldb, got %q", c.Cache.Driver)
	}

	if c.Retrieval.MaxResultsLimit < 1 {
		return fmt.Errorf("retrieval.max_results_limit must be positive, got %d", c.Retrieval.MaxResultsLimit)
	}
	if c.Retrieval.DefaultMaxResults < 1 || c.Retrieval.DefaultMaxResults > c.Retrieval.MaxResultsLimit {
		return fmt.Errorf(
			"retrieval.default_max_results must be between 1 and %d, got %d",
			c.Retrieval.MaxResultsLimit, c.Retrieval.DefaultMaxResults,
		)
	}

	switch c.Chat.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf("chat.budget.action must be \"warn\" or \"reject\", got %q", c.Chat.Budget.Action)
	}
	if c.Chat.Budget.DailyTokenLimit < 0 || c.Chat.Budget.MonthlyTokenLimit < 0 {
		return fmt.Errorf("chat.budget token limits must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

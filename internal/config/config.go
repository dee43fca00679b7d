package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Job store drivers.
const (
	JobsDriverMemory = "memory"
	JobsDriverRedis  = "redis"
)

// Config holds the leadex API configuration.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Redis         RedisConfig         `yaml:"redis"`
	Jobs          JobsConfig          `yaml:"jobs"`
	Search        SearchConfig        `yaml:"search"`
	Export        ExportConfig        `yaml:"export"`
	Auth          AuthConfig          `yaml:"auth"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`    // debug, info, warn, error (default: determined by env)
	Encoding string `yaml:"encoding"` // json, console (default: determined by env)
}

// AuthConfig holds API authentication settings. Both lists empty disables auth.
type AuthConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	AdminKeys []string `yaml:"admin_keys"`
}

// Enabled reports whether any key is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || len(a.AdminKeys) > 0
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// ElasticsearchConfig holds search engine connection and index settings.
type ElasticsearchConfig struct {
	Addrs           []string `yaml:"addrs"`
	Username        string   `yaml:"username"`
	Password        string   `yaml:"password"`
	APIKey          string   `yaml:"api_key"`
	Index           string   `yaml:"index"`
	FallbackIndices []string `yaml:"fallback_indices"`
}

// RedisConfig holds the optional Redis connection used by the job store.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// JobsConfig selects where export job records live.
type JobsConfig struct {
	Driver   string `yaml:"driver"` // memory, redis (default: memory)
	TTLHours int    `yaml:"ttl_hours"`
}

// TTL returns the record lifetime for the Redis store.
func (j JobsConfig) TTL() time.Duration {
	return time.Duration(j.TTLHours) * time.Hour
}

// SearchConfig holds pagination and mapping cache settings.
type SearchConfig struct {
	DefaultPageSize    int `yaml:"default_page_size"`
	MaxPageSize        int `yaml:"max_page_size"`
	MappingCacheTTLSec int `yaml:"mapping_cache_ttl_sec"` // 0 disables the cache
	MappingCacheSize   int `yaml:"mapping_cache_size"`
}

// ExportConfig holds background export settings.
type ExportConfig struct {
	Dir                string        `yaml:"dir"`
	BatchSize          int           `yaml:"batch_size"`
	ScrollKeepAliveSec int           `yaml:"scroll_keep_alive_sec"`
	MaxConcurrent      int           `yaml:"max_concurrent"`
	MaxBatchesPerSec   float64       `yaml:"max_batches_per_sec"` // 0 = unlimited
	Archive            ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig holds the S3-compatible bucket finished exports are copied to.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Secure    bool   `yaml:"secure"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
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
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = "leads"
	}
	if c.Redis.ReadinessTimeout <= 0 {
		c.Redis.ReadinessTimeout = 10
	}
	if c.Jobs.Driver == "" {
		c.Jobs.Driver = JobsDriverMemory
	}
	if c.Jobs.TTLHours <= 0 {
		c.Jobs.TTLHours = 72
	}
	if c.Search.DefaultPageSize <= 0 {
		c.Search.DefaultPageSize = 25
	}
	if c.Search.MaxPageSize <= 0 {
		c.Search.MaxPageSize = 200
	}
	if c.Search.MappingCacheSize <= 0 {
		c.Search.MappingCacheSize = 64
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "./exports"
	}
	if c.Export.BatchSize <= 0 {
		c.Export.BatchSize = 1000
	}
	if c.Export.ScrollKeepAliveSec <= 0 {
		c.Export.ScrollKeepAliveSec = 120
	}
	if c.Export.MaxConcurrent <= 0 {
		c.Export.MaxConcurrent = 2
	}
	if c.Export.Archive.Region == "" {
		c.Export.Archive.Region = "us-east-1"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Elasticsearch.Addrs) == 0 {
		return fmt.Errorf("elasticsearch.addrs is required")
	}
	switch c.Jobs.Driver {
	case JobsDriverMemory:
	case JobsDriverRedis:
		if len(c.Redis.Addrs) == 0 {
			return fmt.Errorf("redis.addrs is required when jobs.driver is %q", JobsDriverRedis)
		}
	default:
		return fmt.Errorf("jobs.driver must be %q or %q, got %q", JobsDriverMemory, JobsDriverRedis, c.Jobs.Driver)
	}
	if c.Search.DefaultPageSize > c.Search.MaxPageSize {
		return fmt.Errorf(
			"search.default_page_size (%d) must not exceed search.max_page_size (%d)",
			c.Search.DefaultPageSize, c.Search.MaxPageSize,
		)
	}
	if c.Export.MaxBatchesPerSec < 0 {
		return fmt.Errorf("export.max_batches_per_sec must not be negative, got %v", c.Export.MaxBatchesPerSec)
	}
	switch c.Logging.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("logging.encoding must be json or console, got %q", c.Logging.Encoding)
	}
	if a := c.Export.Archive; a.Enabled && (a.Endpoint == "" || a.Bucket == "") {
		return fmt.Errorf("export.archive.endpoint and export.archive.bucket are required when archive is enabled")
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

	// 3. Fallback to ./config/
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

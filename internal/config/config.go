package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Search  SearchConfig  `yaml:"search" envconfig:"SEARCH"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/namescan.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExcelDir   string `yaml:"excel_dir" envconfig:"EXCEL_DIR" default:"excel_output"`
	ResultsDir string `yaml:"results_dir" envconfig:"RESULTS_DIR" default:"results"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// SearchConfig contains search engine tuning
type SearchConfig struct {
	// Workers controls how many workbooks are scanned at once.
	// 1 preserves the strictly sequential reference behavior.
	Workers int `yaml:"workers" envconfig:"WORKERS" default:"1"`
	// TokenRowIndicator switches the row indicator from the adjusted row
	// number to the leading token of the matched cell.
	TokenRowIndicator bool `yaml:"token_row_indicator" envconfig:"TOKEN_ROW_INDICATOR" default:"false"`
}

// Load loads configuration from an optional YAML file and environment
// variables. Environment variables take precedence over the file.
func Load() (*Config, error) {
	cfg, err := loadFromFileIfPresent(configFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := envconfig.Process("NAMESCAN", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFileIfPresent reads the YAML config file when it exists.
func loadFromFileIfPresent(filePath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(filePath)
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", filePath, err)
	}
	return &cfg, nil
}

// applyDefaults fills fields that neither the file nor the environment set.
// envconfig only applies struct defaults to fields with no file value, so
// the zero checks here cover the file-then-env merge order.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = 100
	}
	if cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = 50
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "logs/namescan.log"
	}
	if cfg.Paths.ExcelDir == "" {
		cfg.Paths.ExcelDir = "excel_output"
	}
	if cfg.Paths.ResultsDir == "" {
		cfg.Paths.ResultsDir = "results"
	}
	if cfg.Paths.LogsDir == "" {
		cfg.Paths.LogsDir = "logs"
	}
	if cfg.Search.Workers == 0 {
		cfg.Search.Workers = 1
	}
}

// configFilePath returns the config file location, overridable via env.
func configFilePath() string {
	if p := os.Getenv("NAMESCAN_CONFIG"); p != "" {
		return p
	}
	return "namescan.yaml"
}

func (c *Config) validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search workers must be >= 1, got %d", c.Search.Workers)
	}
	if c.Paths.ExcelDir == "" {
		return fmt.Errorf("excel directory must not be empty")
	}
	return nil
}

// EnsureDirectories creates the results and logs directories if missing.
// The Excel directory is deliberately left alone: a missing input folder
// is an error the user must see, not an empty folder we silently scan.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ResultsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the path for a report file inside the results directory.
func (c *Config) ReportPath(filename string) string {
	return filepath.Join(c.Paths.ResultsDir, filename)
}

// LogPath returns the path for a log file inside the logs directory.
func (c *Config) LogPath(filename string) string {
	return filepath.Join(c.Paths.LogsDir, filename)
}

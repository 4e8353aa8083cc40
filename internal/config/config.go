package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "leanixcli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE" default:"data/sample_leanix_data.xlsx"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"reports"`
	ChartsDir  string `yaml:"charts_dir" envconfig:"CHARTS_DIR" default:"charts"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// AnalysisConfig contains thresholds for the aggregators. Defaults match the
// cutoffs the reports were originally published with.
type AnalysisConfig struct {
	LowSecurityCutoff      float64 `yaml:"low_security_cutoff" envconfig:"LOW_SECURITY_CUTOFF" default:"80"`
	HighVulnerabilityCount int64   `yaml:"high_vulnerability_count" envconfig:"HIGH_VULNERABILITY_COUNT" default:"5"`
	LowPerformanceCutoff   float64 `yaml:"low_performance_cutoff" envconfig:"LOW_PERFORMANCE_CUTOFF" default:"70"`
	LowAvailabilityCutoff  float64 `yaml:"low_availability_cutoff" envconfig:"LOW_AVAILABILITY_CUTOFF" default:"99"`
	TopExpensiveCount      int     `yaml:"top_expensive_count" envconfig:"TOP_EXPENSIVE_COUNT" default:"5"`
	HistogramBins          int     `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"8"`
}

// Load loads configuration from environment variables and an optional
// config file. Environment variables take precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using the given YAML file path.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("LEANIX", &cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, apperrors.NewConfigError("failed to load config from file", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, apperrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config over the env-derived config. A file value
// wins over an envconfig default, but never over an env var that was
// explicitly set. File zero values mean "absent" and keep the default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Server.Port != 0 && !envSet("SERVER_PORT") {
		merged.Server.Port = fileConfig.Server.Port
	}
	if fileConfig.Server.ReadTimeout != 0 && !envSet("SERVER_READ_TIMEOUT") {
		merged.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !envSet("SERVER_WRITE_TIMEOUT") {
		merged.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.IdleTimeout != 0 && !envSet("SERVER_IDLE_TIMEOUT") {
		merged.Server.IdleTimeout = fileConfig.Server.IdleTimeout
	}
	if fileConfig.Server.ShutdownTimeout != 0 && !envSet("SERVER_SHUTDOWN_TIMEOUT") {
		merged.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}
	if fileConfig.Security.RateLimit.RPS != 0 && !envSet("SECURITY_RATE_LIMIT_RPS") {
		merged.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if fileConfig.Security.RateLimit.Burst != 0 && !envSet("SECURITY_RATE_LIMIT_BURST") {
		merged.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}
	if fileConfig.Logging.Level != "" && !envSet("LOGGING_LEVEL") {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && !envSet("LOGGING_FORMAT") {
		merged.Logging.Format = fileConfig.Logging.Format
	}
	if fileConfig.Logging.Output != "" && !envSet("LOGGING_OUTPUT") {
		merged.Logging.Output = fileConfig.Logging.Output
	}
	if fileConfig.Logging.FilePath != "" && !envSet("LOGGING_FILE_PATH") {
		merged.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if fileConfig.Paths.InputFile != "" && !envSet("PATHS_INPUT_FILE") {
		merged.Paths.InputFile = fileConfig.Paths.InputFile
	}
	if fileConfig.Paths.ReportsDir != "" && !envSet("PATHS_REPORTS_DIR") {
		merged.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if fileConfig.Paths.ChartsDir != "" && !envSet("PATHS_CHARTS_DIR") {
		merged.Paths.ChartsDir = fileConfig.Paths.ChartsDir
	}
	if fileConfig.Paths.LogsDir != "" && !envSet("PATHS_LOGS_DIR") {
		merged.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if fileConfig.Analysis.LowSecurityCutoff != 0 && !envSet("ANALYSIS_LOW_SECURITY_CUTOFF") {
		merged.Analysis.LowSecurityCutoff = fileConfig.Analysis.LowSecurityCutoff
	}
	if fileConfig.Analysis.HighVulnerabilityCount != 0 && !envSet("ANALYSIS_HIGH_VULNERABILITY_COUNT") {
		merged.Analysis.HighVulnerabilityCount = fileConfig.Analysis.HighVulnerabilityCount
	}
	if fileConfig.Analysis.LowPerformanceCutoff != 0 && !envSet("ANALYSIS_LOW_PERFORMANCE_CUTOFF") {
		merged.Analysis.LowPerformanceCutoff = fileConfig.Analysis.LowPerformanceCutoff
	}
	if fileConfig.Analysis.LowAvailabilityCutoff != 0 && !envSet("ANALYSIS_LOW_AVAILABILITY_CUTOFF") {
		merged.Analysis.LowAvailabilityCutoff = fileConfig.Analysis.LowAvailabilityCutoff
	}
	if fileConfig.Analysis.TopExpensiveCount != 0 && !envSet("ANALYSIS_TOP_EXPENSIVE_COUNT") {
		merged.Analysis.TopExpensiveCount = fileConfig.Analysis.TopExpensiveCount
	}
	if fileConfig.Analysis.HistogramBins != 0 && !envSet("ANALYSIS_HISTOGRAM_BINS") {
		merged.Analysis.HistogramBins = fileConfig.Analysis.HistogramBins
	}

	return merged
}

// envSet reports whether the env var for the given key suffix was explicitly
// set, as opposed to the value coming from an envconfig default tag.
func envSet(suffix string) bool {
	_, ok := os.LookupEnv("LEANIX_" + suffix)
	return ok
}

// validate checks configuration invariants
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Analysis.LowSecurityCutoff < 0 || c.Analysis.LowSecurityCutoff > 100 {
		return fmt.Errorf("invalid low security cutoff: %f", c.Analysis.LowSecurityCutoff)
	}
	if c.Analysis.LowPerformanceCutoff < 0 || c.Analysis.LowPerformanceCutoff > 100 {
		return fmt.Errorf("invalid low performance cutoff: %f", c.Analysis.LowPerformanceCutoff)
	}
	if c.Analysis.HistogramBins < 1 {
		return fmt.Errorf("invalid histogram bins: %d", c.Analysis.HistogramBins)
	}
	if c.Analysis.TopExpensiveCount < 1 {
		return fmt.Errorf("invalid top expensive count: %d", c.Analysis.TopExpensiveCount)
	}
	return nil
}

// EnsureDirectories creates the output directories used by reporters and the
// visualizer.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ReportsDir, c.Paths.ChartsDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the path of a report artifact inside the reports dir.
func (c *Config) ReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("LEANIX_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

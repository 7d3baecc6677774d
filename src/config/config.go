package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"stock-board/src/helpers"
	"stock-board/src/models"
)

// Environment overrides
const (
	EnvConfigPath   = "STOCKBOARD_CONFIG"
	EnvPort         = "STOCKBOARD_PORT"
	EnvLogLevel     = "STOCKBOARD_LOG_LEVEL"
	EnvDBConnection = "STOCKBOARD_DB_CONNECTION"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// LoadEnv reads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load(".env")
}

// ResolvePath picks the config path: the flag value, then the
// STOCKBOARD_CONFIG variable, then fallback.
func ResolvePath(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	return fallback
}

// -----------------------------------------------------------------------------

// NewConfig creates a Config from a YAML file. Defaults fill zero values,
// environment variables override the file, and relative paths resolve
// against the file's directory.
func NewConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, helpers.NewConfigurationError(fmt.Sprintf("failed to read config file '%s'", configPath), err)
	}

	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, helpers.NewConfigurationError("failed to parse config from YAML", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.Name == "" {
		c.Name = "stock-board"
	}
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8000
	}
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}
	if c.Storage.DBType == "" {
		c.Storage.DBType = "file"
	}
	if c.Storage.DBType == "file" && c.Storage.DataDir == "" {
		c.Storage.DataDir = "user_data"
	}

	l := &c.Limits
	if l.TopN <= 0 {
		l.TopN = 300
	}
	if l.FrequentLimit <= 0 {
		l.FrequentLimit = 100
	}
	if l.SearchLimit <= 0 {
		l.SearchLimit = 50
	}
	if l.VisitorRatePerSecond <= 0 {
		l.VisitorRatePerSecond = 10
	}
	if l.VisitorBurst <= 0 {
		l.VisitorBurst = 20
	}
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return helpers.NewConfigurationError(fmt.Sprintf("invalid %s %q", EnvPort, v), err)
		}
		c.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDBConnection); v != "" {
		c.Storage.DBConnectionString = v
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) resolvePaths(baseDir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
	resolve(&c.Markets.KR.DataFile)
	resolve(&c.Markets.US.DataFile)
	resolve(&c.Storage.DataDir)
	resolve(&c.FrontendDir)
	if c.Storage.DBType == "sqlite" {
		resolve(&c.Storage.DBPath)
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return helpers.NewValidationError("application name cannot be empty")
	}

	if c.Host == "" {
		return helpers.NewValidationError("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return helpers.NewValidationError(fmt.Sprintf("invalid server port number: %d (must be between 1025 and 65535)", c.Port))
	}
	// gRPC port 0 disables the control server
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return helpers.NewValidationError(fmt.Sprintf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort))
	}
	if c.GrpcPort != 0 && c.GrpcPort == c.Port && c.GrpcHost == c.Host {
		return helpers.NewValidationError(fmt.Sprintf("grpc port %d collides with the http port", c.GrpcPort))
	}

	switch c.Storage.DBType {
	case "file":
		if c.Storage.DataDir == "" {
			return helpers.NewValidationError("data dir cannot be empty for the file store")
		}
	case "sqlite":
		if c.Storage.DBPath == "" {
			return helpers.NewValidationError("database path cannot be empty for sqlite")
		}
	case "postgres":
		if c.Storage.DBConnectionString == "" {
			return helpers.NewValidationError("connection string cannot be empty for postgres")
		}
	default:
		return helpers.NewValidationError(fmt.Sprintf("unknown database type %q", c.Storage.DBType))
	}

	if c.Markets.KR.DataFile == "" && c.Markets.US.DataFile == "" {
		return helpers.NewValidationError("at least one market data file must be configured")
	}

	if c.Limits.TopN <= 0 || c.Limits.FrequentLimit <= 0 || c.Limits.SearchLimit <= 0 {
		return helpers.NewValidationError("limits must be greater than 0")
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}

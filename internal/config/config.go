package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Port             int      `yaml:"port"`
	DataFile         string   `yaml:"data_file"`
	StoreFailOpen    bool     `yaml:"store_fail_open"`
	BackupAPIEnabled bool     `yaml:"backup_api_enabled"`
	BackupPath       string   `yaml:"backup_path"`
	BackupSchedule   string   `yaml:"backup_schedule"`
	BackupRetain     int      `yaml:"backup_retain"`
	StaticDir        string   `yaml:"static_dir"`
	BodyLimitBytes   int64    `yaml:"body_limit_bytes"`
	CORSOrigins      []string `yaml:"cors_origins"`
	LogLevel         string   `yaml:"log_level"`
	LogFile          string   `yaml:"log_file"`
	AppEnv           string   `yaml:"app_env"`
	SnowflakeNode    int64    `yaml:"snowflake_node"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:           3000,
		DataFile:       "./data/db.json",
		BackupPath:     "./backups",
		BackupSchedule: "0 3 * * *",
		BackupRetain:   7,
		StaticDir:      "./public",
		BodyLimitBytes: 10 << 20,
		CORSOrigins:    []string{"*"},
		LogLevel:       "info",
		AppEnv:         "development",
		SnowflakeNode:  1,
	}
}

// Load builds the configuration from defaults, the optional CONFIG_FILE and
// environment variables, in that order.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the app runs outside development.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) loadFromEnv() error {
	var err error
	if c.Port, err = getEnvInt("PORT", c.Port); err != nil {
		return err
	}
	if c.BackupRetain, err = getEnvInt("BACKUP_RETAIN", c.BackupRetain); err != nil {
		return err
	}

	limit, err := getEnvInt("BODY_LIMIT_BYTES", int(c.BodyLimitBytes))
	if err != nil {
		return err
	}
	c.BodyLimitBytes = int64(limit)

	node, err := getEnvInt("SNOWFLAKE_NODE", int(c.SnowflakeNode))
	if err != nil {
		return err
	}
	c.SnowflakeNode = int64(node)

	if c.StoreFailOpen, err = getEnvBool("STORE_FAIL_OPEN", c.StoreFailOpen); err != nil {
		return err
	}
	if c.BackupAPIEnabled, err = getEnvBool("BACKUP_API_ENABLED", c.BackupAPIEnabled); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = splitList(v)
	}

	c.DataFile = getEnv("DATA_FILE", c.DataFile)
	c.BackupPath = getEnv("BACKUP_PATH", c.BackupPath)
	c.BackupSchedule = getEnv("BACKUP_SCHEDULE", c.BackupSchedule)
	c.StaticDir = getEnv("STATIC_DIR", c.StaticDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.BodyLimitBytes <= 0 {
		return fmt.Errorf("invalid BODY_LIMIT_BYTES %d", c.BodyLimitBytes)
	}
	if c.BackupRetain < 0 {
		return fmt.Errorf("invalid BACKUP_RETAIN %d", c.BackupRetain)
	}
	if c.DataFile == "" {
		return fmt.Errorf("DATA_FILE must not be empty")
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

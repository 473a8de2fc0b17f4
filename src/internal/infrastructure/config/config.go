// Package config 載入服務設定：YAML 檔案，再以環境變數覆寫。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服務設定
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig HTTP 服務設定
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	Region          string        `yaml:"region"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	Serializable bool   `yaml:"serializable"`
}

// AuthConfig 憑證設定
type AuthConfig struct {
	SigningKey string        `yaml:"signing_key"`
	Issuer     string        `yaml:"issuer"`
	Audience   string        `yaml:"audience"`
	TokenTTL   time.Duration `yaml:"token_ttl"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default 預設設定
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Region:          "us-central1",
			AllowedOrigins:  []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       "sqlite",
			MaxOpenConns: 10,
		},
		Auth: AuthConfig{
			Issuer:   "point-grant",
			TokenTTL: time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load 讀取設定
//
// path 為空時只使用預設值與環境變數；path 指定的檔案不存在視為錯誤。
func Load(path string) (*Config, error) {
	cfg := Default()

	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 檢查必要欄位
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return errors.New("config: auth.signing_key is required (or set GRANT_SIGNING_KEY)")
	}
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "postgres", "postgresql":
	default:
		return fmt.Errorf("config: unsupported database driver %q", c.Database.Driver)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("config: server.shutdown_timeout must be positive")
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if port := envString("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
	if addr := envString("GRANT_HTTP_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if region := envString("FUNCTIONS_REGION"); region != "" {
		cfg.Server.Region = region
	}
	if origins := envList("GRANT_ALLOWED_ORIGINS"); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}

	if driver := envString("GRANT_DATABASE_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if dsn := envString("GRANT_DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if raw := envString("GRANT_DATABASE_MAX_OPEN_CONNS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("config: GRANT_DATABASE_MAX_OPEN_CONNS: %w", err)
		}
		cfg.Database.MaxOpenConns = n
	}
	cfg.Database.Serializable = envBool("GRANT_DATABASE_SERIALIZABLE", cfg.Database.Serializable)

	if key := envString("GRANT_SIGNING_KEY"); key != "" {
		cfg.Auth.SigningKey = key
	}
	if issuer := envString("GRANT_TOKEN_ISSUER"); issuer != "" {
		cfg.Auth.Issuer = issuer
	}
	if audience := envString("GRANT_TOKEN_AUDIENCE"); audience != "" {
		cfg.Auth.Audience = audience
	}

	if level := envString("GRANT_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := envString("GRANT_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	return nil
}

func envString(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}

func envList(name string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			values = append(values, value)
		}
	}
	return values
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

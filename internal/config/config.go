package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageFile  = "file"
	StorageRedis = "redis"
	StorageSQL   = "sql"
)

// DefaultTokenKey is the single canonical key the session token is stored under
const DefaultTokenKey = "admin_token"

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	// Timeout of zero keeps the HTTP client default
	Timeout string `yaml:"timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Key    string `yaml:"key"`
	Dir    string `yaml:"dir"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CasbinConfig struct {
	ModelPath string `yaml:"model_path"`
	Persist   bool   `yaml:"persist"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ConfigFile struct {
	App      AppConfig      `yaml:"app"`
	Backend  BackendConfig  `yaml:"backend"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Casbin   CasbinConfig   `yaml:"casbin"`
	Log      LogConfig      `yaml:"log"`
}

type Config struct {
	Port            string
	GinMode         string
	BackendURL      string
	BackendTimeout  time.Duration
	StorageDriver   string
	TokenKey        string
	StorageDir      string
	DBDriver        string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisPrefix     string
	CasbinModelPath string
	CasbinPersist   bool
	LogLevel        slog.Level
	LogFormat       string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// Load reads .env (if present), then the YAML file, then applies ADMINCONSOLE_* overrides
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFile(env("ADMINCONSOLE_CONFIG", "config/config.yml"))
}

// LoadFile builds a Config from one YAML file plus environment overrides
func LoadFile(path string) (*Config, error) {
	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	var timeout time.Duration
	if configFile.Backend.Timeout != "" {
		timeout, err = time.ParseDuration(configFile.Backend.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid backend timeout: %w", err)
		}
	}

	port := configFile.App.Port
	if port == 0 {
		port = 8080
	}

	cfg := &Config{
		Port:            env("ADMINCONSOLE_PORT", strconv.Itoa(port)),
		GinMode:         env("GIN_MODE", configFile.App.GinMode),
		BackendURL:      strings.TrimRight(env("ADMINCONSOLE_BACKEND_URL", configFile.Backend.BaseURL), "/"),
		BackendTimeout:  timeout,
		StorageDriver:   env("ADMINCONSOLE_STORAGE_DRIVER", defaultString(configFile.Storage.Driver, StorageFile)),
		TokenKey:        defaultString(configFile.Storage.Key, DefaultTokenKey),
		StorageDir:      env("ADMINCONSOLE_STORAGE_DIR", configFile.Storage.Dir),
		DBDriver:        defaultString(configFile.Database.Driver, "postgres"),
		DSN:             env("ADMINCONSOLE_DSN", configFile.Database.DSN),
		RedisAddr:       env("ADMINCONSOLE_REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword:   env("ADMINCONSOLE_REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:         configFile.Redis.DB,
		RedisPrefix:     defaultString(configFile.Redis.Prefix, "adminconsole:"),
		CasbinModelPath: configFile.Casbin.ModelPath,
		CasbinPersist:   configFile.Casbin.Persist,
		LogLevel:        parseLevel(env("ADMINCONSOLE_LOG_LEVEL", configFile.Log.Level)),
		LogFormat:       defaultString(configFile.Log.Format, "text"),
	}

	if cfg.StorageDir == "" {
		cfg.StorageDir = defaultStorageDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the console cannot run with
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("backend.base_url is required")
	}
	switch c.StorageDriver {
	case StorageFile:
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("redis.addr is required for the redis storage driver")
		}
	case StorageSQL:
		if c.DSN == "" {
			return errors.New("database.dsn is required for the sql storage driver")
		}
		if c.DBDriver != "postgres" && c.DBDriver != "sqlite" {
			return fmt.Errorf("unsupported database driver: %s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}
	if c.CasbinPersist && c.DSN == "" {
		return errors.New("casbin.persist requires database.dsn")
	}
	return nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".adminconsole"
	}
	return filepath.Join(dir, "adminconsole")
}

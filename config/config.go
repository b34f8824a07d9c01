package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Default pagination applied when a list request omits page or length,
// or sends a value that is not a positive integer.
const (
	DefaultPage   = 1
	DefaultLength = 10
)

// DefaultMaxLength caps the page length a client can request.
const DefaultMaxLength = 100

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logger     LoggerConfig     `mapstructure:"logger"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Pagination PaginationConfig `mapstructure:"pagination"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	Debug    bool   `mapstructure:"debug"`
}

// ConnString returns the DSN, building a postgres one from the
// individual fields when no explicit DSN is configured.
func (c DatabaseConfig) ConnString() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type LoggerConfig struct {
	Mode string `mapstructure:"mode"`
	File string `mapstructure:"file"`
}

type AuthConfig struct {
	Secret        string        `mapstructure:"secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	AdminEmail    string        `mapstructure:"admin_email"`
	AdminPassword string        `mapstructure:"admin_password"`
	SweepSchedule string        `mapstructure:"sweep_schedule"`
}

type StorageConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

type PaginationConfig struct {
	Page      int `mapstructure:"page"`
	Length    int `mapstructure:"length"`
	MaxLength int `mapstructure:"max_length"`
}

// DefaultPagination is the pagination used when nothing is configured.
func DefaultPagination() PaginationConfig {
	return PaginationConfig{Page: DefaultPage, Length: DefaultLength, MaxLength: DefaultMaxLength}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.debug", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "gamestore")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.file", "")

	v.SetDefault("auth.secret", "change-me")
	v.SetDefault("auth.token_ttl", 14*24*time.Hour)
	v.SetDefault("auth.sweep_schedule", "@hourly")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("storage.dir", "uploads")
	v.SetDefault("storage.base_url", "http://localhost:8080")

	v.SetDefault("pagination.page", DefaultPage)
	v.SetDefault("pagination.length", DefaultLength)
	v.SetDefault("pagination.max_length", DefaultMaxLength)
}

// Load reads .env (if any), an optional config.yaml from path and the
// environment. DATABASE_DRIVER overrides database.driver and so on.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if cfg.Pagination.Page <= 0 {
		cfg.Pagination.Page = DefaultPage
	}
	if cfg.Pagination.MaxLength <= 0 {
		cfg.Pagination.MaxLength = DefaultMaxLength
	}
	if cfg.Pagination.Length <= 0 {
		cfg.Pagination.Length = DefaultLength
	}
	if cfg.Pagination.Length > cfg.Pagination.MaxLength {
		cfg.Pagination.Length = cfg.Pagination.MaxLength
	}

	return &cfg, nil
}

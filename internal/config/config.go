// Package config loads the service configuration once at startup.
// Values come from configs/config.yml and may be overridden by ALGOREF_* env vars.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "ALGOREF"

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	HTTP HTTPConfig
	Log  LogConfig
	DB   DBConfig
	Auth AuthConfig
	CORS CORSConfig
	Seed SeedConfig
}

type HTTPConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

type LogConfig struct {
	Level    string
	Encoding string // console | json
}

type DBConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type AuthConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	LoginRatePerMin int
	LoginBurst      int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
	ContentDir    string
}

// setDefaults mirrors configs/config.yml so the service boots without a file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8000")
	v.SetDefault("http.read_header_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 10*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	v.SetDefault("db.driver", DriverSQLite)
	v.SetDefault("db.dsn", "algoref.db")
	v.SetDefault("db.max_open_conns", 5)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", time.Hour)
	v.SetDefault("db.query_timeout", 5*time.Second)

	v.SetDefault("auth.access_ttl", 15*time.Minute)
	v.SetDefault("auth.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("auth.login_rate_per_min", 10)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("seed.admin_email", "admin@algoref.com")
	v.SetDefault("seed.content_dir", "content-generator/generated")
}

// Load reads config.yml from dir (missing file is fine) and applies env overrides.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:              v.GetString("http.port"),
			ReadHeaderTimeout: v.GetDuration("http.read_header_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
		},
		Log: LogConfig{
			Level:    v.GetString("log.level"),
			Encoding: v.GetString("log.encoding"),
		},
		DB: DBConfig{
			Driver:          strings.ToLower(strings.TrimSpace(v.GetString("db.driver"))),
			DSN:             v.GetString("db.dsn"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
			QueryTimeout:    v.GetDuration("db.query_timeout"),
		},
		Auth: AuthConfig{
			AccessSecret:    v.GetString("auth.access_secret"),
			RefreshSecret:   v.GetString("auth.refresh_secret"),
			AccessTTL:       v.GetDuration("auth.access_ttl"),
			RefreshTTL:      v.GetDuration("auth.refresh_ttl"),
			LoginRatePerMin: v.GetInt("auth.login_rate_per_min"),
			LoginBurst:      v.GetInt("auth.login_burst"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		},
		Seed: SeedConfig{
			AdminEmail:    v.GetString("seed.admin_email"),
			AdminPassword: v.GetString("seed.admin_password"),
			ContentDir:    v.GetString("seed.content_dir"),
		},
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	switch c.DB.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db.dsn is required")
	}
	if c.DB.QueryTimeout <= 0 {
		return errors.New("db.query_timeout must be positive")
	}
	if c.Auth.AccessSecret == "" || c.Auth.RefreshSecret == "" {
		return errors.New("auth.access_secret and auth.refresh_secret are required")
	}
	if c.Auth.AccessSecret == c.Auth.RefreshSecret {
		return errors.New("auth.access_secret and auth.refresh_secret must differ")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return errors.New("auth token ttls must be positive")
	}
	return nil
}

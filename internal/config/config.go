package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Auth       AuthConfig
	Seed       SeedConfig
	Status     StatusConfig
	Redis      RedisConfig
	Monitoring MonitoringConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects the Postgres backend when URL is set.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	IngestKey      string        `mapstructure:"ingest_key"`
	PasswordScheme string        `mapstructure:"password_scheme"`
}

type SeedConfig struct {
	AdminUsername    string `mapstructure:"admin_username"`
	AdminPassword    string `mapstructure:"admin_password"`
	AdminEmail       string `mapstructure:"admin_email"`
	DemoCustomer     bool   `mapstructure:"demo_customer"`
	CustomerUsername string `mapstructure:"customer_username"`
	CustomerPassword string `mapstructure:"customer_password"`
	DemoSensor       bool   `mapstructure:"demo_sensor"`
}

type StatusConfig struct {
	OfflineThreshold time.Duration `mapstructure:"offline_threshold"`
	High             float64       `mapstructure:"high"`
	Mid              float64       `mapstructure:"mid"`
	MeasurementLimit int           `mapstructure:"measurement_limit"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// Enabled reports whether a Redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Addr is host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MonitoringConfig struct {
	MetricsPath string `mapstructure:"metrics_path"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BEDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	// Deployment platforms hand these out unprefixed.
	_ = v.BindEnv("database.url", "BEDS_DATABASE__URL", "DATABASE_URL")
	_ = v.BindEnv("database.sslmode", "BEDS_DATABASE__SSLMODE", "PGSSLMODE")
	_ = v.BindEnv("server.port", "BEDS_SERVER__PORT", "PORT")
	_ = v.BindEnv("auth.jwt_secret", "BEDS_AUTH__JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("auth.ingest_key", "BEDS_AUTH__INGEST_KEY", "SENSOR_INGEST_KEY")

	// Set defaults
	setDefaults(v)

	// Load config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 4000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.url", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	// Storage defaults
	v.SetDefault("storage.data_dir", "./data")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "12h")
	v.SetDefault("auth.ingest_key", "")
	v.SetDefault("auth.password_scheme", "bcrypt")

	// Seed defaults
	v.SetDefault("seed.admin_username", "operator")
	v.SetDefault("seed.admin_password", "beds2025!")
	v.SetDefault("seed.admin_email", "")
	v.SetDefault("seed.demo_customer", false)
	v.SetDefault("seed.customer_username", "customer")
	v.SetDefault("seed.customer_password", "customer123")
	v.SetDefault("seed.demo_sensor", true)

	// Status engine defaults
	v.SetDefault("status.offline_threshold", "60s")
	v.SetDefault("status.high", 0.3)
	v.SetDefault("status.mid", 0.1)
	v.SetDefault("status.measurement_limit", 50)

	// Redis defaults
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "beds:measurements")

	// Monitoring defaults
	v.SetDefault("monitoring.metrics_path", "/metrics")
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", config.Server.Port)
	}
	if config.Storage.DataDir == "" && config.Database.URL == "" {
		return fmt.Errorf("either database url or storage data_dir is required")
	}
	if config.Status.Mid <= 0 || config.Status.High <= 0 || config.Status.Mid > config.Status.High {
		return fmt.Errorf("status thresholds must satisfy 0 < mid <= high")
	}
	if config.Status.OfflineThreshold <= 0 {
		return fmt.Errorf("status offline_threshold must be positive")
	}
	if config.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token_ttl must be positive")
	}
	return nil
}

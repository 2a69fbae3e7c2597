package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Community CommunityConfig `mapstructure:"community"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	Enabled      bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// ProvidersConfig configures the external routing and place data sources.
// Offline swaps every provider for the built-in fixtures.
type ProvidersConfig struct {
	Offline          bool                 `mapstructure:"offline"`
	OpenRouteService OpenRouteServiceConf `mapstructure:"openrouteservice"`
	Wheelmap         WheelmapConf         `mapstructure:"wheelmap"`
	Overpass         OverpassConf         `mapstructure:"overpass"`
}

type OpenRouteServiceConf struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WheelmapConf struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Limit   int           `mapstructure:"limit"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type OverpassConf struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type CommunityConfig struct {
	HazardExpiryHours      int `mapstructure:"hazard_expiry_hours"`
	HazardExpiryMinUpvotes int `mapstructure:"hazard_expiry_min_upvotes"`
}

// HazardExpiry is the window after which an unconfirmed hazard is resolved.
func (c CommunityConfig) HazardExpiry() time.Duration {
	return time.Duration(c.HazardExpiryHours) * time.Hour
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ACCESSROUTE_PROVIDERS_OFFLINE → providers.offline
	v.SetEnvPrefix("ACCESSROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "accessroute")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "accessroute")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_endpoint", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "accessroute-community")
	v.SetDefault("providers.offline", false)
	v.SetDefault("providers.openrouteservice.base_url", "https://api.openrouteservice.org/v2")
	v.SetDefault("providers.openrouteservice.api_key", "")
	v.SetDefault("providers.openrouteservice.timeout", 8*time.Second)
	v.SetDefault("providers.wheelmap.base_url", "https://wheelmap.org/api")
	v.SetDefault("providers.wheelmap.api_key", "")
	v.SetDefault("providers.wheelmap.limit", 50)
	v.SetDefault("providers.wheelmap.timeout", 8*time.Second)
	v.SetDefault("providers.overpass.url", "https://overpass-api.de/api/interpreter")
	v.SetDefault("providers.overpass.timeout", 8*time.Second)
	v.SetDefault("community.hazard_expiry_hours", 72)
	v.SetDefault("community.hazard_expiry_min_upvotes", 3)
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Temporal.TaskQueue == "" {
		errs = append(errs, "temporal.task_queue is required")
	}

	p := c.Providers
	if !p.Offline {
		if p.OpenRouteService.BaseURL == "" {
			errs = append(errs, "providers.openrouteservice.base_url is required unless providers.offline is set")
		}
		if p.Wheelmap.BaseURL == "" {
			errs = append(errs, "providers.wheelmap.base_url is required unless providers.offline is set")
		}
		if p.Overpass.URL == "" {
			errs = append(errs, "providers.overpass.url is required unless providers.offline is set")
		}
	}
	if p.OpenRouteService.Timeout <= 0 {
		errs = append(errs, "providers.openrouteservice.timeout must be positive")
	}
	if p.Wheelmap.Timeout <= 0 {
		errs = append(errs, "providers.wheelmap.timeout must be positive")
	}
	if p.Overpass.Timeout <= 0 {
		errs = append(errs, "providers.overpass.timeout must be positive")
	}
	if p.Wheelmap.Limit <= 0 {
		errs = append(errs, "providers.wheelmap.limit must be positive")
	}

	if c.Community.HazardExpiryHours <= 0 {
		errs = append(errs, "community.hazard_expiry_hours must be positive")
	}
	if c.Community.HazardExpiryMinUpvotes < 0 {
		errs = append(errs, "community.hazard_expiry_min_upvotes must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

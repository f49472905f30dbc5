package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string        `mapstructure:"PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	GatewayURL         string        `mapstructure:"GATEWAY_URL"`
	GatewayKey         string        `mapstructure:"GATEWAY_KEY"`
	GatewayTimeout     time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	DBMaxConns         int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32         `mapstructure:"DB_MIN_CONNS"`
	SentinelDoctorID   int64         `mapstructure:"SENTINEL_DOCTOR_ID"`
	SentinelDoctorName string        `mapstructure:"SENTINEL_DOCTOR_NAME"`
	TopDepartments     int           `mapstructure:"TOP_DEPARTMENTS"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	BodyLimit          string        `mapstructure:"BODY_LIMIT"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
}

// Load reads configuration from the process environment, after merging any
// variables found in a local .env file. GATEWAY_URL and GATEWAY_KEY are
// required; SUPABASE_URL and SUPABASE_KEY are accepted as aliases.
func Load() (*Config, error) {
	// Missing .env is fine; real env vars always win over the file.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GATEWAY_TIMEOUT", "30s")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("SENTINEL_DOCTOR_ID", 0)
	v.SetDefault("SENTINEL_DOCTOR_NAME", "Dr. Temp")
	v.SetDefault("TOP_DEPARTMENTS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("REQUEST_TIMEOUT", "60s")

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("GATEWAY_URL", "GATEWAY_URL", "SUPABASE_URL")
	v.BindEnv("GATEWAY_KEY", "GATEWAY_KEY", "SUPABASE_KEY")
	v.BindEnv("GATEWAY_TIMEOUT")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("SENTINEL_DOCTOR_ID")
	v.BindEnv("SENTINEL_DOCTOR_NAME")
	v.BindEnv("TOP_DEPARTMENTS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("BODY_LIMIT")
	v.BindEnv("REQUEST_TIMEOUT")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// GatewayDriver returns the gateway driver implied by the GATEWAY_URL scheme:
// "postgres", "rest" or "memory".
func (c *Config) GatewayDriver() string {
	u, err := url.Parse(c.GatewayURL)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return "postgres"
	case "http", "https":
		return "rest"
	case "memory":
		return "memory"
	}
	return ""
}

// Validate checks the settings that make startup impossible when wrong.
func (c *Config) Validate() error {
	if c.GatewayURL == "" {
		return fmt.Errorf("GATEWAY_URL (or SUPABASE_URL) is required")
	}
	if c.GatewayKey == "" {
		return fmt.Errorf("GATEWAY_KEY (or SUPABASE_KEY) is required")
	}
	if c.GatewayDriver() == "" {
		return fmt.Errorf("GATEWAY_URL must use a postgres://, http(s):// or memory:// scheme, got %q", c.GatewayURL)
	}
	if c.SentinelDoctorID < 0 {
		return fmt.Errorf("SENTINEL_DOCTOR_ID must not be negative, got %d", c.SentinelDoctorID)
	}
	if c.SentinelDoctorID == 0 && strings.TrimSpace(c.SentinelDoctorName) == "" {
		return fmt.Errorf("one of SENTINEL_DOCTOR_ID or SENTINEL_DOCTOR_NAME must be set")
	}
	if c.TopDepartments <= 0 {
		return fmt.Errorf("TOP_DEPARTMENTS must be positive, got %d", c.TopDepartments)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

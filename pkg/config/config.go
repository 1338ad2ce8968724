package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Terminal TerminalConfig
	Server   ServerConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Session  SessionConfig
	Lookup   LookupConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PALMCAFE_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"PALMCAFE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PALMCAFE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// TerminalConfig identifies the cafe and operator this terminal serves.
type TerminalConfig struct {
	Tenant       string `envconfig:"PALMCAFE_TENANT" required:"true"`
	OperatorName string `envconfig:"PALMCAFE_OPERATOR_NAME" default:"terminal"`
	OperatorRole string `envconfig:"PALMCAFE_OPERATOR_ROLE" default:"staff"`
}

// ServerConfig points at the cafe backend that owns authoritative totals.
type ServerConfig struct {
	BaseURL string        `envconfig:"PALMCAFE_SERVER_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"PALMCAFE_SERVER_TIMEOUT" default:"10s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PALMCAFE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PALMCAFE_REDIS_ADDR"`
	Password     string        `envconfig:"PALMCAFE_REDIS_PASSWORD"`
	DB           int           `envconfig:"PALMCAFE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PALMCAFE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PALMCAFE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PALMCAFE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PALMCAFE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PALMCAFE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// PricingConfig carries the loyalty exchange rate and tip presets.
type PricingConfig struct {
	PointsPerUnit float64   `envconfig:"PALMCAFE_PRICING_POINTS_PER_UNIT" default:"10"`
	TipPresets    []float64 `envconfig:"PALMCAFE_PRICING_TIP_PRESETS" default:"10,15,20"`
}

func (p PricingConfig) validate() error {
	if p.PointsPerUnit <= 0 {
		return fmt.Errorf("points per unit must be positive")
	}
	for _, preset := range p.TipPresets {
		if preset < 0 {
			return fmt.Errorf("tip preset cannot be negative")
		}
	}
	return nil
}

// PointValue returns the currency value of a single loyalty point.
func (p PricingConfig) PointValue() float64 {
	return 1 / p.PointsPerUnit
}

type SessionConfig struct {
	TTL time.Duration `envconfig:"PALMCAFE_SESSION_TTL" default:"10m"`
}

func (s SessionConfig) validate() error {
	if s.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	return nil
}

type LookupConfig struct {
	DebounceDelay  time.Duration `envconfig:"PALMCAFE_LOOKUP_DEBOUNCE_DELAY" default:"500ms"`
	MinPhoneDigits int           `envconfig:"PALMCAFE_LOOKUP_MIN_PHONE_DIGITS" default:"10"`
}

package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Security  SecurityConfig  `mapstructure:"security"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	EHR       EHRConfig       `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type BreakerConfig struct {
	Enabled             bool          `mapstructure:"enabled"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	OpenTimeout         time.Duration `mapstructure:"open_timeout"`
}

// SessionConfig configures the dashboard operator login.
type SessionConfig struct {
	Secret           string        `mapstructure:"secret"`
	Expiry           time.Duration `mapstructure:"expiry"`
	OperatorEmail    string        `mapstructure:"operator_email"`
	OperatorPassword string        `mapstructure:"operator_password_hash"` // bcrypt hash
	OperatorName     string        `mapstructure:"operator_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// EHRConfig holds the upstream provider connection settings. These come from
// the environment, never from the config file, so credentials stay out of
// version control.
type EHRConfig struct {
	BaseURL     string `envconfig:"BASE_URL" default:"https://stage.ema-api.com"`
	FirmPrefix  string `envconfig:"FIRM_PREFIX"`
	APIKey      string `envconfig:"API_KEY"`
	Username    string `envconfig:"USERNAME"`
	Password    string `envconfig:"PASSWORD"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// TokenURL is the upstream OAuth2 grant endpoint.
func (c EHRConfig) TokenURL() string {
	return fmt.Sprintf("%s/ema-dev/firm/%s/ema/ws/oauth2/grant", c.BaseURL, c.FirmPrefix)
}

// FHIRBaseURL is the root of the upstream FHIR resource endpoints.
func (c EHRConfig) FHIRBaseURL() string {
	return fmt.Sprintf("%s/ema-dev/firm/%s/ema/fhir/v2", c.BaseURL, c.FirmPrefix)
}

// MockMode reports whether upstream calls should be served from canned
// responses. Mock mode is active when no API key is configured or the
// deployment is flagged as development.
func (c EHRConfig) MockMode() bool {
	return c.APIKey == "" || c.Environment == "development"
}

// Production reports whether the deployment is flagged as production, which
// controls the Secure attribute on auth cookies.
func (c EHRConfig) Production() bool {
	return c.Environment == "production"
}

// ValidateCredentials fails when the service-account credentials needed for
// live upstream calls are absent. Only enforced outside mock mode.
func (c EHRConfig) ValidateCredentials() error {
	if c.MockMode() {
		return nil
	}
	if c.FirmPrefix == "" {
		return fmt.Errorf("missing EHR_FIRM_PREFIX")
	}
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("missing EHR_USERNAME or EHR_PASSWORD")
	}
	return nil
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 15*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)
	viper.SetDefault("server.request_timeout", 30*time.Second)
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests_per_second", 50.0)
	viper.SetDefault("rate_limit.burst", 100)
	viper.SetDefault("breaker.enabled", true)
	viper.SetDefault("breaker.consecutive_failures", 10)
	viper.SetDefault("breaker.open_timeout", 30*time.Second)
	viper.SetDefault("session.expiry", 8*time.Hour)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", true)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional; defaults plus environment suffice.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("EHR", &config.EHR); err != nil {
		return nil, fmt.Errorf("failed to read EHR environment: %w", err)
	}

	return &config, nil
}

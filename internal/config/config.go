package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Database *DbConfig
	Service  *SvcConfig
}

type DbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"pipeline"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type SvcConfig struct {
	Address        string `envconfig:"PIPELINE_ADDRESS" default:":3443"`
	MetricsAddress string `envconfig:"PIPELINE_METRICS_ADDRESS" default:":8080"`
	BaseUrl        string `envconfig:"PIPELINE_BASE_URL" default:"https://localhost:3443"`
	LogLevel       string `envconfig:"PIPELINE_LOG_LEVEL" default:"info"`
}

// New loads the configuration from the environment.
func New() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewDefault returns the configuration with every value set to its default,
// ignoring the environment. Used by tests.
func NewDefault() *Config {
	return &Config{
		Database: &DbConfig{
			Type:     "pgsql",
			Hostname: "localhost",
			Port:     5432,
			Name:     "pipeline",
			User:     "admin",
			Password: "adminpass",
		},
		Service: &SvcConfig{
			Address:        ":3443",
			MetricsAddress: ":8080",
			BaseUrl:        "https://localhost:3443",
			LogLevel:       "info",
		},
	}
}

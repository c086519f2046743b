package config

import (
	"fmt"
	"time"
	_ "time/tzdata" // camp timezones must resolve in minimal containers

	"github.com/caarlos0/env/v11"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `env:"SERVER_PORT" envDefault:"8080"`
	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/medcamp?charset=utf8mb4&parseTime=True&loc=UTC"`
	ResetDB     bool   `env:"RESET_DB"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	JWTSecret   string `env:"JWT_SECRET" envDefault:"change-me"`
	SwaggerHost string `env:"SWAGGER_HOST"`

	// AdminEmail grants the admin capability to one address regardless of role.
	AdminEmail   string `env:"ADMIN_EMAIL" envDefault:"admin@freedoctor.com"`
	CampTimezone string `env:"CAMP_TIMEZONE" envDefault:"UTC"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"camp-events"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// SMTPConfig configures outgoing decision emails. An empty Host disables mail.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"FreeDoctorMed <no-reply@freedoctor.com>"`
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	switch cfg.DBDriver {
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

// Location resolves CampTimezone. Camp dates are entered as wall-clock times in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.CampTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid CAMP_TIMEZONE %q: %w", c.CampTimezone, err)
	}
	return loc, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	Database    Database

	Redis      Redis      `envPrefix:"REDIS_"`
	Kafka      Kafka      `envPrefix:"KAFKA_"`
	Sync       Sync       `envPrefix:"SYNC_"`
	Automation Automation `envPrefix:"AUTOMATION_"`
	Admin      Admin      `envPrefix:"ADMIN_"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
	// per client IP, applies to the automation trigger routes
	TriggerRate  float64 `env:"HTTP_TRIGGER_RATE" envDefault:"1"`
	TriggerBurst int     `env:"HTTP_TRIGGER_BURST" envDefault:"3"`
}

type Database struct {
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"` // sqlite, mysql
	URL    string `env:"DATABASE_URL" envDefault:"shopflow.db"`
	Seed   bool   `env:"DATABASE_SEED" envDefault:"true"` // demo catalog on an empty products table
}

// Redis is optional. An empty Addr keeps the scheduler lease in process.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Kafka is optional. No brokers means order events are only sent to the webhook.
type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"shopflow-orders"`
}

type Sync struct {
	WebhookURL     string        `env:"WEBHOOK_URL"`
	PayloadVersion int           `env:"PAYLOAD_VERSION" envDefault:"2"`
	Timeout        time.Duration `env:"TIMEOUT" envDefault:"10s"`
	QueueSize      int           `env:"QUEUE_SIZE" envDefault:"256"`
	Timezone       string        `env:"TIMEZONE" envDefault:"Asia/Karachi"` // for the date/time columns
}

type Automation struct {
	// Interval drives the in-process trigger; zero leaves scheduling to an external caller.
	Interval      time.Duration `env:"INTERVAL" envDefault:"30m"`
	BatchMin      int           `env:"BATCH_MIN" envDefault:"18"`
	BatchMax      int           `env:"BATCH_MAX" envDefault:"24"`
	DelayMin      time.Duration `env:"DELAY_MIN" envDefault:"200ms"`
	DelayMax      time.Duration `env:"DELAY_MAX" envDefault:"500ms"`
	CallTimeout   time.Duration `env:"CALL_TIMEOUT" envDefault:"10s"`
	LeaseTTL      time.Duration `env:"LEASE_TTL" envDefault:"15m"`
	MaxOrderTotal string        `env:"MAX_ORDER_TOTAL" envDefault:"30000"`
	OrderPrefix   string        `env:"ORDER_PREFIX" envDefault:"CHR"`
	RandomSeed    int64         `env:"RANDOM_SEED" envDefault:"0"` // 0 seeds from the clock
}

type Admin struct {
	PasswordHash string        `env:"PASSWORD_HASH"` // bcrypt
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	a := c.Automation
	if a.BatchMin < 1 || a.BatchMax < a.BatchMin {
		return fmt.Errorf("invalid automation batch range [%d, %d]", a.BatchMin, a.BatchMax)
	}
	if a.DelayMin < 0 || a.DelayMax < a.DelayMin {
		return fmt.Errorf("invalid automation delay range [%s, %s]", a.DelayMin, a.DelayMax)
	}
	if a.CallTimeout <= 0 {
		return fmt.Errorf("automation call timeout must be positive")
	}
	total, err := decimal.NewFromString(a.MaxOrderTotal)
	if err != nil {
		return fmt.Errorf("invalid max order total %q: %w", a.MaxOrderTotal, err)
	}
	if !total.IsPositive() {
		return fmt.Errorf("max order total must be positive, got %s", a.MaxOrderTotal)
	}
	if a.OrderPrefix == "" {
		return fmt.Errorf("order prefix must not be empty")
	}

	switch c.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("sync timeout must be positive")
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("invalid sync timezone %q: %w", c.Sync.Timezone, err)
	}

	switch c.Sync.PayloadVersion {
	case 1, 2:
	default:
		return fmt.Errorf("unsupported sync payload version %d", c.Sync.PayloadVersion)
	}

	return nil
}

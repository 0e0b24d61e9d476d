package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (policy windows, cadence, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	DB         DBConfig
	CORS       CORSConfig
	Log        LogConfig
	JWT        JWTConfig
	Policy     PolicyConfig
	Reconciler ReconcilerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type StoreConfig struct {
	// Driver selects the booking store backend: "postgres" or "memory".
	Driver string `envconfig:"STORE_DRIVER" default:"postgres"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// PolicyConfig holds the admission policy knobs. Operating hours are a daily
// wall-clock window in "HH:MM" form; bookings may not cross midnight.
type PolicyConfig struct {
	LeadTime    time.Duration `envconfig:"BOOKING_LEAD_TIME" default:"30m"`
	MinDuration time.Duration `envconfig:"BOOKING_MIN_DURATION" default:"15m"`
	MaxDuration time.Duration `envconfig:"BOOKING_MAX_DURATION" default:"4h"`
	OpensAt     string        `envconfig:"BOOKING_OPENS_AT" default:"08:00"`
	ClosesAt    string        `envconfig:"BOOKING_CLOSES_AT" default:"22:00"`
	Granule     time.Duration `envconfig:"BOOKING_GRANULE" default:"15m"`
}

type ReconcilerConfig struct {
	Interval           time.Duration `envconfig:"RECONCILE_INTERVAL" default:"5m"`
	ReminderLeadMin    time.Duration `envconfig:"REMINDER_LEAD_MIN" default:"15m"`
	ReminderLeadMax    time.Duration `envconfig:"REMINDER_LEAD_MAX" default:"30m"`
	NotifyTimeout      time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	MaxConcurrentSends int           `envconfig:"NOTIFY_MAX_CONCURRENT" default:"10"`
	NotifyRatePerSec   float64       `envconfig:"NOTIFY_RATE_PER_SEC" default:"20"`
	NotifyBurst        int           `envconfig:"NOTIFY_BURST" default:"30"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		Store: StoreConfig{
			Driver: "memory",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "24h",
		},
		Policy: PolicyConfig{
			LeadTime:    30 * time.Minute,
			MinDuration: 15 * time.Minute,
			MaxDuration: 4 * time.Hour,
			OpensAt:     "08:00",
			ClosesAt:    "22:00",
			Granule:     15 * time.Minute,
		},
		Reconciler: ReconcilerConfig{
			Interval:           5 * time.Minute,
			ReminderLeadMin:    15 * time.Minute,
			ReminderLeadMax:    30 * time.Minute,
			NotifyTimeout:      10 * time.Second,
			MaxConcurrentSends: 10,
			NotifyRatePerSec:   20,
			NotifyBurst:        30,
		},
	}
}

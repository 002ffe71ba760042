package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, pool sizing, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server ServerConfig
	DB     DBConfig
	CORS   CORSConfig
	Log    LogConfig
	JWT    JWTConfig
	Queue  QueueConfig
	SMTP   SMTPConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
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
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret string `envconfig:"JWT_SECRET" required:"true"`
}

// QueueConfig tunes the job queue and its worker pool. Retention bounds
// cap how many terminal jobs are kept around for diagnostics.
type QueueConfig struct {
	WorkerCount        int           `envconfig:"QUEUE_WORKER_COUNT" default:"5"`
	PollInterval       time.Duration `envconfig:"QUEUE_POLL_INTERVAL" default:"500ms"`
	LeaseTimeout       time.Duration `envconfig:"QUEUE_LEASE_TIMEOUT" default:"1m"`
	CompletedRetention int           `envconfig:"QUEUE_COMPLETED_RETENTION" default:"10"`
	FailedRetention    int           `envconfig:"QUEUE_FAILED_RETENTION" default:"50"`
	EmailFanout        bool          `envconfig:"QUEUE_EMAIL_FANOUT" default:"false"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     string `envconfig:"SMTP_PORT" default:"1025"`
	From     string `envconfig:"SMTP_FROM" default:"noreply@example.com"`
	Disabled bool   `envconfig:"SMTP_DISABLED" default:"true"`
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
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret: "test-secret",
		},
		Queue: QueueConfig{
			WorkerCount:        2,
			PollInterval:       10 * time.Millisecond,
			LeaseTimeout:       time.Second,
			CompletedRetention: 10,
			FailedRetention:    50,
		},
		SMTP: SMTPConfig{
			Host:     "localhost",
			Port:     "1025",
			From:     "noreply@example.com",
			Disabled: true,
		},
	}
}

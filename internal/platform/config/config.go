// Package config loads the process configuration once at startup.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full runtime configuration. It is built once in main and handed
// to each component; nothing below cmd reads the environment.
type Config struct {
	Port   string `env:"PORT" envDefault:"3000"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	Database Database
	JWT      JWT
	Storage  Storage
	Mail     Mail
	Redis    Redis

	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
	SentryDSN         string `env:"SENTRY_DSN"`

	AdminEmails []string `env:"ADMIN_EMAILS" envSeparator:","`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// PublicUploadListing keeps GET /api/uploads reachable without a token.
	PublicUploadListing  bool          `env:"PUBLIC_UPLOAD_LISTING" envDefault:"true"`
	VerificationCooldown time.Duration `env:"VERIFICATION_COOLDOWN" envDefault:"60s"`

	// AuthRatePerMinute limits signup/login attempts per client IP. 0 disables the limit.
	AuthRatePerMinute int `env:"AUTH_RATE_PER_MINUTE" envDefault:"30"`
	// WebhookRatePerMinute caps outgoing webhook messages.
	WebhookRatePerMinute int `env:"WEBHOOK_RATE_PER_MINUTE" envDefault:"30"`
}

type Database struct {
	URL             string        `env:"DATABASE_URL,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"60s"`
}

type JWT struct {
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`
}

type Storage struct {
	Driver           string        `env:"STORAGE_DRIVER" envDefault:"s3"`
	URL              string        `env:"S3_URL"`
	Region           string        `env:"S3_REGION" envDefault:"us-east-1"`
	Bucket           string        `env:"S3_BUCKET_NAME,required"`
	AccessKeyID      string        `env:"S3_ACCESS_KEY_ID,required"`
	SecretAccessKey  string        `env:"S3_SECRET_ACCESS_KEY,required"`
	PathStyleBuckets bool          `env:"S3_PATH_STYLE_BUCKETS" envDefault:"false"`
	Timeout          time.Duration `env:"STORAGE_TIMEOUT" envDefault:"10s"`
}

type Mail struct {
	Host     string `env:"MAIL_HOST"`
	Port     int    `env:"MAIL_PORT" envDefault:"587"`
	User     string `env:"MAIL_USER"`
	Password string `env:"MAIL_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"no-reply@fileshare.local"`
	WebHost  string `env:"WEB_HOST" envDefault:"http://localhost:5173"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
}

// Enabled reports whether a Redis host is configured.
func (r Redis) Enabled() bool { return r.Host != "" }

// Addr returns host:port.
func (r Redis) Addr() string { return r.Host + ":" + r.Port }

// Configured reports whether SMTP delivery is possible.
func (m Mail) Configured() bool { return m.Host != "" }

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads envFile (if present) into the process environment and parses Config.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "s3", "minio":
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "minio" && c.Storage.URL == "" {
		return errors.New("S3_URL is required for the minio driver")
	}
	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	return nil
}

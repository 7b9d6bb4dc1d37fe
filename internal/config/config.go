package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds every setting read from the environment.
type Config struct {
	Env      string `env:"APP_ENV,default=development"`
	Port     string `env:"PORT,default=3000"`
	LogLevel string `env:"LOG_LEVEL,default=INFO"`

	Store StoreConfig
	Mail  MailConfig
	Site  SiteConfig

	CORSOrigins      []string `env:"CORS_ORIGINS,default=http://localhost:5500,http://127.0.0.1:5500,http://localhost:3000"`
	ContactRateLimit int      `env:"CONTACT_RATE_LIMIT,default=10"`
	TrustedProxies   int      `env:"TRUSTED_PROXIES,default=0"`
	Timezone         string   `env:"TIMEZONE,default=Local"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver      string `env:"STORE_DRIVER,default=file"`
	Dir         string `env:"MESSAGES_DIR,default=./messages"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH,default=./messages.db"`
}

// MailConfig configures the SMTP transport. An empty Host selects the log-only transport.
type MailConfig struct {
	Host       string `env:"EMAIL_HOST"`
	Port       int    `env:"EMAIL_PORT,default=587"`
	Secure     bool   `env:"EMAIL_SECURE,default=false"`
	User       string `env:"EMAIL_USER"`
	Password   string `env:"EMAIL_PASS"`
	From       string `env:"EMAIL_FROM,default=LoumShoes <noreply@loumshoes.com>"`
	AdminEmail string `env:"ADMIN_EMAIL,default=admin@loumshoes.com"`
}

// SiteConfig is branding used in notification templates.
type SiteConfig struct {
	Name           string `env:"SITE_NAME,default=LoumShoes"`
	ContactPhone   string `env:"SITE_CONTACT_PHONE"`
	ContactAddress string `env:"SITE_CONTACT_ADDRESS"`
	WhatsAppNumber string `env:"WHATSAPP_NUMBER"`
}

// Load reads .env files (if present) into the environment, then decodes it.
// Missing files are skipped; variables already set are never overridden.
func Load(ctx context.Context, envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return Process(ctx, envconfig.OsLookuper())
}

// Process decodes configuration from l. Tests pass envconfig.MapLookuper.
func Process(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return Config{}, fmt.Errorf("parsing env vars: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Location resolves Timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

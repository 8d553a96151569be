package aktivnatura

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// SiteConfig holds all configuration for the club site.
type SiteConfig struct {
	Name         string // Site name (default "PD Aktivnatura")
	URL          string // Canonical URL (default "http://localhost:3000")
	Description  string // Site description for RSS and meta tags
	ContactEmail string // Shown on the contact page
	ContactPhone string

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/aktivnatura.db")

	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// BootstrapAdminEmail receives the admin role when that address signs up.
	BootstrapAdminEmail string
	// AllowFirstAdmin makes the first account created while no admin exists
	// an admin. Meant for fresh installs only.
	AllowFirstAdmin bool

	CacheTTL      time.Duration // Content cache TTL (default 5min)
	MaxImageWidth int           // Uploaded images are scaled down to this width (default 1600)

	LogLevel       string // logrus level (default "info")
	LogFile        string // Optional rotating log file
	MetricsEnabled bool   // Serve Prometheus metrics at /metrics
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "PD Aktivnatura"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/aktivnatura.db"
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 5 * time.Minute
	}
	if c.MaxImageWidth == 0 {
		c.MaxImageWidth = 1600
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func LoadConfig() (SiteConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return SiteConfig{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := SiteConfig{
		Name:                EnvOr("SITE_NAME", ""),
		URL:                 EnvOr("SITE_URL", ""),
		Description:         EnvOr("SITE_DESCRIPTION", "Planinarsko društvo Aktivnatura – izleti, pohodi i priče s planina."),
		ContactEmail:        EnvOr("CONTACT_EMAIL", ""),
		ContactPhone:        EnvOr("CONTACT_PHONE", ""),
		Addr:                EnvOr("ADDR", ""),
		DatabasePath:        EnvOr("DATABASE_PATH", ""),
		SessionSecret:       os.Getenv("SESSION_SECRET"),
		CookieSecure:        strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
		BootstrapAdminEmail: EnvOr("BOOTSTRAP_ADMIN_EMAIL", ""),
		AllowFirstAdmin:     strings.EqualFold(os.Getenv("ALLOW_FIRST_ADMIN"), "true"),
		LogLevel:            EnvOr("LOG_LEVEL", ""),
		LogFile:             EnvOr("LOG_FILE", ""),
		MetricsEnabled:      strings.EqualFold(os.Getenv("METRICS_ENABLED"), "true"),
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return SiteConfig{}, fmt.Errorf("invalid CACHE_TTL: %w", err)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("MAX_IMAGE_WIDTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return SiteConfig{}, fmt.Errorf("invalid MAX_IMAGE_WIDTH %q", v)
		}
		cfg.MaxImageWidth = n
	}
	cfg.setDefaults()
	return cfg, nil
}

// Validate checks required settings.
func (c SiteConfig) Validate() error {
	if c.SessionSecret == "" {
		return fmt.Errorf("SessionSecret is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SessionSecret must be at least 16 characters")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

// WithMetricsRegistry registers metrics on reg instead of a private registry.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}

// WithClock overrides the clock used for "upcoming" decisions.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

package kilobite

import (
	"time"

	"go.uber.org/zap"
)

// ServerConfig holds the runtime settings of a kilobite process. Site content
// settings (title, navigation, hero) live in the site file instead.
type ServerConfig struct {
	URL  string // Canonical URL (default "http://localhost:3000")
	Addr string // Listen address (default ":3000")

	DatabasePath string // SQLite index path (default "data/kilobite.db")
	ContentDir   string // Markdown root (default "content")
	StaticDir    string // Files served as-is from the site root (default "public")
	SiteFile     string // Site config; empty means DefaultSiteFile with fallback to the built-in site
	OutputDir    string // Static build target (default "dist")
	Drafts       bool   // Publish posts marked draft

	AdminPassword string // Enables /admin/ when set
	SessionSecret string // Cookie signing secret; required with AdminPassword
	CookieSecure  bool   // Set true for HTTPS

	PostCacheTTL time.Duration // Content cache TTL (default 5min)
	LogLevel     string        // debug, info, warn, error (default "info")
}

func (c *ServerConfig) setDefaults() {
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/kilobite.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.OutputDir == "" {
		c.OutputDir = "dist"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the logger built from ServerConfig.LogLevel.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Log = l
	}
}

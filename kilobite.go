// Package kilobite serves and statically builds a Kilobite site: Markdown
// posts, projects and pages wrapped in the chrome described by a frozen
// siteconfig.Site.
//
// The site configuration is loaded once per process and never reloaded;
// content is indexed in SQLite and can be re-synced at any time.
package kilobite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/kilobite/content"
	"github.com/eringen/kilobite/siteconfig"
)

// App is the central kilobite application. It wires together the store,
// cache, handlers, middleware and views.
type App struct {
	Config ServerConfig
	Site   *siteconfig.Site
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Log    *zap.Logger

	loginLimiter     *Limiter
	subscribeLimiter *Limiter
	customRoutes     []func(*App)
	initOnce         sync.Once
	initErr          error
	reloadMu         sync.Mutex
}

// New creates an App for site. A nil site means siteconfig.Default().
func New(cfg ServerConfig, site *siteconfig.Site, opts ...Option) *App {
	cfg.setDefaults()
	if site == nil {
		site = siteconfig.Default()
	}

	a := &App{
		Config: cfg,
		Site:   site,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, loads the content, and registers middleware and
// routes. It runs once; Start and Build call it.
func (a *App) Init() error {
	a.initOnce.Do(func() { a.initErr = a.init() })
	return a.initErr
}

func (a *App) init() error {
	if a.Log == nil {
		log, err := NewLogger(a.Config.LogLevel)
		if err != nil {
			return fmt.Errorf("kilobite: init logger: %w", err)
		}
		a.Log = log
	}
	if a.Config.AdminPassword != "" && a.Config.SessionSecret == "" {
		return errors.New("kilobite: SessionSecret is required when AdminPassword is set")
	}
	if a.Config.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return fmt.Errorf("kilobite: session secret: %w", err)
		}
		a.Config.SessionSecret = secret
		a.Log.Debug("using a per-process session secret")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("kilobite: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	a.loginLimiter = NewLimiter(5, time.Minute)
	a.subscribeLimiter = NewLimiter(5, time.Minute)

	if err := a.Reload(); err != nil {
		return err
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Reload reads the content directory again and replaces the indexed content.
// On error the previously indexed content stays in place.
func (a *App) Reload() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	start := time.Now()
	coll, err := content.Load(a.Config.ContentDir, content.LoadOptions{IncludeDrafts: a.Config.Drafts})
	if err != nil {
		return fmt.Errorf("kilobite: load content: %w", err)
	}
	if err := a.Store.SyncContent(coll); err != nil {
		return fmt.Errorf("kilobite: sync content: %w", err)
	}
	a.Cache.Invalidate()
	a.Log.Info("content loaded",
		zap.Int("posts", len(coll.Posts)),
		zap.Int("projects", len(coll.Projects)),
		zap.Int("pages", len(coll.Pages)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Start initializes the app and serves HTTP until Shutdown is called.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("site", a.Site.Title()))
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.subscribeLimiter != nil {
		a.subscribeLimiter.Close()
	}
	var err error
	if a.Store != nil {
		err = a.Store.Close()
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return err
}

func (a *App) adminEnabled() bool {
	return a.Config.AdminPassword != ""
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

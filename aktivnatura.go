// Package aktivnatura is the website and content management system of the
// PD Aktivnatura hiking club, built with Go, Echo and templ.
//
// It serves the public site (home, trips, blog, contact) and an admin
// dashboard for managing trips, blog posts, categories, the featured trip,
// uploaded images and user roles. Pages are rendered by templ components
// supplied through ViewFuncs.
package aktivnatura

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// App is the central application. It wires together the store, cache,
// handlers, middleware, and templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *ContentCache
	Views   ViewFuncs
	Log     *logrus.Logger
	Metrics *Metrics

	loginLimiter   *LoginLimiter
	contactLimiter *RateLimiter
	registry       *prometheus.Registry
	customRoutes   []func(*App)
	staticDir      string
	now            func() time.Time
	initialized    bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		a.Log = NewLogger(a.Config)
	}
	return a
}

// Init opens the database and registers middleware and routes. Start calls
// it when needed; tests call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("aktivnatura: %w", err)
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("aktivnatura: init store: %w", err)
	}
	a.Store = store
	a.Store.now = a.now

	a.Cache = NewContentCache(a.Store, a.Config.CacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	// Three messages per minute with a small burst is plenty for people.
	a.contactLimiter = NewRateLimiter(rate.Every(20*time.Second), 3)

	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	a.Metrics = newMetrics(a.registry)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves HTTP until ctx is cancelled, then
// shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.WithField("addr", a.Config.Addr).Info("server listening")
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Embedded assets (site.css, admin.js, popup.js) are served under
	// /public/ ahead of the static directory.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/site.css", embeddedHandler)
	e.GET("/public/admin.js", embeddedHandler)
	e.GET("/public/popup.js", embeddedHandler)

	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/healthz", a.handleHealth)

	// Public routes
	e.GET("/", a.handleHome)
	e.POST("/featured/dismiss", a.handleDismissFeatured)
	e.GET("/izleti", a.handleTrips)
	e.GET("/izleti/:slug", a.handleTrip)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/kontakt", a.handleContact)
	e.POST("/kontakt", a.handleContactSubmit)

	// Authentication
	e.GET("/admin-auth", a.handleAuth)
	e.POST("/admin-auth/login", a.handleSignIn)
	e.POST("/admin-auth/signup", a.handleSignUp)
	e.POST("/admin-auth/logout", a.handleSignOut)

	// Dashboard: one page, view selected with ?view=
	g := e.Group("/admin-dashboard", a.requireAdmin)
	g.GET("", a.handleDashboard)

	g.POST("/trips/save", a.handleTripSave)
	g.POST("/trips/:id/toggle", a.handleTripToggle)
	g.POST("/trips/:id/delete", a.handleTripDelete)

	g.POST("/posts/save", a.handlePostSave)
	g.POST("/posts/:id/toggle", a.handlePostToggle)
	g.POST("/posts/:id/delete", a.handlePostDelete)

	g.POST("/categories/save", a.handleCategorySave)
	g.POST("/categories/:id/delete", a.handleCategoryDelete)

	g.POST("/featured/save", a.handleFeaturedSave)
	g.POST("/featured/:id/activate", a.handleFeaturedActivate)
	g.POST("/featured/:id/deactivate", a.handleFeaturedDeactivate)
	g.POST("/featured/:id/delete", a.handleFeaturedDelete)

	g.POST("/images/upload", a.handleImageUpload)
	g.POST("/images/:bucket/:filename/delete", a.handleImageDelete)

	g.POST("/users/:id/grant", a.handleUserGrant)
	g.POST("/users/:id/revoke", a.handleUserRevoke)

	g.POST("/messages/:id/read", a.handleMessageRead)
	g.POST("/messages/:id/delete", a.handleMessageDelete)

	if a.Config.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

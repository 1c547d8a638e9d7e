// Package partyhub is a social-post studio built with Go, Echo, and templ.
// It turns an uploaded product photo plus a short message into a styled
// social post: a generative model writes the copy, layout templates
// arrange it, and the result exports as a PNG.
//
// Users provide their own templ components via the ViewFuncs struct,
// and partyhub handles the handler logic, middleware, session
// playgrounds, generation, and rendering.
package partyhub

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/partyhub/partyhub/views"
)

// ViewFuncs holds user-provided templ components that the framework
// calls when rendering pages. This is the inversion-of-control
// mechanism that lets users own and customize all templates.
type ViewFuncs struct {
	Playground  func(data views.PageData) templ.Component
	Gallery     func(data views.GalleryData) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App is the central partyhub application. It wires together the
// store, gallery cache, generator, rasterizer, session playgrounds,
// and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Gallery *GalleryCache
	Views   ViewFuncs

	model           GenerativeModel
	generator       *Generator
	rasterizer      *Rasterizer
	exporter        *Exporter
	playgrounds     *PlaygroundRegistry
	generateLimiter *GenerateLimiter
	customRoutes    []func(*App)
	staticDir       string
}

// New creates a new partyhub App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, caches, generator, middleware, and
// routes, then starts the server.
func (a *App) Start() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("partyhub: SessionSecret is required")
	}
	if a.model == nil {
		if a.Config.GeminiAPIKey == "" {
			return fmt.Errorf("partyhub: GeminiAPIKey is required")
		}
		model, err := NewGeminiModel(context.Background(), a.Config.GeminiAPIKey)
		if err != nil {
			return fmt.Errorf("partyhub: init model: %w", err)
		}
		a.model = model
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("partyhub: init store: %w", err)
	}
	a.Store = store

	a.Gallery = NewGalleryCache(a.Store, a.Config.GalleryCacheTTL)

	rasterizer, err := NewRasterizer()
	if err != nil {
		return fmt.Errorf("partyhub: init rasterizer: %w", err)
	}
	a.rasterizer = rasterizer
	a.exporter = NewExporter(rasterizer, a.Config.ExportWidth, a.Config.ExportHeight)

	a.generator = NewGenerator(a.model, a.Config.GeminiModel, a.Config.GenerateTimeout, a.Config.GenerateRate)
	a.playgrounds = NewPlaygroundRegistry(a.Config.PlaygroundTTL)
	a.generateLimiter = NewGenerateLimiter(10, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Pages
	e.GET("/", a.handleHome)
	e.GET("/gallery", a.handleGallery)

	// Stateless generation, mirroring the original one-shot API
	e.POST("/api/generate-post", a.handleGeneratePost)

	// Session playground
	e.GET("/api/playground", a.handlePlaygroundState)
	e.POST("/api/playground/assets/:slot", a.handleAssetUpload)
	e.DELETE("/api/playground/assets/:slot", a.handleAssetDelete)
	e.POST("/api/playground/message", a.handleMessage)
	e.POST("/api/playground/brand", a.handleBrand)
	e.POST("/api/playground/template", a.handleTemplate)
	e.POST("/api/playground/position/:element", a.handlePosition)
	e.POST("/api/playground/generate", a.handleGenerate)
	e.GET("/api/playground/preview.png", a.handlePreview)
	e.POST("/api/playground/export", a.handleExport)

	// Creations gallery
	e.GET("/api/creations", a.handleCreationList)
	e.DELETE("/api/creations/:id", a.handleCreationDelete)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if strings.HasPrefix(c.Request().URL.Path, "/api/") {
		a.apiErrorHandler(err, c)
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// apiErrorHandler keeps the API surface JSON all the way down.
func (a *App) apiErrorHandler(err error, c echo.Context) {
	if he, ok := err.(*echo.HTTPError); ok {
		msg, _ := he.Message.(string)
		if msg == "" {
			msg = http.StatusText(he.Code)
		}
		_ = jsonError(c, he.Code, msg)
		return
	}
	c.Logger().Errorf("api error: %v", err)
	_ = jsonError(c, http.StatusInternalServerError, userMessage(err))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		a.Store.Close()
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

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("partyhub: required environment variable %s is not set", key)
	}
	return v
}

package partyhub

import "time"

// SiteConfig holds all configuration for a partyhub site.
type SiteConfig struct {
	Name        string // Site name (default "PartyHub")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for meta tags
	Author      string // Author name for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path for the creations gallery (default "data/partyhub.db")

	GeminiAPIKey string // Required: key for the generative model
	GeminiModel  string // Model name (default "gemini-1.5-flash-latest")

	SessionSecret string // Required: session cookie encryption secret
	CookieSecure  bool   // Set true for HTTPS

	GenerateTimeout time.Duration // Upper bound on one model call (default 45s)
	GenerateRate    time.Duration // Minimum spacing between model calls (default 2s)
	PlaygroundTTL   time.Duration // Idle lifetime of a session playground (default 30min)
	GalleryCacheTTL time.Duration // Creations list cache TTL (default 5min)

	ExportWidth  int // Export raster width (default 1080)
	ExportHeight int // Export raster height (default 1350)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "PartyHub"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/partyhub.db"
	}
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-1.5-flash-latest"
	}
	if c.GenerateTimeout == 0 {
		c.GenerateTimeout = 45 * time.Second
	}
	if c.GenerateRate == 0 {
		c.GenerateRate = 2 * time.Second
	}
	if c.PlaygroundTTL == 0 {
		c.PlaygroundTTL = 30 * time.Minute
	}
	if c.GalleryCacheTTL == 0 {
		c.GalleryCacheTTL = 5 * time.Minute
	}
	if c.ExportWidth == 0 {
		c.ExportWidth = 1080
	}
	if c.ExportHeight == 0 {
		c.ExportHeight = 1350
	}
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

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithModel swaps the generative model implementation. Used by tests
// and by embedders that front Gemini with their own proxy.
func WithModel(m GenerativeModel) Option {
	return func(a *App) {
		a.model = m
	}
}

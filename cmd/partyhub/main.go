// main.go — partyhub HTTP server
// Builds the app from environment variables and serves the playground.
// Site templates normally come from the embedding project; this binary
// ships a plain fallback set so the API surface runs standalone.
package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/a-h/templ"

	"github.com/partyhub/partyhub"
	"github.com/partyhub/partyhub/views"
)

func main() {
	cfg := partyhub.SiteConfig{
		Name:          partyhub.EnvOr("SITE_NAME", "PartyHub"),
		URL:           partyhub.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   partyhub.EnvOr("SITE_DESCRIPTION", "Turn a photo and a few words into a party-ready social post."),
		Author:        partyhub.EnvOr("SITE_AUTHOR", "PartyHub"),
		Addr:          partyhub.EnvOr("ADDR", ":3000"),
		DatabasePath:  partyhub.EnvOr("DATABASE_PATH", "data/partyhub.db"),
		GeminiAPIKey:  partyhub.MustEnv("GEMINI_API_KEY"),
		GeminiModel:   partyhub.EnvOr("GEMINI_MODEL", ""),
		SessionSecret: partyhub.MustEnv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}

	app := partyhub.New(cfg, fallbackViews())

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Echo.Shutdown(ctx)
		_ = app.Close()
	}()

	if err := app.Start(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// fallbackViews renders bare HTML pages. Embedding projects replace
// these with their own templ components.
func fallbackViews() partyhub.ViewFuncs {
	return partyhub.ViewFuncs{
		Playground: func(data views.PageData) templ.Component {
			return page(data.Site.Name, func(w io.Writer) {
				fmt.Fprintf(w, "<h1>%s</h1><p>%s</p><p>API is live under /api/.</p>",
					data.Site.Name, data.Site.Description)
			})
		},
		Gallery: func(data views.GalleryData) templ.Component {
			return page("Gallery", func(w io.Writer) {
				fmt.Fprint(w, "<h1>Creations</h1><ul>")
				for _, c := range data.Creations {
					fmt.Fprintf(w, "<li>%s</li>", html.EscapeString(c.Headline))
				}
				fmt.Fprint(w, "</ul>")
			})
		},
		NotFound: func() templ.Component {
			return page("Not Found", func(w io.Writer) {
				fmt.Fprint(w, "<h1>404</h1><p>Nothing here.</p>")
			})
		},
		ServerError: func() templ.Component {
			return page("Error", func(w io.Writer) {
				fmt.Fprint(w, "<h1>500</h1><p>Something went wrong.</p>")
			})
		},
	}
}

func page(title string, body func(io.Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, "<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", title)
		body(w)
		fmt.Fprint(w, "</body></html>")
		return nil
	})
}

package partyhub

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	gocache "github.com/patrickmn/go-cache"
)

const (
	sessionName  = "partyhub_session"
	sessionKeyID = "playground_id"
)

// PlaygroundRegistry maps session IDs to live playgrounds. Idle
// playgrounds expire after the configured TTL; the cache janitor
// reclaims them without any bookkeeping here.
type PlaygroundRegistry struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewPlaygroundRegistry creates a registry whose entries live for ttl
// past their last access.
func NewPlaygroundRegistry(ttl time.Duration) *PlaygroundRegistry {
	return &PlaygroundRegistry{
		cache: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// GetOrCreate returns the playground for id, creating it when absent.
// Every access refreshes the entry's TTL.
func (r *PlaygroundRegistry) GetOrCreate(id string) *Playground {
	if v, ok := r.cache.Get(id); ok {
		pg := v.(*Playground)
		r.cache.Set(id, pg, r.ttl)
		return pg
	}
	pg := NewPlayground()
	r.cache.Set(id, pg, r.ttl)
	return pg
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// playgroundID returns the caller's stable playground ID, minting and
// persisting one in the session cookie on first contact. A cookie that
// no longer decodes (e.g. signed under a rotated secret) still yields a
// fresh session from the store, so a new ID is minted instead of
// failing the request.
func playgroundID(c echo.Context) (string, error) {
	sess, err := session.Get(sessionName, c)
	if err != nil && sess == nil {
		return "", err
	}
	if id, ok := sess.Values[sessionKeyID].(string); ok && id != "" {
		return id, nil
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	id := hex.EncodeToString(buf)
	sess.Values[sessionKeyID] = id
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return "", err
	}
	return id, nil
}

// playground resolves the caller's playground from the session cookie.
func (a *App) playground(c echo.Context) (*Playground, string, error) {
	id, err := playgroundID(c)
	if err != nil {
		return nil, "", err
	}
	return a.playgrounds.GetOrCreate(id), id, nil
}

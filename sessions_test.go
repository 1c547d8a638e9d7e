package partyhub

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

func resolveID(t *testing.T, store sessions.Store, cookie *http.Cookie) (string, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/playground", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()

	var id string
	h := session.Middleware(store)(func(c echo.Context) error {
		var err error
		id, err = playgroundID(c)
		if err != nil {
			return err
		}
		return c.NoContent(http.StatusOK)
	})
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("playgroundID: %v", err)
	}
	return id, rec
}

func TestPlaygroundIDMintsAndPersists(t *testing.T) {
	store := sessions.NewCookieStore([]byte("secret"))

	id, rec := resolveID(t, store, nil)
	if len(id) != 32 {
		t.Fatalf("minted id = %q, want 16 random bytes hex encoded", id)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie written")
	}

	again, _ := resolveID(t, store, cookies[0])
	if again != id {
		t.Fatalf("second request id = %q, want stable %q", again, id)
	}
}

func TestPlaygroundIDSurvivesUndecodableCookie(t *testing.T) {
	store := sessions.NewCookieStore([]byte("rotated-secret"))
	stale := &http.Cookie{Name: sessionName, Value: "signed-under-an-old-secret"}

	id, _ := resolveID(t, store, stale)
	if len(id) != 32 {
		t.Fatalf("expected a fresh id for a stale cookie, got %q", id)
	}
}

func TestPlaygroundRegistryReturnsSameInstance(t *testing.T) {
	reg := NewPlaygroundRegistry(time.Minute)
	a := reg.GetOrCreate("one")
	if reg.GetOrCreate("one") != a {
		t.Fatalf("same id returned a different playground")
	}
	if reg.GetOrCreate("two") == a {
		t.Fatalf("distinct ids share a playground")
	}
}

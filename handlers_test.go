package partyhub

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func testApp(model GenerativeModel) *App {
	return &App{
		Echo:            echo.New(),
		generator:       testGenerator(model),
		generateLimiter: NewGenerateLimiter(100, time.Minute),
	}
}

func postGenerate(t *testing.T, a *App, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-post", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := a.Echo.NewContext(req, rec)
	if err := a.handleGeneratePost(c); err != nil {
		t.Fatalf("handleGeneratePost: %v", err)
	}
	return rec
}

func generateBody(t *testing.T, mutate func(map[string]any)) string {
	t.Helper()
	m := map[string]any{
		"postText":    "launch party tonight",
		"brandTone":   BrandTones[0],
		"brandColor":  "#6366F1",
		"base64Image": base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF}),
		"mimeType":    "image/jpeg",
	}
	if mutate != nil {
		mutate(m)
	}
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return string(b)
}

func TestGeneratePostEndpointSuccess(t *testing.T) {
	model := &fakeModel{reply: `{"headline":"Launch!","body":"Join us.","hashtags":["#PartyHub"]}`}
	rec := postGenerate(t, testApp(model), generateBody(t, nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		GeneratedPost PostContent `json:"generatedPost"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.GeneratedPost.Headline != "Launch!" {
		t.Errorf("headline = %q", resp.GeneratedPost.Headline)
	}
}

func TestGeneratePostEndpointMissingFields(t *testing.T) {
	for _, field := range []string{"postText", "brandTone", "brandColor", "base64Image", "mimeType"} {
		model := &fakeModel{reply: "{}"}
		body := generateBody(t, func(m map[string]any) { m[field] = "" })
		rec := postGenerate(t, testApp(model), body)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("missing %s: status = %d, want 400", field, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Missing required fields.") {
			t.Errorf("missing %s: body = %s", field, rec.Body)
		}
		if model.calls != 0 {
			t.Errorf("missing %s: model called", field)
		}
	}
}

func TestGeneratePostEndpointInvalidBase64(t *testing.T) {
	model := &fakeModel{reply: "{}"}
	body := generateBody(t, func(m map[string]any) { m["base64Image"] = "%%%not base64%%%" })
	rec := postGenerate(t, testApp(model), body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if model.calls != 0 {
		t.Errorf("model called with undecodable image")
	}
}

func TestGeneratePostEndpointMalformedReply(t *testing.T) {
	model := &fakeModel{reply: "I refuse to answer in JSON."}
	rec := postGenerate(t, testApp(model), generateBody(t, nil))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == "" {
		t.Errorf("expected user-facing error message")
	}
	if strings.Contains(resp.Error, "refuse") {
		t.Errorf("raw model reply leaked to the user: %q", resp.Error)
	}
}

func TestGeneratePostEndpointRateLimited(t *testing.T) {
	model := &fakeModel{reply: `{"headline":"h","body":"b","hashtags":["#a"]}`}
	a := testApp(model)
	a.generateLimiter = NewGenerateLimiter(1, time.Minute)

	rec := postGenerate(t, a, generateBody(t, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("first call status = %d", rec.Code)
	}
	rec = postGenerate(t, a, generateBody(t, nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second call status = %d, want 429", rec.Code)
	}
}

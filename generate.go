package partyhub

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// GenerativeModel is the boundary to the external multimodal model.
// Implementations return the raw textual reply; parsing happens here so
// every provider is held to the same response contract.
type GenerativeModel interface {
	GenerateContent(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error)
}

// geminiModel calls the Gemini API through the official client.
type geminiModel struct {
	client *genai.Client
}

// NewGeminiModel creates the default Gemini-backed model.
func NewGeminiModel(ctx context.Context, apiKey string) (GenerativeModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiModel{client: client}, nil
}

func (m *geminiModel) GenerateContent(ctx context.Context, model, prompt string, image []byte, mimeType string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, mimeType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := m.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GenerateRequest carries everything one generation call needs. Image
// bytes are the normalized JPEG from the asset pipeline.
type GenerateRequest struct {
	PostText   string
	BrandTone  string
	BrandColor string
	Image      []byte
	MimeType   string
}

// Generator builds the structured prompt, calls the model, and parses
// its reply into a PostContent. All failure paths return one of the
// typed errors from errors.go; nothing escapes as a panic or a raw
// provider error.
type Generator struct {
	model     GenerativeModel
	modelName string
	timeout   time.Duration
	limiter   *rate.Limiter
}

// NewGenerator wires a Generator. minInterval paces outbound calls so a
// burst of users cannot hammer the provider.
func NewGenerator(model GenerativeModel, modelName string, timeout, minInterval time.Duration) *Generator {
	return &Generator{
		model:     model,
		modelName: modelName,
		timeout:   timeout,
		limiter:   rate.NewLimiter(rate.Every(minInterval), 2),
	}
}

// Generate validates the request, calls the model once, and parses the
// reply. Validation failures never reach the network.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) (PostContent, error) {
	if err := validateRequest(req); err != nil {
		return PostContent{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return PostContent{}, &TransportError{Err: err}
	}

	raw, err := g.model.GenerateContent(ctx, g.modelName, buildPrompt(req), req.Image, req.MimeType)
	if err != nil {
		return PostContent{}, &TransportError{Err: err}
	}

	return ParseModelReply(raw)
}

func validateRequest(req GenerateRequest) error {
	text := strings.TrimSpace(req.PostText)
	switch {
	case text == "":
		return &ValidationError{Field: "postText", Reason: "required"}
	case len([]rune(req.PostText)) > MaxMessageChars:
		return &ValidationError{Field: "postText", Reason: fmt.Sprintf("longer than %d characters", MaxMessageChars)}
	case strings.TrimSpace(req.BrandTone) == "":
		return &ValidationError{Field: "brandTone", Reason: "required"}
	case strings.TrimSpace(req.BrandColor) == "":
		return &ValidationError{Field: "brandColor", Reason: "required"}
	case len(req.Image) == 0:
		return &ValidationError{Field: "base64Image", Reason: "required"}
	case strings.TrimSpace(req.MimeType) == "":
		return &ValidationError{Field: "mimeType", Reason: "required"}
	}
	return nil
}

// buildPrompt produces the single strict-JSON instruction sent with the
// image. The schema matches the PostContent wire shape exactly.
func buildPrompt(req GenerateRequest) string {
	return fmt.Sprintf(`**Objective:** Function as a JSON API endpoint. Your entire response must be a single, raw, valid JSON object, without any markdown, comments, or explanations.

**Input Data:**
- **Image:** Provided for visual analysis.
- **Brand Tone:** %q
- **Brand Color:** %q
- **Core Message:** %q

**Strict JSON Output Schema:**
{
  "headline": "A concise, compelling headline based on the core message and tone.",
  "body": "A detailed body text expanding on the message, matching the brand tone.",
  "hashtags": ["An", "array", "of", "3-5", "relevant", "hashtags", "including", "#PartyHub"],
  "layout": {
    "theme": "Either 'light' or 'dark' for optimal text contrast against the image.",
    "textPosition": "The best position for text (e.g., 'bottom-center').",
    "logoPosition": "The best corner for a logo (e.g., 'top-left').",
    "styleSuggestion": "A brief suggestion for visual style."
  }
}

Analyze the image and data, then generate the content. Your response must start with "{" and end with "}".`,
		req.BrandTone, req.BrandColor, req.PostText)
}

var reFencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseModelReply extracts a PostContent from the model's textual
// reply. Precedence: a fenced code block containing JSON, then the
// whole reply as raw JSON, then failure with the raw text retained.
// The result is all-or-nothing: headline, body, and hashtags must all
// parse; layout hints are optional.
func ParseModelReply(raw string) (PostContent, error) {
	candidate := strings.TrimSpace(raw)
	if m := reFencedJSON.FindStringSubmatch(candidate); m != nil {
		candidate = m[1]
	}

	var content PostContent
	if err := json.Unmarshal([]byte(candidate), &content); err != nil {
		return PostContent{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("parse reply: %w", err)}
	}

	content.Hashtags = NormalizeHashtags(content.Hashtags)
	switch {
	case strings.TrimSpace(content.Headline) == "":
		return PostContent{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("reply missing headline")}
	case strings.TrimSpace(content.Body) == "":
		return PostContent{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("reply missing body")}
	case len(content.Hashtags) == 0:
		return PostContent{}, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("reply missing hashtags")}
	}
	return content, nil
}

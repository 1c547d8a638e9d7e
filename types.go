package partyhub

import "strings"

// PostContent is the canonical post record produced by generation and
// consumed by the layout engine. It is replaced wholesale on every
// successful generation, never merged field by field.
type PostContent struct {
	Headline string       `json:"headline"`
	Body     string       `json:"body"`
	Hashtags []string     `json:"hashtags"`
	Layout   *LayoutHints `json:"layout,omitempty"`
}

// Empty reports whether no content has been generated yet.
func (p PostContent) Empty() bool {
	return p.Headline == "" && p.Body == "" && len(p.Hashtags) == 0
}

// LayoutHints carries the model's advisory styling suggestions. The
// layout engine is free to ignore them when a fixed template is active.
type LayoutHints struct {
	Theme           string `json:"theme"` // "light" or "dark"
	TextPosition    string `json:"textPosition"`
	LogoPosition    string `json:"logoPosition"` // one of 9 compass positions
	StyleSuggestion string `json:"styleSuggestion"`
}

// AssetSlot names one of the two upload slots on a playground.
type AssetSlot string

const (
	SlotImage AssetSlot = "image"
	SlotLogo  AssetSlot = "logo"
)

// ValidSlot reports whether s names a known asset slot.
func ValidSlot(s AssetSlot) bool {
	return s == SlotImage || s == SlotLogo
}

// AssetRef holds one uploaded asset after normalization. Data and
// Preview are always set together; a cleared slot is represented by a
// nil *AssetRef, never by a half-populated one.
type AssetRef struct {
	Filename string // original upload filename
	MimeType string // normalized encoding, always "image/jpeg"
	Data     []byte // normalized JPEG bytes
	Preview  string // data URI of Data, for on-screen preview
	Width    int    // normalized pixel width
	Height   int    // normalized pixel height
}

// Element names a free-floating element whose position the user controls.
type Element string

const (
	ElementLogo     Element = "logo"
	ElementHeadline Element = "headline"
)

// ElementPosition is a normalized position: percent of canvas width and
// height, so it survives canvas resizing and template switching.
type ElementPosition struct {
	X float64 `json:"x"` // [0, 100]
	Y float64 `json:"y"` // [0, 100]
}

// CanvasGeometry is the pixel size of whichever rendering surface is
// active. It is only used to convert between percent coordinates and
// absolute pixel deltas; positions themselves never store pixels.
type CanvasGeometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// LayoutTemplate is one of a closed set of named region layouts.
type LayoutTemplate string

const (
	TemplateStandard    LayoutTemplate = "standard"
	TemplateSplit       LayoutTemplate = "split"
	TemplateOverlay     LayoutTemplate = "overlay"
	TemplateFooterFocus LayoutTemplate = "footer-focus"
)

// Templates lists every template in display order.
var Templates = []LayoutTemplate{
	TemplateStandard,
	TemplateSplit,
	TemplateOverlay,
	TemplateFooterFocus,
}

// ParseTemplate maps a wire value to a template. Older clients send
// "default" for the standard layout and the original picker ids for the
// rest; both spellings are accepted.
func ParseTemplate(s string) (LayoutTemplate, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", "default":
		return TemplateStandard, true
	case "split", "image-left":
		return TemplateSplit, true
	case "overlay", "text-overlay":
		return TemplateOverlay, true
	case "footer-focus", "footer":
		return TemplateFooterFocus, true
	}
	return "", false
}

// BrandTones are the selectable tone labels, emoji prefixes included,
// exactly as the picker shows them.
var BrandTones = []string{
	"💼 Friendly & Professional",
	"🎉 Whimsical & Playful",
	"💎 Elegant & Luxurious",
	"✨ Modern & Minimalistic",
}

// MaxMessageChars caps the free-text core message.
const MaxMessageChars = 1000

// Creation is a finished post persisted to the showcase gallery.
type Creation struct {
	ID         string
	Headline   string
	Body       string
	Hashtags   []string
	BrandColor string
	BrandTone  string
	Template   LayoutTemplate
	CreatedAt  string
}

package partyhub

import (
	"context"
	"strings"
	"sync"
)

// PlaygroundState names a point in the session lifecycle. States are
// derived, not stored: presence of assets, message, in-flight work, and
// generated content fully determine them.
type PlaygroundState string

const (
	StateEmpty         PlaygroundState = "empty"
	StateAssetsPartial PlaygroundState = "assets-partial"
	StateReady         PlaygroundState = "ready"
	StateGenerating    PlaygroundState = "generating"
	StateGenerated     PlaygroundState = "generated"
)

// DefaultBrandColor matches the picker's initial swatch.
const DefaultBrandColor = "#6366F1"

// Playground owns all mutable session state: assets, message, brand
// fields, template, positions, and the generated content. The layout
// engine and export pipeline only ever see immutable snapshots taken
// under the mutex. Handlers run concurrently, so unlike the original
// single-threaded event loop every mutation locks.
type Playground struct {
	mu         sync.Mutex
	message    string
	brandTone  string
	brandColor string
	template   LayoutTemplate
	assets     map[AssetSlot]*AssetRef
	positions  *PositionController
	content    PostContent
	generating bool
	lastError  string
}

// NewPlayground creates an empty playground with picker defaults.
func NewPlayground() *Playground {
	return &Playground{
		brandTone:  BrandTones[0],
		brandColor: DefaultBrandColor,
		template:   TemplateStandard,
		assets:     make(map[AssetSlot]*AssetRef, 2),
		positions:  NewPositionController(),
	}
}

// State reports the current lifecycle state.
func (p *Playground) State() PlaygroundState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *Playground) stateLocked() PlaygroundState {
	switch {
	case p.generating:
		return StateGenerating
	case !p.content.Empty():
		return StateGenerated
	case p.readyLocked():
		return StateReady
	case p.assets[SlotImage] != nil || p.assets[SlotLogo] != nil || strings.TrimSpace(p.message) != "":
		return StateAssetsPartial
	}
	return StateEmpty
}

// readyLocked is the readiness predicate: image plus non-empty message.
// The logo is optional.
func (p *Playground) readyLocked() bool {
	return p.assets[SlotImage] != nil && strings.TrimSpace(p.message) != ""
}

// SetAsset stores a normalized asset in slot. A new logo upload resets
// the logo position to the template default so it never inherits a
// stale placement.
func (p *Playground) SetAsset(slot AssetSlot, ref *AssetRef) ElementPosition {
	p.mu.Lock()
	defer p.mu.Unlock()
	wasEmpty := p.assets[slot] == nil
	p.assets[slot] = ref
	pos := p.positions.Get(ElementLogo)
	if slot == SlotLogo && wasEmpty {
		pos = p.positions.Reset(ElementLogo)
	}
	return pos
}

// ClearAsset removes the asset in slot. The ref is dropped whole, so
// bytes and preview disappear in the same transition.
func (p *Playground) ClearAsset(slot AssetSlot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.assets, slot)
}

// Asset returns the current ref for slot, nil when empty.
func (p *Playground) Asset(slot AssetSlot) *AssetRef {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assets[slot]
}

// SetMessage updates the core message.
func (p *Playground) SetMessage(msg string) error {
	if len([]rune(msg)) > MaxMessageChars {
		return &ValidationError{Field: "postText", Reason: "too long"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.message = msg
	return nil
}

// SetBrand updates tone and/or color; empty arguments leave the current
// value untouched. Neither triggers generation.
func (p *Playground) SetBrand(tone, color string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tone != "" {
		p.brandTone = tone
	}
	if color != "" {
		p.brandColor = color
	}
}

// SetTemplate switches the active template. Content, assets, and
// positions are untouched: only the layout interpretation changes.
func (p *Playground) SetTemplate(tpl LayoutTemplate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.template = tpl
}

// Template returns the active template.
func (p *Playground) Template() LayoutTemplate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.template
}

// MovePosition applies a drag-end delta for el against geom.
func (p *Playground) MovePosition(el Element, dx, dy float64, geom CanvasGeometry) (ElementPosition, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !Draggable(p.template, el) {
		return ElementPosition{}, &ValidationError{Field: "element", Reason: "not draggable in this template"}
	}
	return p.positions.Update(el, dx, dy, geom)
}

// Generate runs one generation using the playground's stored inputs.
// A second call while one is outstanding returns ErrBusy. On failure
// the previous content is left untouched and the error message is
// retained for the state snapshot; a new attempt clears it.
func (p *Playground) Generate(ctx context.Context, g *Generator) (PostContent, error) {
	p.mu.Lock()
	if p.generating {
		p.mu.Unlock()
		return PostContent{}, ErrBusy
	}
	if p.assets[SlotImage] == nil {
		p.mu.Unlock()
		return PostContent{}, &ValidationError{Field: "image", Reason: "upload an image before generating"}
	}
	if strings.TrimSpace(p.message) == "" {
		p.mu.Unlock()
		return PostContent{}, &ValidationError{Field: "postText", Reason: "required"}
	}
	p.generating = true
	p.lastError = ""
	req := GenerateRequest{
		PostText:   p.message,
		BrandTone:  p.brandTone,
		BrandColor: p.brandColor,
		Image:      p.assets[SlotImage].Data,
		MimeType:   p.assets[SlotImage].MimeType,
	}
	p.mu.Unlock()

	content, err := g.Generate(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.generating = false
	if err != nil {
		p.lastError = userMessage(err)
		return PostContent{}, err
	}
	// Replaced wholesale, never merged.
	p.content = content
	return content, nil
}

// Snapshot captures everything the layout engine needs under one lock.
type Snapshot struct {
	State      PlaygroundState
	Message    string
	BrandTone  string
	BrandColor string
	Template   LayoutTemplate
	Content    PostContent
	Positions  map[Element]ElementPosition
	Image      *AssetRef
	Logo       *AssetRef
	LastError  string
}

// Snapshot returns a consistent copy of the playground.
func (p *Playground) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		State:      p.stateLocked(),
		Message:    p.message,
		BrandTone:  p.brandTone,
		BrandColor: p.brandColor,
		Template:   p.template,
		Content:    p.content,
		Positions:  p.positions.Snapshot(),
		Image:      p.assets[SlotImage],
		Logo:       p.assets[SlotLogo],
		LastError:  p.lastError,
	}
}

// Resolve produces the visual tree for the playground at geom.
func (s Snapshot) Resolve(geom CanvasGeometry) VisualTree {
	return Resolve(s.Template, s.Content, s.BrandColor, s.Positions, s.Image, s.Logo, geom)
}

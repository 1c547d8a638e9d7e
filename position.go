package partyhub

import "math"

// Per-element drag bounds. The bound leaves room for the element's own
// rendered footprint: the logo occupies the trailing 12% of the canvas,
// the free headline a little more.
const (
	logoBound     = 90.0
	headlineBound = 80.0
)

var defaultPositions = map[Element]ElementPosition{
	ElementLogo:     {X: 5, Y: 5},
	ElementHeadline: {X: 10, Y: 60},
}

// Draggable reports whether el is free-positioned in tpl. The logo is
// draggable everywhere; the headline only in the overlay template,
// where text floats on the image instead of living in a fixed block.
func Draggable(tpl LayoutTemplate, el Element) bool {
	switch el {
	case ElementLogo:
		return true
	case ElementHeadline:
		return tpl == TemplateOverlay
	}
	return false
}

// PositionController tracks normalized element positions and converts
// pixel drag deltas into percentage updates. It is not safe for
// concurrent use; the owning playground serializes access.
type PositionController struct {
	positions map[Element]ElementPosition
}

// NewPositionController seeds every element at its default position.
func NewPositionController() *PositionController {
	pc := &PositionController{positions: make(map[Element]ElementPosition, len(defaultPositions))}
	for el, p := range defaultPositions {
		pc.positions[el] = p
	}
	return pc
}

// Get returns the current position of el.
func (pc *PositionController) Get(el Element) ElementPosition {
	return pc.positions[el]
}

// Snapshot returns a copy of all positions for the layout engine.
func (pc *PositionController) Snapshot() map[Element]ElementPosition {
	out := make(map[Element]ElementPosition, len(pc.positions))
	for el, p := range pc.positions {
		out[el] = p
	}
	return out
}

// Update applies a drag-end pixel delta against the geometry captured
// at drag-end, then clamps. One call per completed gesture; frames in
// between are visual-only and never reach the controller.
func (pc *PositionController) Update(el Element, dx, dy float64, geom CanvasGeometry) (ElementPosition, error) {
	if geom.Width <= 0 || geom.Height <= 0 {
		return ElementPosition{}, &ValidationError{Field: "geometry", Reason: "width and height must be positive"}
	}
	prev := pc.positions[el]
	next := ElementPosition{
		X: prev.X + dx/float64(geom.Width)*100,
		Y: prev.Y + dy/float64(geom.Height)*100,
	}
	next = clampPosition(next, boundFor(el))
	pc.positions[el] = next
	return next, nil
}

// Reset returns el to its default. Called whenever the matching asset
// slot transitions empty→populated so a fresh logo never inherits a
// stale position from a previous image.
func (pc *PositionController) Reset(el Element) ElementPosition {
	p := defaultPositions[el]
	pc.positions[el] = p
	return p
}

func boundFor(el Element) float64 {
	if el == ElementHeadline {
		return headlineBound
	}
	return logoBound
}

func clampPosition(p ElementPosition, bound float64) ElementPosition {
	return ElementPosition{
		X: math.Max(0, math.Min(p.X, bound)),
		Y: math.Max(0, math.Min(p.Y, bound)),
	}
}

package partyhub

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strconv"
	"strings"
)

// RegionKind names the role of one rectangle in a visual tree.
type RegionKind string

const (
	RegionSurface     RegionKind = "surface"     // solid card fill
	RegionBackground  RegionKind = "background"  // blurred, darkened cover fill of the main image
	RegionImage       RegionKind = "image"       // contained main image
	RegionPlaceholder RegionKind = "placeholder" // neutral stand-in when no image is uploaded
	RegionScrim       RegionKind = "scrim"       // translucent overlay behind floating text
	RegionAccent      RegionKind = "accent"      // brand color bar
	RegionLogo        RegionKind = "logo"        // free-positioned logo thumbnail
	RegionHeadline    RegionKind = "headline"
	RegionBody        RegionKind = "body"
	RegionHashtags    RegionKind = "hashtags"
)

// Region is one resolved rectangle: pixel frame, stacking order, and
// either text content with styling or an asset reference.
type Region struct {
	Kind   RegionKind
	Frame  image.Rectangle
	Z      int
	Text   string     // inline-markup text for text regions
	Color  color.RGBA // fill color or text color
	Bold   bool       // base face for text regions
	FontPx float64    // resolved font size in pixels
	Asset  *AssetRef  // image and logo regions
}

// VisualTree is the renderer-agnostic output of layout resolution:
// every region of one template instantiation with resolved geometry,
// ordered back to front.
type VisualTree struct {
	Template LayoutTemplate
	Geometry CanvasGeometry
	Regions  []Region
}

// Resolve maps template, content, brand color, element positions, asset
// snapshots, and a concrete canvas geometry to a visual tree. It is
// pure: no I/O, no mutation of inputs, and identical inputs always
// produce a structurally identical tree. Percent positions are
// converted against geometry on every call so relative placement
// survives any surface resize.
//
// An unknown template is a programming error and panics: the set is
// closed and wire values are validated long before this point.
func Resolve(tpl LayoutTemplate, content PostContent, brandColor string, positions map[Element]ElementPosition, imageRef, logoRef *AssetRef, geom CanvasGeometry) VisualTree {
	w := float64(geom.Width)
	h := float64(geom.Height)
	accent := parseHexColor(brandColor, slate900)

	var regions []Region
	switch tpl {
	case TemplateStandard:
		imageArea := rect(0, 0, w, minf(w, 0.8*h))
		regions = append(regions, Region{Kind: RegionSurface, Frame: rect(0, 0, w, h), Z: 0, Color: white})
		regions = append(regions, imageRegions(imageArea, imageRef)...)
		textArea := rect(0, float64(imageArea.Max.Y), w, h)
		regions = append(regions, textBlock(textArea, content, accent, slate800, w, false)...)

	case TemplateSplit:
		regions = append(regions, Region{Kind: RegionSurface, Frame: rect(0, 0, w, h), Z: 0, Color: white})
		regions = append(regions, imageRegions(rect(0, 0, 0.5*w, h), imageRef)...)
		textArea := rect(0.5*w, 0.18*h, w, h)
		regions = append(regions, textBlock(textArea, content, accent, slate800, w, false)...)

	case TemplateOverlay:
		regions = append(regions, Region{Kind: RegionSurface, Frame: rect(0, 0, w, h), Z: 0, Color: black})
		regions = append(regions, imageRegions(rect(0, 0, w, h), imageRef)...)
		textColor := white
		if content.Layout != nil && content.Layout.Theme == "light" {
			textColor = slate900
		}
		if !content.Empty() {
			regions = append(regions, Region{Kind: RegionScrim, Frame: rect(0, 0.55*h, w, h), Z: 3, Color: color.RGBA{0, 0, 0, 140}})
		}
		textArea := rect(0, 0.6*h, w, h)
		if hp, ok := positions[ElementHeadline]; ok && Draggable(tpl, ElementHeadline) {
			textArea = rect(hp.X/100*w, hp.Y/100*h, w, h)
		}
		regions = append(regions, textBlock(textArea, content, accent, textColor, w, true)...)

	case TemplateFooterFocus:
		imageArea := rect(0, 0, w, 0.7*h)
		regions = append(regions, Region{Kind: RegionSurface, Frame: rect(0, 0, w, h), Z: 0, Color: white})
		regions = append(regions, imageRegions(imageArea, imageRef)...)
		regions = append(regions, Region{Kind: RegionAccent, Frame: rect(0, 0.7*h, w, 0.7*h+0.006*h), Z: 3, Color: accent})
		footer := rect(0, 0.7*h+0.006*h, w, h)
		regions = append(regions, textBlock(footer, content, accent, slate800, w, false)...)

	default:
		panic(fmt.Sprintf("partyhub: unknown layout template %q", tpl))
	}

	if logoRef != nil {
		lp := positions[ElementLogo]
		side := 0.12 * w
		x := lp.X / 100 * w
		y := lp.Y / 100 * h
		regions = append(regions, Region{
			Kind:  RegionLogo,
			Frame: rect(x, y, x+side, y+side),
			Z:     40,
			Asset: logoRef,
		})
	}

	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Z < regions[j].Z })
	return VisualTree{Template: tpl, Geometry: geom, Regions: regions}
}

// imageRegions fills area with the blurred cover background and the
// contained main image, or with a neutral placeholder of identical
// size and stacking when no image is uploaded. Other regions never
// shift between the two cases.
func imageRegions(area image.Rectangle, ref *AssetRef) []Region {
	if ref == nil {
		return []Region{{Kind: RegionPlaceholder, Frame: area, Z: 2, Color: slate200}}
	}
	return []Region{
		{Kind: RegionBackground, Frame: area, Z: 1, Asset: ref},
		{Kind: RegionImage, Frame: area, Z: 2, Asset: ref},
	}
}

// textBlock lays out headline, body, and hashtags inside area, top to
// bottom, with sizes derived from the canvas width so the same content
// renders proportionally at any resolution. Hashtags sit at the bottom
// of the block and the whole region set is omitted for empty content.
func textBlock(area image.Rectangle, content PostContent, accent, body color.RGBA, canvasW float64, floating bool) []Region {
	if content.Empty() {
		return nil
	}

	pad := 0.045 * canvasW
	headlinePx := 0.05 * canvasW
	bodyPx := 0.03 * canvasW
	tagPx := 0.034 * canvasW

	x0 := float64(area.Min.X) + pad
	x1 := float64(area.Max.X) - pad
	y := float64(area.Min.Y) + pad
	if floating {
		// Floating blocks are anchored at their position, not padded
		// against a container edge.
		x0 = float64(area.Min.X) + pad/2
		y = float64(area.Min.Y)
	}

	var regions []Region
	if content.Headline != "" {
		frame := rect(x0, y, x1, y+2.4*headlinePx)
		regions = append(regions, Region{Kind: RegionHeadline, Frame: frame, Z: 4, Text: content.Headline, Color: accent, Bold: true, FontPx: headlinePx})
		y = float64(frame.Max.Y)
	}
	if content.Body != "" {
		frame := rect(x0, y, x1, y+4.5*bodyPx)
		regions = append(regions, Region{Kind: RegionBody, Frame: frame, Z: 4, Text: content.Body, Color: body, FontPx: bodyPx})
		y = float64(frame.Max.Y)
	}
	if len(content.Hashtags) > 0 {
		bottom := float64(area.Max.Y) - pad
		top := maxf(y, bottom-1.6*tagPx)
		tagColor := body
		tagColor.A = 230
		regions = append(regions, Region{
			Kind:   RegionHashtags,
			Frame:  rect(x0, top, x1, bottom),
			Z:      4,
			Text:   strings.Join(content.Hashtags, " "),
			Color:  tagColor,
			FontPx: tagPx,
		})
	}
	return regions
}

var (
	white    = color.RGBA{255, 255, 255, 255}
	black    = color.RGBA{0, 0, 0, 255}
	slate200 = color.RGBA{226, 232, 240, 255}
	slate800 = color.RGBA{30, 41, 59, 255}
	slate900 = color.RGBA{15, 23, 42, 255}
)

// parseHexColor converts "#rrggbb" to color.RGBA, falling back when the
// string is malformed.
func parseHexColor(hex string, fallback color.RGBA) color.RGBA {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return fallback
	}
	r, err1 := strconv.ParseUint(hex[0:2], 16, 8)
	g, err2 := strconv.ParseUint(hex[2:4], 16, 8)
	b, err3 := strconv.ParseUint(hex[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return fallback
	}
	return color.RGBA{uint8(r), uint8(g), uint8(b), 255}
}

func rect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(int(x0+0.5), int(y0+0.5), int(x1+0.5), int(y1+0.5))
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

package partyhub

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/partyhub/partyhub/markup"
)

const (
	rasterDPI  = 72
	lineSpread = 1.35 // line height multiplier
	blurFactor = 20   // background blur approximation: downscale ratio
)

// Rasterizer draws a resolved visual tree onto an RGBA canvas. It holds
// the parsed font variants and is safe for concurrent use: faces are
// created per call, the parsed fonts are read-only.
type Rasterizer struct {
	regular    *opentype.Font
	bold       *opentype.Font
	italic     *opentype.Font
	boldItalic *opentype.Font
}

// NewRasterizer parses the embedded Go font family. The same faces are
// used for preview and export so the two never disagree on wrapping.
func NewRasterizer() (*Rasterizer, error) {
	r := &Rasterizer{}
	var err error
	if r.regular, err = opentype.Parse(goregular.TTF); err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	if r.bold, err = opentype.Parse(gobold.TTF); err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}
	if r.italic, err = opentype.Parse(goitalic.TTF); err != nil {
		return nil, fmt.Errorf("parse italic font: %w", err)
	}
	if r.boldItalic, err = opentype.Parse(gobolditalic.TTF); err != nil {
		return nil, fmt.Errorf("parse bold italic font: %w", err)
	}
	return r, nil
}

// Render rasterizes tree at its resolved geometry. Regions arrive back
// to front, so a simple forward pass paints correctly.
func (r *Rasterizer) Render(tree VisualTree) (*image.RGBA, error) {
	if tree.Geometry.Width <= 0 || tree.Geometry.Height <= 0 {
		return nil, &RenderError{Err: fmt.Errorf("invalid geometry %dx%d", tree.Geometry.Width, tree.Geometry.Height)}
	}
	canvas := image.NewRGBA(image.Rect(0, 0, tree.Geometry.Width, tree.Geometry.Height))

	for _, reg := range tree.Regions {
		switch reg.Kind {
		case RegionSurface, RegionPlaceholder, RegionAccent:
			draw.Draw(canvas, reg.Frame, &image.Uniform{reg.Color}, image.Point{}, draw.Src)
		case RegionScrim:
			draw.Draw(canvas, reg.Frame, &image.Uniform{reg.Color}, image.Point{}, draw.Over)
		case RegionBackground:
			if err := r.drawBackground(canvas, reg); err != nil {
				return nil, &RenderError{Err: err}
			}
		case RegionImage, RegionLogo:
			if err := r.drawContained(canvas, reg); err != nil {
				return nil, &RenderError{Err: err}
			}
		case RegionHeadline, RegionBody, RegionHashtags:
			if err := r.drawText(canvas, reg); err != nil {
				return nil, &RenderError{Err: err}
			}
		default:
			return nil, &RenderError{Err: fmt.Errorf("unknown region kind %q", reg.Kind)}
		}
	}
	return canvas, nil
}

// drawBackground paints a blurred, darkened cover fill of the asset.
// The blur is approximated by scaling the source far down and back up,
// which is cheap and close enough to a gaussian at this strength.
func (r *Rasterizer) drawBackground(canvas *image.RGBA, reg Region) error {
	src, err := DecodeAsset(reg.Asset)
	if err != nil {
		return err
	}

	frame := reg.Frame
	tiny := image.NewRGBA(image.Rect(0, 0, maxInt(frame.Dx()/blurFactor, 1), maxInt(frame.Dy()/blurFactor, 1)))
	draw.ApproxBiLinear.Scale(tiny, tiny.Bounds(), src, coverRect(src.Bounds(), frame), draw.Src, nil)
	draw.CatmullRom.Scale(canvas, frame, tiny, tiny.Bounds(), draw.Src, nil)

	// brightness-50 equivalent
	draw.Draw(canvas, frame, &image.Uniform{color.RGBA{0, 0, 0, 128}}, image.Point{}, draw.Over)
	return nil
}

// drawContained scales the asset to fit entirely inside the frame,
// preserving aspect ratio, centered.
func (r *Rasterizer) drawContained(canvas *image.RGBA, reg Region) error {
	src, err := DecodeAsset(reg.Asset)
	if err != nil {
		return err
	}
	dst := containRect(src.Bounds(), reg.Frame)
	draw.CatmullRom.Scale(canvas, dst, src, src.Bounds(), draw.Over, nil)
	return nil
}

// styledWord is one word with its resolved style, the unit of wrapping.
type styledWord struct {
	text   string
	bold   bool
	italic bool
}

// drawText wraps the region's inline-markup text to the frame width and
// draws it line by line, clipping at the frame bottom.
func (r *Rasterizer) drawText(canvas *image.RGBA, reg Region) error {
	words := splitStyled(reg.Text, reg.Bold)
	if len(words) == 0 {
		return nil
	}

	faces := make(map[[2]bool]font.Face, 4)
	faceFor := func(bold, italic bool) (font.Face, error) {
		key := [2]bool{bold, italic}
		if f, ok := faces[key]; ok {
			return f, nil
		}
		f, err := r.newFace(bold, italic, reg.FontPx)
		if err != nil {
			return nil, err
		}
		faces[key] = f
		return f, nil
	}

	maxWidth := reg.Frame.Dx()
	lineHeight := int(reg.FontPx * lineSpread)

	var lines [][]styledWord
	var line []styledWord
	lineWidth := 0
	for _, word := range words {
		face, err := faceFor(word.bold, word.italic)
		if err != nil {
			return err
		}
		wordWidth := font.MeasureString(face, word.text).Ceil()
		spaceWidth := 0
		if len(line) > 0 {
			spaceWidth = font.MeasureString(face, " ").Ceil()
		}
		if len(line) > 0 && lineWidth+spaceWidth+wordWidth > maxWidth {
			lines = append(lines, line)
			line = nil
			lineWidth = 0
			spaceWidth = 0
		}
		line = append(line, word)
		lineWidth += spaceWidth + wordWidth
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}

	y := reg.Frame.Min.Y
	for _, ln := range lines {
		y += lineHeight
		if y > reg.Frame.Max.Y {
			break // clip overflowing text instead of bleeding into the next region
		}
		x := reg.Frame.Min.X
		for i, word := range ln {
			face, err := faceFor(word.bold, word.italic)
			if err != nil {
				return err
			}
			text := word.text
			if i > 0 {
				text = " " + text
			}
			d := &font.Drawer{
				Dst:  canvas,
				Src:  image.NewUniform(reg.Color),
				Face: face,
				Dot:  fixed.P(x, y),
			}
			d.DrawString(text)
			x += font.MeasureString(face, text).Ceil()
		}
	}
	return nil
}

func (r *Rasterizer) newFace(bold, italic bool, sizePx float64) (font.Face, error) {
	var f *opentype.Font
	switch {
	case bold && italic:
		f = r.boldItalic
	case bold:
		f = r.bold
	case italic:
		f = r.italic
	default:
		f = r.regular
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     rasterDPI,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return face, nil
}

// splitStyled flattens inline markup into words carrying their style.
// baseBold applies the region's own weight (headlines) on top of any
// markup emphasis.
func splitStyled(text string, baseBold bool) []styledWord {
	var words []styledWord
	for _, seg := range markup.Segments(text) {
		for _, w := range strings.Fields(seg.Text) {
			words = append(words, styledWord{
				text:   w,
				bold:   baseBold || seg.Bold,
				italic: seg.Italic,
			})
		}
	}
	return words
}

// coverRect returns the sub-rectangle of src that fills dst's aspect
// ratio, cropping the longer axis (CSS object-fit: cover).
func coverRect(src image.Rectangle, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return src
	}
	if sw*dh > dw*sh {
		// source wider than target: crop width
		cw := dw * sh / dh
		x := src.Min.X + (sw-cw)/2
		return image.Rect(x, src.Min.Y, x+cw, src.Max.Y)
	}
	ch := dh * sw / dw
	y := src.Min.Y + (sh-ch)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+ch)
}

// containRect returns the centered rectangle inside dst that preserves
// src's aspect ratio (CSS object-fit: contain).
func containRect(src image.Rectangle, dst image.Rectangle) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	dw, dh := dst.Dx(), dst.Dy()
	if sw == 0 || sh == 0 {
		return dst
	}
	w, h := dw, sh*dw/sw
	if h > dh {
		w, h = sw*dh/sh, dh
	}
	x := dst.Min.X + (dw-w)/2
	y := dst.Min.Y + (dh-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package partyhub

import (
	"image/color"
	"reflect"
	"testing"
)

func testContent() PostContent {
	return PostContent{
		Headline: "Launch Day",
		Body:     "Doors open at eight.",
		Hashtags: []string{"#PartyHub", "#Launch"},
	}
}

func testPositions() map[Element]ElementPosition {
	return map[Element]ElementPosition{
		ElementLogo:     {X: 5, Y: 5},
		ElementHeadline: {X: 10, Y: 60},
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	ref := &AssetRef{Filename: "photo.jpg", MimeType: "image/jpeg"}
	geom := CanvasGeometry{Width: 1080, Height: 1350}
	for _, tpl := range Templates {
		a := Resolve(tpl, testContent(), "#6366F1", testPositions(), ref, nil, geom)
		b := Resolve(tpl, testContent(), "#6366F1", testPositions(), ref, nil, geom)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Resolve(%q) not deterministic", tpl)
		}
	}
}

func TestResolveDoesNotMutateInputs(t *testing.T) {
	positions := testPositions()
	content := testContent()
	Resolve(TemplateOverlay, content, "#6366F1", positions, nil, nil, CanvasGeometry{Width: 500, Height: 600})
	if !reflect.DeepEqual(positions, testPositions()) {
		t.Fatalf("positions mutated: %+v", positions)
	}
	if !reflect.DeepEqual(content, testContent()) {
		t.Fatalf("content mutated: %+v", content)
	}
}

func TestResolvePlaceholderKeepsOtherRegionsStable(t *testing.T) {
	ref := &AssetRef{Filename: "photo.jpg"}
	geom := CanvasGeometry{Width: 1080, Height: 1350}
	withImage := Resolve(TemplateStandard, testContent(), "#6366F1", testPositions(), ref, nil, geom)
	without := Resolve(TemplateStandard, testContent(), "#6366F1", testPositions(), nil, nil, geom)

	strip := func(tree VisualTree) []Region {
		var out []Region
		for _, r := range tree.Regions {
			switch r.Kind {
			case RegionImage, RegionBackground, RegionPlaceholder:
				continue
			}
			out = append(out, r)
		}
		return out
	}
	if !reflect.DeepEqual(strip(withImage), strip(without)) {
		t.Fatalf("non-image regions shifted between placeholder and image")
	}
}

func TestResolvePlaceholderFillsImageArea(t *testing.T) {
	geom := CanvasGeometry{Width: 1000, Height: 1000}
	tree := Resolve(TemplateStandard, PostContent{}, "#6366F1", testPositions(), nil, nil, geom)
	var found bool
	for _, r := range tree.Regions {
		if r.Kind == RegionPlaceholder {
			found = true
			if r.Frame.Dx() != 1000 || r.Frame.Dy() != 800 {
				t.Errorf("placeholder frame = %v, want 1000x800", r.Frame)
			}
		}
		if r.Kind == RegionImage || r.Kind == RegionBackground {
			t.Errorf("unexpected %q region with nil image", r.Kind)
		}
	}
	if !found {
		t.Fatalf("no placeholder region")
	}
}

func TestResolveStandardTextBelowImage(t *testing.T) {
	geom := CanvasGeometry{Width: 1000, Height: 1500}
	tree := Resolve(TemplateStandard, testContent(), "#6366F1", testPositions(), nil, nil, geom)

	imageBottom := -1
	for _, r := range tree.Regions {
		if r.Kind == RegionPlaceholder {
			imageBottom = r.Frame.Max.Y
		}
	}
	if imageBottom != 1000 {
		t.Fatalf("image area bottom = %d, want min(w, 0.8h) = 1000", imageBottom)
	}
	for _, r := range tree.Regions {
		switch r.Kind {
		case RegionHeadline, RegionBody, RegionHashtags:
			if r.Frame.Min.Y < imageBottom {
				t.Errorf("%q region starts at y=%d, above the image bottom %d", r.Kind, r.Frame.Min.Y, imageBottom)
			}
		}
	}
}

func TestResolveOmitsTextForEmptyContent(t *testing.T) {
	tree := Resolve(TemplateStandard, PostContent{}, "#6366F1", testPositions(), nil, nil, CanvasGeometry{Width: 500, Height: 600})
	for _, r := range tree.Regions {
		switch r.Kind {
		case RegionHeadline, RegionBody, RegionHashtags:
			t.Errorf("unexpected %q region for empty content", r.Kind)
		}
	}
}

func TestResolveOmitsEmptyHashtags(t *testing.T) {
	content := testContent()
	content.Hashtags = nil
	tree := Resolve(TemplateStandard, content, "#6366F1", testPositions(), nil, nil, CanvasGeometry{Width: 500, Height: 600})
	for _, r := range tree.Regions {
		if r.Kind == RegionHashtags {
			t.Errorf("hashtags region present for empty tag list")
		}
	}
}

func TestResolveLogoFollowsPosition(t *testing.T) {
	logo := &AssetRef{Filename: "logo.png"}
	positions := testPositions()
	positions[ElementLogo] = ElementPosition{X: 50, Y: 25}
	tree := Resolve(TemplateStandard, testContent(), "#6366F1", positions, nil, logo, CanvasGeometry{Width: 1000, Height: 1000})

	var found bool
	for _, r := range tree.Regions {
		if r.Kind == RegionLogo {
			found = true
			if r.Frame.Min.X != 500 || r.Frame.Min.Y != 250 {
				t.Errorf("logo frame origin = %v, want (500,250)", r.Frame.Min)
			}
			if r.Frame.Dx() != 120 {
				t.Errorf("logo width = %d, want 12%% of canvas", r.Frame.Dx())
			}
		}
	}
	if !found {
		t.Fatalf("no logo region")
	}
}

func TestResolveRegionsSortedByZ(t *testing.T) {
	ref := &AssetRef{Filename: "photo.jpg"}
	logo := &AssetRef{Filename: "logo.png"}
	for _, tpl := range Templates {
		tree := Resolve(tpl, testContent(), "#6366F1", testPositions(), ref, logo, CanvasGeometry{Width: 1080, Height: 1350})
		for i := 1; i < len(tree.Regions); i++ {
			if tree.Regions[i-1].Z > tree.Regions[i].Z {
				t.Errorf("%q regions out of z order at %d", tpl, i)
			}
		}
	}
}

func TestResolveOverlayHeadlinePosition(t *testing.T) {
	positions := testPositions()
	positions[ElementHeadline] = ElementPosition{X: 20, Y: 30}
	tree := Resolve(TemplateOverlay, testContent(), "#6366F1", positions, nil, nil, CanvasGeometry{Width: 1000, Height: 1000})
	for _, r := range tree.Regions {
		if r.Kind == RegionHeadline {
			if r.Frame.Min.Y != 300 {
				t.Errorf("overlay headline y = %d, want 300", r.Frame.Min.Y)
			}
			return
		}
	}
	t.Fatalf("no headline region")
}

func TestResolveUnknownTemplatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown template")
		}
	}()
	Resolve(LayoutTemplate("bogus"), PostContent{}, "", nil, nil, nil, CanvasGeometry{Width: 10, Height: 10})
}

func TestParseHexColor(t *testing.T) {
	fallback := color.RGBA{1, 2, 3, 255}
	tests := []struct {
		input    string
		expected color.RGBA
	}{
		{"#6366F1", color.RGBA{0x63, 0x66, 0xF1, 255}},
		{"6366f1", color.RGBA{0x63, 0x66, 0xF1, 255}},
		{"#fff", fallback},
		{"not-a-color", fallback},
		{"", fallback},
	}
	for _, tt := range tests {
		if got := parseHexColor(tt.input, fallback); got != tt.expected {
			t.Errorf("parseHexColor(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseTemplateAliases(t *testing.T) {
	tests := []struct {
		input    string
		expected LayoutTemplate
	}{
		{"standard", TemplateStandard},
		{"default", TemplateStandard},
		{"image-left", TemplateSplit},
		{"text-overlay", TemplateOverlay},
		{"footer", TemplateFooterFocus},
		{" Footer-Focus ", TemplateFooterFocus},
	}
	for _, tt := range tests {
		got, ok := ParseTemplate(tt.input)
		if !ok || got != tt.expected {
			t.Errorf("ParseTemplate(%q) = %q, %v, want %q", tt.input, got, ok, tt.expected)
		}
	}
	if _, ok := ParseTemplate("circle"); ok {
		t.Errorf("ParseTemplate accepted unknown id")
	}
}

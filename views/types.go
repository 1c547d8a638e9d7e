package views

// SiteConfig holds the site-wide settings handed to every template so
// nothing is hardcoded in user-owned views.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// TemplateOption is one entry in the layout template picker.
type TemplateOption struct {
	ID   string
	Name string
}

// PageData is everything the playground shell needs to render.
type PageData struct {
	Site            SiteConfig
	BrandTones      []string
	Templates       []TemplateOption
	MaxMessageChars int
}

// Creation is a finished post rendered in the gallery marquee.
type Creation struct {
	ID         string
	Headline   string
	Body       string
	Hashtags   []string
	BrandColor string
	CreatedAt  string
}

// GalleryData is the data for the gallery page.
type GalleryData struct {
	Site      SiteConfig
	Creations []Creation
}

package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"

	"github.com/a-h/templ"

	"github.com/partyhub/partyhub/markup"
)

// buildURL joins path segments onto a base URL, ensuring a trailing slash.
func buildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// CreationURL returns the canonical URL of a gallery creation.
func CreationURL(site SiteConfig, c Creation) string {
	return buildURL(site.URL, "gallery", c.ID)
}

// Headline renders a creation headline with its inline markup resolved.
func Headline(c Creation) templ.Component {
	return markup.Inline(c.Headline)
}

// Body renders a creation body with its inline markup resolved.
func Body(c Creation) templ.Component {
	return markup.Inline(c.Body)
}

// JoinHashtags joins hashtags with a single space for display.
func JoinHashtags(tags []string) string {
	return strings.Join(tags, " ")
}

// PathEscape wraps url.PathEscape for use in templ expressions.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JSONLD returns schema.org structured data for a gallery creation.
func JSONLD(site SiteConfig, c Creation) string {
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "CreativeWork",
		"headline":      markup.Strip(c.Headline),
		"text":          markup.Strip(c.Body),
		"keywords":      strings.Join(c.Hashtags, ","),
		"dateCreated":   c.CreatedAt,
		"url":           CreationURL(site, c),
		"author":        map[string]any{"@type": "Person", "name": site.Author},
		"copyrightYear": strings.SplitN(c.CreatedAt, "-", 2)[0],
	}
	b, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(b)
}

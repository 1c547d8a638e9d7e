package partyhub

import (
	"fmt"
	"strings"
	"time"
)

// Slugify converts a headline to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizeHashtags trims each tag, drops empties, and ensures the "#"
// prefix. Order is preserved and duplicates are kept: display order is
// the model's choice and not semantically meaningful.
func NormalizeHashtags(tags []string) []string {
	var out []string
	for _, t := range FilterEmpty(tags) {
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		out = append(out, t)
	}
	return out
}

// ExportFilename returns the download name for an export started at ts.
func ExportFilename(ts time.Time) string {
	return fmt.Sprintf("partyhub-post-%d.png", ts.UnixMilli())
}

// JoinHashtags joins tags with a single space for display.
func JoinHashtags(tags []string) string {
	return strings.Join(tags, " ")
}

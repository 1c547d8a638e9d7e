// Package markup renders the allow-listed inline markup permitted in
// generated post text: bold and italic only. Model and user text is
// HTML-escaped before any tag is produced, so nothing an upstream reply
// contains can inject markup beyond <strong> and <em>.
package markup

import (
	"bytes"
	"context"
	"html"
	"io"
	"regexp"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
)

// Inline returns a templ.Component that renders s with bold/italic
// resolved and everything else escaped.
func Inline(s string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderInline(s))
		return err
	})
}

// RenderInline converts s to HTML. Only **bold**, __bold__, *italic*
// and _italic_ produce tags; all other characters are escaped verbatim.
func RenderInline(s string) string {
	out := html.EscapeString(s)
	out = reBold.ReplaceAllString(out, "<strong>$1</strong>")
	out = reBoldUnderscore.ReplaceAllString(out, "<strong>$1</strong>")
	out = reItalic.ReplaceAllString(out, "<em>$1</em>")
	out = reItalicUnderscore.ReplaceAllString(out, "<em>$1</em>")
	return out
}

// Strip removes markup delimiters, leaving plain text.
func Strip(s string) string {
	var buf bytes.Buffer
	for _, seg := range Segments(s) {
		buf.WriteString(seg.Text)
	}
	return buf.String()
}

// Segment is a run of text with uniform styling, for renderers that
// draw text themselves instead of emitting HTML.
type Segment struct {
	Text   string
	Bold   bool
	Italic bool
}

// Segments splits s into styled runs. Bold spans are resolved first,
// then italic spans inside and between them, mirroring the precedence
// RenderInline applies.
func Segments(s string) []Segment {
	var out []Segment
	for _, b := range splitSpans(s, reBold, reBoldUnderscore) {
		for _, i := range splitSpans(b.text, reItalic, reItalicUnderscore) {
			if i.text == "" {
				continue
			}
			out = append(out, Segment{Text: i.text, Bold: b.marked, Italic: i.marked})
		}
	}
	return out
}

type span struct {
	text   string
	marked bool
}

// splitSpans cuts s into alternating unmarked/marked runs using the
// first matching delimiter pattern at each position.
func splitSpans(s string, res ...*regexp.Regexp) []span {
	var out []span
	for len(s) > 0 {
		best := -1
		var loc []int
		for _, re := range res {
			if m := re.FindStringSubmatchIndex(s); m != nil && (best == -1 || m[0] < best) {
				best = m[0]
				loc = m
			}
		}
		if loc == nil {
			out = append(out, span{text: s})
			break
		}
		if loc[0] > 0 {
			out = append(out, span{text: s[:loc[0]]})
		}
		out = append(out, span{text: s[loc[2]:loc[3]], marked: true})
		s = s[loc[1]:]
	}
	return out
}

package web

import (
	"bytes"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Post bodies may embed raw HTML; everything goes through the sanitizer
// afterwards, so the renderer itself runs unsafe.
var (
	postMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	postPolicy = newPostPolicy()
)

// footnoteClass matches the classes goldmark puts on footnote markup.
var footnoteClass = regexp.MustCompile(`^(footnotes|footnote-ref|footnote-backref)$`)

// newPostPolicy is the UGC policy, which already keeps heading and footnote
// ids, plus the footnote classes so they can be styled.
func newPostPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(footnoteClass).OnElements("a", "div", "section")
	return p
}

// RenderMarkdown renders a post body to sanitized HTML. Headings get
// anchor IDs so posts can link to their own sections.
func RenderMarkdown(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := postMarkdown.Convert([]byte(src), &buf); err != nil {
		// Fall back to the escaped source rather than dropping the post.
		return postPolicy.Sanitize(src)
	}
	return postPolicy.SanitizeReader(&buf).String()
}

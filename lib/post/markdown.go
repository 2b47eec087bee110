package post

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"
)

const markdownExtensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_STRIKETHROUGH |
	blackfriday.EXTENSION_SPACE_HEADERS |
	blackfriday.EXTENSION_HEADER_IDS |
	blackfriday.EXTENSION_FOOTNOTES

var (
	sanitationPolicy *bluemonday.Policy
	languageClass    = regexp.MustCompile(`^[a-zA-Z0-9_+-]+$`)
)

func init() {
	sanitationPolicy = bluemonday.UGCPolicy()
	sanitationPolicy.AllowAttrs("class").OnElements("div", "span", "code")
}

// A MarkdownFunc converts a markdown document to HTML.
type MarkdownFunc func(src []byte) []byte

// mkdHTMLRenderer wraps fenced code blocks that name a language in a div
// carrying that language as a class, for stylesheets to hook onto.
type mkdHTMLRenderer struct {
	blackfriday.Renderer
}

func (h *mkdHTMLRenderer) BlockCode(out *bytes.Buffer, text []byte, lang string) {
	fields := strings.Fields(lang)
	if len(fields) == 0 || !languageClass.MatchString(fields[0]) {
		h.Renderer.BlockCode(out, text, lang)
		return
	}
	out.WriteString(`<div class="code code-` + fields[0] + `">`)
	h.Renderer.BlockCode(out, text, lang)
	out.WriteString(`</div>`)
}

// The blackfriday HTML renderer keeps per-document state, so each call
// gets its own.
func newMkdHTMLRenderer() *mkdHTMLRenderer {
	return &mkdHTMLRenderer{blackfriday.HtmlRenderer(blackfriday.HTML_SAFELINK|
		blackfriday.HTML_NOFOLLOW_LINKS, "", "")}
}

// Markdown renders src as HTML and strips anything a post should not be
// able to inject (scripts, event handlers, unsafe links).
func Markdown(src []byte) []byte {
	md := blackfriday.Markdown(src, newMkdHTMLRenderer(), markdownExtensions)
	return sanitationPolicy.SanitizeBytes(md)
}

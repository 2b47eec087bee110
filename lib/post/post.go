// Package post turns post files into the records page templates render.
//
// A post file is a frontmatter header, a line consisting of "+++", and a
// markdown body:
//
//	title: some text
//	date: 2015-12-01
//	+++
//	... post contents ...
package post

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultDateLayout is the layout of the date frontmatter key unless
// DateLayoutOption says otherwise.
const DefaultDateLayout = "2006-01-02"

var frontmatterSeparator = regexp.MustCompile(`(?m)^\+\+\+\r?$`)

// Date is a post's date. It prints in the layout it was parsed with, and
// exposes everything time.Time does (post.date.year works in templates).
type Date struct {
	time.Time
	Layout string
}

func (d Date) String() string {
	return d.Format(d.Layout)
}

// Post is a parsed post.
type Post struct {
	Title       string
	Slug        string
	Path        string
	RelativeDir string
	Date        Date
	Meta        map[string]string

	// Body and Leader are rendered HTML; Source is the markdown body.
	Body   string
	Leader string
	Source string
}

// BodyMarkup is Body, under the name older templates use.
func (p *Post) BodyMarkup() string {
	return p.Body
}

func (p *Post) String() string {
	return fmt.Sprintf("<Post: %s, %s>", p.Title, p.Date)
}

// A ParseError describes a post that could not be parsed. Excerpt holds
// the start of the offending file.
type ParseError struct {
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse post from:\n%s\n%v", e.Excerpt, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type parser struct {
	dateLayout string
	markdown   MarkdownFunc
}

// An Option configures Parse.
type Option func(*parser)

// DateLayoutOption sets the time layout of the date frontmatter key.
func DateLayoutOption(layout string) Option {
	return func(p *parser) {
		p.dateLayout = layout
	}
}

// MarkdownOption replaces the markdown renderer.
func MarkdownOption(fn MarkdownFunc) Option {
	return func(p *parser) {
		p.markdown = fn
	}
}

// Parse parses the contents of a post file. relativeDir is the directory
// of the file relative to the posts directory, with forward slashes; it
// prefixes the post's Path.
func Parse(raw string, relativeDir string, options ...Option) (*Post, error) {
	p := &parser{
		dateLayout: DefaultDateLayout,
		markdown:   Markdown,
	}
	for _, opt := range options {
		opt(p)
	}

	post, err := p.parse(raw, relativeDir)
	if err != nil {
		return nil, &ParseError{Excerpt: excerpt(raw, 50), Err: err}
	}
	return post, nil
}

func (p *parser) parse(raw string, relativeDir string) (*Post, error) {
	meta, body, err := Split(raw)
	if err != nil {
		return nil, err
	}

	title, ok := meta["title"]
	if !ok {
		return nil, fmt.Errorf("missing frontmatter key %q", "title")
	}
	rawDate, ok := meta["date"]
	if !ok {
		return nil, fmt.Errorf("missing frontmatter key %q", "date")
	}
	date, err := time.ParseInLocation(p.dateLayout, rawDate, time.UTC)
	if err != nil {
		return nil, err
	}

	slug := Slugify(title)
	return &Post{
		Title:       title,
		Slug:        slug,
		Path:        path.Join(relativeDir, slug+".html"),
		RelativeDir: relativeDir,
		Date:        Date{Time: date, Layout: p.dateLayout},
		Meta:        meta,
		Body:        string(p.markdown([]byte(body))),
		Leader:      string(p.markdown([]byte(Leader(body)))),
		Source:      body,
	}, nil
}

// Split separates a post file into its frontmatter, as lower-cased keys
// mapped to values, and the body following the separator line. CRLF line
// endings are read as LF.
func Split(raw string) (map[string]string, string, error) {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	loc := frontmatterSeparator.FindStringIndex(raw)
	if loc == nil {
		return nil, "", fmt.Errorf("no +++ line ends the frontmatter")
	}
	frontmatter, body := raw[:loc[0]], raw[loc[1]:]

	meta := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(frontmatter), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kv := strings.SplitN(line, ":", 2)
		if len(kv) != 2 {
			return nil, "", fmt.Errorf("frontmatter line %q is not a key: value pair", line)
		}
		meta[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.TrimSpace(kv[1])
	}
	return meta, body, nil
}

// Leader returns the first paragraph of a markdown body.
func Leader(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.SplitN(strings.TrimSpace(body), "\n\n", 2)[0]
}

// Sort orders posts newest first. Posts sharing a date keep their order.
func Sort(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date.Time)
	})
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

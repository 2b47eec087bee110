package post

import (
	"errors"
	"strings"
	"testing"

	"howett.net/quiescent/lib/templite"
)

func TestFrontMatterParsing(t *testing.T) {
	for _, tc := range []struct{ name, raw, title string }{
		{"LeadingSpace", "\n  title       :    test\ndate: 2017-01-01\n+++\n", "test"},
		{"MixedCase", "\nTitle: test\nDate: 2017-01-01\n+++\n", "test"},
		{"Correct", "\ntitle: test\ndate: 2017-01-01\n+++\n", "test"},
		{"NonGreedy", "\ntitle:: test\ndate: 2017-01-01\n+++\n", ": test"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			meta, _, err := Split(tc.raw)
			if err != nil {
				t.Fatal(err)
			}
			if meta["title"] != tc.title {
				t.Errorf("title = %q, want %q", meta["title"], tc.title)
			}
		})
	}
}

func TestFrontMatterParsingNegative(t *testing.T) {
	for _, tc := range []struct{ name, raw string }{
		{"TooMany", "\ntitle: test\ndate: 2017-01-01\n++++\n"},
		{"TooFew", "\ntitle: test\ndate: 2017-01-01\n++\n"},
		{"MissingDate", "\ntitle: test\n+++\n"},
		{"WrongDateFormat", "\ntitle: test\ndate: 2017-31-01\n+++\n"},
		{"NotAPair", "\ntitle test\ndate: 2017-01-01\n+++\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.raw, ".")
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected a parse error, got %v", err)
			}
			if !strings.HasPrefix(tc.raw, pe.Excerpt) {
				t.Errorf("excerpt %q is not the start of the post", pe.Excerpt)
			}
		})
	}
}

func TestDateParsing(t *testing.T) {
	p, err := Parse("\ntitle: test\ndate: 2017-01-02\n+++\n", ".")
	if err != nil {
		t.Fatal(err)
	}
	if p.Date.Day() != 2 || p.Date.Month() != 1 || p.Date.Year() != 2017 {
		t.Errorf("unexpected date %v", p.Date.Time)
	}
	if p.Date.String() != "2017-01-02" {
		t.Errorf("date prints as %q", p.Date.String())
	}
}

func TestDateLayoutOption(t *testing.T) {
	p, err := Parse("title: test\ndate: 02/01/2017\n+++\n", ".", DateLayoutOption("02/01/2006"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Date.Month() != 1 || p.Date.Day() != 2 {
		t.Errorf("unexpected date %v", p.Date.Time)
	}
}

func TestLeader(t *testing.T) {
	t.Run("TwoParagraphs", func(t *testing.T) {
		if l := Leader("\nfoo bar baz\n\nfoo bar baz\n"); l != "foo bar baz" {
			t.Errorf("leader = %q", l)
		}
	})
	t.Run("SingleParagraph", func(t *testing.T) {
		if l := Leader("\nfoo bar baz\n"); l != "foo bar baz" {
			t.Errorf("leader = %q", l)
		}
	})
	t.Run("FromPost", func(t *testing.T) {
		_, body, err := Split("\ntitle: test\ndate: 2017-01-01\n+++\nfoo \nfoo \n\nthe rest\n")
		if err != nil {
			t.Fatal(err)
		}
		if l := Leader(body); l != "foo \nfoo " {
			t.Errorf("leader = %q", l)
		}
	})
	t.Run("CRLF", func(t *testing.T) {
		if l := Leader("first para\r\n\r\nsecond para\r\n"); l != "first para" {
			t.Errorf("leader = %q", l)
		}
	})
}

func TestParseCRLF(t *testing.T) {
	p, err := Parse("title: T\r\ndate: 2015-12-01\r\n+++\r\nfirst para\r\n\r\nsecond para\r\n", ".")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "T" || p.Meta["date"] != "2015-12-01" {
		t.Errorf("unexpected frontmatter %q", p.Meta)
	}
	if p.Leader != "<p>first para</p>\n" {
		t.Errorf("leader = %q", p.Leader)
	}
	if p.Body != "<p>first para</p>\n\n<p>second para</p>\n" {
		t.Errorf("body = %q", p.Body)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse("title: A Post Title\ndate: 2016-01-01\n+++\nfoo bar baz\n\nthe rest", "2016")
	if err != nil {
		t.Fatal(err)
	}
	if p.Path != "2016/a-post-title.html" {
		t.Errorf("path = %q", p.Path)
	}
	if p.Body != "<p>foo bar baz</p>\n\n<p>the rest</p>\n" {
		t.Errorf("body = %q", p.Body)
	}
	if p.Leader != "<p>foo bar baz</p>\n" {
		t.Errorf("leader = %q", p.Leader)
	}

	top, err := Parse("title: Top\ndate: 2016-01-01\n+++\n", ".")
	if err != nil {
		t.Fatal(err)
	}
	if top.Path != "top.html" {
		t.Errorf("path = %q", top.Path)
	}
}

func TestMarkdownSanitizes(t *testing.T) {
	out := string(Markdown([]byte("hi <script>alert(1)</script>\n\n```go\nfmt.Println()\n```\n")))
	if strings.Contains(out, "<script>") {
		t.Errorf("script survived: %q", out)
	}
	if !strings.Contains(out, `<div class="code code-go">`) {
		t.Errorf("code block not wrapped: %q", out)
	}
}

func TestSorting(t *testing.T) {
	parse := func(date, body string) *Post {
		p, err := Parse("title: test\ndate: "+date+"\n+++\n"+body, ".")
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	earlier := parse("2016-01-01", "foo")
	later := parse("2017-01-01", "bar")
	latest := parse("2017-01-02", "baz")

	posts := []*Post{earlier, latest, later}
	Sort(posts)
	if posts[0] != latest || posts[1] != later || posts[2] != earlier {
		t.Errorf("unexpected order %v", posts)
	}
}

func TestTemplateAccess(t *testing.T) {
	p, err := Parse("title: Hello\ndate: 2017-03-04\n+++\nbody", "notes")
	if err != nil {
		t.Fatal(err)
	}
	tmpl := templite.MustCompile("{{post.title}}|{{post.date}}|{{post.date.year}}|{{post.path}}|{{post.relative_dir}}|{{post.body_markup}}")
	out, err := tmpl.Render(templite.Context{"post": p})
	if err != nil {
		t.Fatal(err)
	}
	want := "Hello|2017-03-04|2017|notes/hello.html|notes|<p>body</p>\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

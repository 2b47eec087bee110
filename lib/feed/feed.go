// Package feed builds the Atom feed (RFC 4287) of a site's recent posts.
//
// Update times are reported in UTC.
package feed

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"time"

	"howett.net/quiescent"
	"howett.net/quiescent/lib/post"
)

const Namespace = "http://www.w3.org/2005/Atom"

type Link struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
}

type Person struct {
	Name string `xml:"name"`
}

type Content struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type Entry struct {
	Title   string  `xml:"title"`
	Link    Link    `xml:"link"`
	ID      string  `xml:"id"`
	Updated string  `xml:"updated"`
	Content Content `xml:"content"`
}

type Feed struct {
	XMLName xml.Name `xml:"http://www.w3.org/2005/Atom feed"`
	Title   string   `xml:"title"`
	Links   []Link   `xml:"link"`
	Updated string   `xml:"updated"`
	Author  Person   `xml:"author"`
	ID      string   `xml:"id"`
	Entries []Entry  `xml:"entry"`
}

// Options describe the site a feed belongs to.
type Options struct {
	Name     string
	Domain   string
	FeedLink string
	Author   string

	// Updated defaults to the current time.
	Updated time.Time
}

// New builds a feed with one entry per post, in the order given.
func New(posts []*post.Post, opts Options) (*Feed, error) {
	for _, kv := range []struct{ key, value string }{
		{"name", opts.Name},
		{"domain", opts.Domain},
		{"author", opts.Author},
	} {
		if kv.value == "" {
			return nil, quiescent.MissingConfigurationError{Key: kv.key}
		}
	}

	domain, err := url.Parse(opts.Domain)
	if err != nil {
		return nil, fmt.Errorf("feed: domain: %w", err)
	}
	join := func(ref string) (string, error) {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("feed: %w", err)
		}
		return domain.ResolveReference(u).String(), nil
	}

	self, err := join(opts.FeedLink)
	if err != nil {
		return nil, err
	}
	updated := opts.Updated
	if updated.IsZero() {
		updated = time.Now()
	}

	f := &Feed{
		Title:   opts.Name,
		Links:   []Link{{Href: opts.Domain}, {Href: self, Rel: "self"}},
		Updated: updated.UTC().Format(time.RFC3339),
		Author:  Person{Name: opts.Author},
		ID:      opts.Domain,
	}
	for _, p := range posts {
		link, err := join(p.Path)
		if err != nil {
			return nil, err
		}
		f.Entries = append(f.Entries, Entry{
			Title:   p.Title,
			Link:    Link{Href: link},
			ID:      link,
			Updated: p.Date.UTC().Format(time.RFC3339),
			Content: Content{Type: "html", Body: p.Body},
		})
	}
	return f, nil
}

// Marshal returns the feed as an XML document.
func (f *Feed) Marshal() ([]byte, error) {
	out, err := xml.Marshal(f)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// WriteTo writes the feed document to w.
func (f *Feed) WriteTo(w io.Writer) (int64, error) {
	out, err := f.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(out)
	return int64(n), err
}

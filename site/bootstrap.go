package site

import (
	"fmt"
	"os"
	"path/filepath"
)

var bootstrapConfig = `domain: ""
name: ""
author: ""
output_directory: build
posts_directory: posts
media_directory: media
templates_directory: templates
date_format: "2006-01-02"
feed_link: feed.atom
`

const bootstrapHeader = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <base href="/">
    <title>{{ site.name }}</title>
    <link rel="alternate" type="application/atom+xml" href="{{ site.feed_link }}">
  </head>
  <body>
`

const bootstrapFooter = `  </body>
</html>
`

var bootstrapFiles = []struct {
	name, contents string
}{
	{"config.yml", bootstrapConfig},
	{"templates/" + IndexTemplate, bootstrapHeader + `{% for post in front_posts %}
    <a href="{{ post.path }}">{{ post.title }}</a>
    {{ post.leader }}
{% endfor %}
` + bootstrapFooter},
	{"templates/" + ArchiveTemplate, bootstrapHeader + `{% for post in all_posts %}
    <a href="{{ post.path }}">{{ post.title }}</a> {{ post.date }}
{% endfor %}
` + bootstrapFooter},
	{"templates/" + PostTemplate, bootstrapHeader + `    <h1>{{ post.title }}</h1>
    {{ post.body_markup }}
` + bootstrapFooter},
	{"templates/" + NotFoundTemplate, bootstrapHeader + `    <h1>{{ path }} was not found.</h1>
` + bootstrapFooter},
}

// Bootstrap lays out a new site in dir: a configuration file, starter
// templates and empty posts and output directories. Existing files are
// never overwritten.
func Bootstrap(dir string) error {
	for _, d := range []string{"templates", "posts", "build"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0755); err != nil {
			return err
		}
	}
	for _, bf := range bootstrapFiles {
		if err := createFile(filepath.Join(dir, filepath.FromSlash(bf.name)), bf.contents); err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
	}
	return nil
}

func createFile(name, contents string) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(contents); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

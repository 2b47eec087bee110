package quiescent

import (
	"github.com/sirupsen/logrus"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultOutputDirectory    = "build"
	DefaultPostsDirectory     = "posts"
	DefaultMediaDirectory     = "media"
	DefaultTemplatesDirectory = "templates"
	DefaultDateFormat         = "2006-01-02"
	DefaultFeedLink           = "feed.atom"
	DefaultIndexPosts         = 10
	DefaultFeedPosts          = 10
)

type LogLevel struct {
	l *logrus.Level
}

func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	lev, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	l.l = &lev
	return nil
}

func (l *LogLevel) LogrusLevel() logrus.Level {
	if l.l == nil {
		return logrus.InfoLevel
	}
	return *l.l
}

// Configuration describes a site: where its sources live, where output
// goes, and what the feed says about it.
type Configuration struct {
	Domain string `yaml:"domain"`
	Name   string `yaml:"name"`
	Author string `yaml:"author"`

	OutputDirectory    string `yaml:"output_directory"`
	PostsDirectory     string `yaml:"posts_directory"`
	MediaDirectory     string `yaml:"media_directory"`
	TemplatesDirectory string `yaml:"templates_directory"`

	// DateFormat is a Go time layout for the date frontmatter key.
	DateFormat string `yaml:"date_format"`
	FeedLink   string `yaml:"feed_link"`

	IndexPosts  int `yaml:"index_posts"`
	FeedPosts   int `yaml:"feed_posts"`
	Concurrency int `yaml:"concurrency"`

	Logging struct {
		Level LogLevel
	}
}

// ApplyDefaults fills in every unset optional setting.
func (c *Configuration) ApplyDefaults() {
	setDefault := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	setDefault(&c.OutputDirectory, DefaultOutputDirectory)
	setDefault(&c.PostsDirectory, DefaultPostsDirectory)
	setDefault(&c.MediaDirectory, DefaultMediaDirectory)
	setDefault(&c.TemplatesDirectory, DefaultTemplatesDirectory)
	setDefault(&c.DateFormat, DefaultDateFormat)
	setDefault(&c.FeedLink, DefaultFeedLink)
	if c.IndexPosts <= 0 {
		c.IndexPosts = DefaultIndexPosts
	}
	if c.FeedPosts <= 0 {
		c.FeedPosts = DefaultFeedPosts
	}
}

// Validate reports the first required setting that is missing.
func (c *Configuration) Validate() error {
	for _, kv := range []struct{ key, value string }{
		{"domain", c.Domain},
		{"name", c.Name},
		{"author", c.Author},
	} {
		if kv.value == "" {
			return MissingConfigurationError{Key: kv.key}
		}
	}
	return nil
}

type ConfigurationService interface {
	LoadConfiguration() (*Configuration, error)
}

package site

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"howett.net/quiescent/lib/templite"
)

const templateCacheMaxEntries = 32

type cachedTemplate struct {
	tmpl    *templite.Template
	modTime time.Time
}

type templateCache struct {
	mu sync.Mutex
	c  *lru.Cache
}

// Template loads, compiles and caches the named template from the
// templates directory. A template whose file has changed since it was
// compiled is compiled again.
func (g *Generator) Template(name string) (*templite.Template, error) {
	filename := filepath.Join(g.cfg.TemplatesDirectory, name)
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	g.templates.mu.Lock()
	defer g.templates.mu.Unlock()

	if cval, ok := g.templates.c.Get(name); ok {
		cached := cval.(*cachedTemplate)
		if !cached.modTime.Before(fi.ModTime()) {
			return cached.tmpl, nil
		}
	}

	text, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	tmpl, err := templite.Compile(string(text), g.siteContext())
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}

	g.templates.c.Add(name, &cachedTemplate{tmpl: tmpl, modTime: fi.ModTime()})
	g.logger.WithField("template", name).Debug("TEMPLATE CACHE: Cached")
	return tmpl, nil
}

func (g *Generator) newTemplateCache() {
	g.templates.c = &lru.Cache{
		MaxEntries: templateCacheMaxEntries,
		OnEvicted: func(key lru.Key, value interface{}) {
			g.logger.WithField("template", key).Debug("TEMPLATE CACHE: Evicted")
		},
	}
}

// Every page sees the site it belongs to.
func (g *Generator) siteContext() templite.Context {
	return templite.Context{
		"site": map[string]string{
			"name":      g.cfg.Name,
			"domain":    g.cfg.Domain,
			"author":    g.cfg.Author,
			"feed_link": g.cfg.FeedLink,
		},
	}
}

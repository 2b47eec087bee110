// Package site turns a directory of markdown posts into a static weblog:
// one page per post, an index of recent posts, an archive of all of them,
// an Atom feed and any media stored alongside the posts.
package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"howett.net/quiescent"
	"howett.net/quiescent/lib/feed"
	"howett.net/quiescent/lib/post"
	"howett.net/quiescent/lib/templite"
)

// Template file names, relative to the templates directory.
const (
	IndexTemplate    = "index.html"
	ArchiveTemplate  = "archive.html"
	PostTemplate     = "post.html"
	NotFoundTemplate = "404.html"
)

type Generator struct {
	cfg         *quiescent.Configuration
	logger      logrus.FieldLogger
	concurrency int
	now         func() time.Time

	templates templateCache
	posts     []*post.Post
}

// New returns a Generator for cfg, filling in any unset settings of cfg
// with their defaults.
func New(cfg *quiescent.Configuration, opts ...Option) (*Generator, error) {
	cfg.ApplyDefaults()
	g := &Generator{
		cfg:         cfg,
		logger:      logrus.StandardLogger(),
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
	if g.concurrency <= 0 {
		g.concurrency = runtime.NumCPU()
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.newTemplateCache()
	return g, nil
}

// Posts returns the posts found by the last call to ProcessPosts, newest
// first.
func (g *Generator) Posts() []*post.Post {
	return g.posts
}

// CollectPosts returns the path of every markdown file below the posts
// directory.
func (g *Generator) CollectPosts() ([]string, error) {
	var files []string
	err := filepath.WalkDir(g.cfg.PostsDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collecting posts: %w", err)
	}
	return files, nil
}

// ProcessPosts parses every post below the posts directory. Posts that
// cannot be read or parsed are skipped.
func (g *Generator) ProcessPosts() ([]*post.Post, error) {
	files, err := g.CollectPosts()
	if err != nil {
		return nil, err
	}

	posts := make([]*post.Post, 0, len(files))
	for _, file := range files {
		logger := g.logger.WithField("file", file)
		raw, err := os.ReadFile(file)
		if err != nil {
			logger.WithError(err).Warn("failed to read post")
			continue
		}
		relativeDir, err := filepath.Rel(g.cfg.PostsDirectory, filepath.Dir(file))
		if err != nil {
			logger.WithError(err).Warn("failed to place post")
			continue
		}
		p, err := post.Parse(string(raw), filepath.ToSlash(relativeDir), post.DateLayoutOption(g.cfg.DateFormat))
		if err != nil {
			logger.WithError(err).Warn("failed to create post")
			continue
		}
		posts = append(posts, p)
	}
	post.Sort(posts)

	g.logger.WithField("posts", len(posts)).Info("processed posts")
	g.posts = posts
	return posts, nil
}

func (g *Generator) render(name string, ctx templite.Context) ([]byte, error) {
	tmpl, err := g.Template(name)
	if err != nil {
		return nil, err
	}
	out, err := tmpl.Render(ctx)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return []byte(out), nil
}

// writeFile atomically replaces rel, a slash-separated path below the
// output directory.
func (g *Generator) writeFile(rel string, r io.Reader) error {
	filename := filepath.Join(g.cfg.OutputDirectory, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}
	if err := atomic.WriteFile(filename, r); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	if err := os.Chmod(filename, 0644); err != nil {
		return err
	}
	g.logger.WithField("path", filename).Debug("wrote")
	return nil
}

// WriteGeneratedFiles writes a page for every processed post, then the
// index, the archive and the feed.
func (g *Generator) WriteGeneratedFiles(ctx context.Context) error {
	posts := g.posts

	if _, err := g.Template(PostTemplate); err != nil {
		return err
	}
	group, groupctx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)
	for _, p := range posts {
		group.Go(func() error {
			if err := groupctx.Err(); err != nil {
				return err
			}
			page, err := g.render(PostTemplate, templite.Context{"post": p})
			if err != nil {
				return fmt.Errorf("%s: %w", p.Path, err)
			}
			return g.writeFile(p.Path, bytes.NewReader(page))
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	front := posts[:min(g.cfg.IndexPosts, len(posts))]
	index, err := g.render(IndexTemplate, templite.Context{"front_posts": front})
	if err != nil {
		return err
	}
	if err := g.writeFile(IndexTemplate, bytes.NewReader(index)); err != nil {
		return err
	}

	archive, err := g.render(ArchiveTemplate, templite.Context{"all_posts": posts})
	if err != nil {
		return err
	}
	if err := g.writeFile(ArchiveTemplate, bytes.NewReader(archive)); err != nil {
		return err
	}

	return g.writeFeed(posts[:min(g.cfg.FeedPosts, len(posts))])
}

func (g *Generator) writeFeed(recent []*post.Post) error {
	f, err := feed.New(recent, feed.Options{
		Name:     g.cfg.Name,
		Domain:   g.cfg.Domain,
		FeedLink: g.cfg.FeedLink,
		Author:   g.cfg.Author,
		Updated:  g.now(),
	})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return err
	}
	return g.writeFile(g.cfg.FeedLink, &buf)
}

// CopyMedia copies the contents of every media directory below the posts
// directory to the same place below the output directory. Everything is
// copied every time.
func (g *Generator) CopyMedia() error {
	root := g.cfg.PostsDirectory
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root || d.Name() != g.cfg.MediaDirectory {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := g.copyDir(path, filepath.ToSlash(rel)); err != nil {
			return err
		}
		return filepath.SkipDir
	})
}

// copyDir copies the regular files directly inside dir.
func (g *Generator) copyDir(dir, rel string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	n := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := g.copyFile(filepath.Join(dir, e.Name()), rel+"/"+e.Name()); err != nil {
			return err
		}
		n++
	}
	g.logger.WithFields(logrus.Fields{
		"media": rel,
		"files": n,
	}).Info("copied media")
	return nil
}

func (g *Generator) copyFile(src, rel string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.writeFile(rel, f)
}

// Build processes the posts, writes every generated page and copies media.
func (g *Generator) Build(ctx context.Context) error {
	if _, err := g.ProcessPosts(); err != nil {
		return err
	}
	if err := g.WriteGeneratedFiles(ctx); err != nil {
		return err
	}
	return g.CopyMedia()
}

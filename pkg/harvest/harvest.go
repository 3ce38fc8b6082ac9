// Package harvest walks a remote repository tree and collects source files.
//
// A [Source] abstracts the repository host. [Crawler] visits entries
// depth-first in listing order, filters them by skip pattern and extension,
// and decodes file contents into [markdown.File] values ready for
// [markdown.Format].
package harvest

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gobwas/glob"

	"github.com/matzehuels/mdscaffold/pkg/errors"
	"github.com/matzehuels/mdscaffold/pkg/httputil"
	"github.com/matzehuels/mdscaffold/pkg/markdown"
)

// Entry types reported by a Source.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// DefaultExtensions are the file extensions harvested when none are given.
var DefaultExtensions = []string{
	".js", ".jsx", ".ts", ".tsx", ".css", ".scss", ".html", ".md", ".json", ".py", ".txt",
}

// DefaultSkip are the skip patterns mdscaffold configures out of the box.
// A Crawler given no patterns skips nothing.
var DefaultSkip = []string{"components/ui/*", "node_modules/*"}

// Entry is one item of a directory listing.
type Entry struct {
	Path string
	Type string
	SHA  string
}

// Blob is the encoded content of a file.
type Blob struct {
	Encoding string
	Content  string
}

// Source lists and fetches repository content.
type Source interface {
	// List returns the entries of the directory at path. For a file path it
	// returns a single file entry.
	List(ctx context.Context, path string) ([]Entry, error)
	// Fetch returns the content of the file at path.
	Fetch(ctx context.Context, path string) (*Blob, error)
}

// Options configures a Crawler.
type Options struct {
	// Skip holds glob patterns matched against full entry paths. A '*'
	// matches across '/'.
	Skip []string
	// Extensions lists the harvested suffixes; a missing leading dot is
	// added. Empty means [DefaultExtensions].
	Extensions []string
	// Cache stores decoded blobs by SHA. Nil disables caching.
	Cache  *httputil.Cache
	Logger *log.Logger
	// OnFile is called after each harvested file.
	OnFile func(path string)
}

// Stats counts what a crawl did.
type Stats struct {
	Files   int
	Cached  int
	Skipped int
	Failed  int
}

// Crawler collects files from a Source.
type Crawler struct {
	source     Source
	skip       []glob.Glob
	extensions []string
	cache      *httputil.Cache
	logger     *log.Logger
	onFile     func(string)

	stats Stats
}

// NewCrawler compiles the skip patterns and returns a Crawler. An invalid
// pattern is an input error.
func NewCrawler(source Source, opts Options) (*Crawler, error) {
	c := &Crawler{
		source: source,
		logger: opts.Logger,
		onFile: opts.OnFile,
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if opts.Cache != nil {
		c.cache = opts.Cache.Namespace("blob:")
	}

	for _, p := range opts.Skip {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInput, err, "invalid skip pattern %q", p)
		}
		c.skip = append(c.skip, g)
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, e := range exts {
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		c.extensions = append(c.extensions, e)
	}
	return c, nil
}

// Stats returns the counters of the last crawl.
func (c *Crawler) Stats() Stats { return c.stats }

// Crawl visits everything below root and returns the harvested files in
// depth-first listing order. Failures below the root are logged and the
// affected entry skipped; a root that cannot be listed is an error.
func (c *Crawler) Crawl(ctx context.Context, root string) ([]markdown.File, error) {
	c.stats = Stats{}

	entries, err := c.source.List(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list %q", displayPath(root))
	}

	stack := make([]Entry, 0, len(entries))
	stack = pushReversed(stack, entries)

	files := []markdown.File{}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if c.skipped(e.Path) {
			c.logger.Info("skipping", "path", e.Path, "reason", "matched skip pattern")
			c.stats.Skipped++
			continue
		}

		switch e.Type {
		case TypeDir:
			children, err := c.source.List(ctx, e.Path)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn("listing failed", "path", e.Path, "err", err)
				c.stats.Failed++
				continue
			}
			stack = pushReversed(stack, children)

		case TypeFile:
			if !c.supported(e.Path) {
				c.logger.Debug("skipping", "path", e.Path, "reason", "unsupported file type")
				c.stats.Skipped++
				continue
			}
			content, err := c.content(ctx, e)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.Warn("download failed", "path", e.Path, "err", err)
				c.stats.Failed++
				continue
			}
			files = append(files, markdown.File{Path: e.Path, Content: content})
			c.stats.Files++
			if c.onFile != nil {
				c.onFile(e.Path)
			}

		default:
			c.logger.Debug("skipping", "path", e.Path, "type", e.Type)
		}
	}
	return files, nil
}

func (c *Crawler) content(ctx context.Context, e Entry) (string, error) {
	if c.cache != nil && e.SHA != "" {
		var cached string
		if ok, _ := c.cache.Get(e.SHA, &cached); ok {
			c.logger.Debug("cache hit", "path", e.Path, "sha", e.SHA)
			c.stats.Cached++
			return cached, nil
		}
	}

	blob, err := c.source.Fetch(ctx, e.Path)
	if err != nil {
		return "", err
	}
	content, err := Decode(blob)
	if err != nil {
		return "", err
	}

	if c.cache != nil && e.SHA != "" {
		if err := c.cache.Set(e.SHA, content); err != nil {
			c.logger.Debug("cache write failed", "path", e.Path, "err", err)
		}
	}
	c.logger.Info("downloaded", "path", e.Path)
	return content, nil
}

// Decode turns a base64 blob into text. Line breaks inside the encoded
// content are ignored and invalid UTF-8 sequences become U+FFFD.
func Decode(b *Blob) (string, error) {
	if b == nil {
		return "", errors.New(errors.ErrCodeDecode, "empty blob")
	}
	if b.Encoding != "base64" {
		return "", errors.New(errors.ErrCodeDecode, "unsupported encoding %q", b.Encoding)
	}
	raw := strings.NewReplacer("\n", "", "\r", "").Replace(b.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDecode, err, "invalid base64 content")
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func (c *Crawler) skipped(path string) bool {
	for _, g := range c.skip {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func (c *Crawler) supported(path string) bool {
	for _, ext := range c.extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func pushReversed(stack, entries []Entry) []Entry {
	for i := len(entries) - 1; i >= 0; i-- {
		stack = append(stack, entries[i])
	}
	return stack
}

func displayPath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

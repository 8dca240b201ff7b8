package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/extract"
	"github.com/nao1215/seoscan/internal/model"
)

const (
	// DefaultBatchSize is the number of files handled per batch.
	DefaultBatchSize = 256

	// DefaultConcurrency is the number of files handled at once in a batch.
	DefaultConcurrency = 16

	// DefaultMinPageBytes is the size below which a markup file is not
	// considered a content page.
	DefaultMinPageBytes = 200

	// DefaultRedirectStubBytes is the size below which a page is checked
	// for a meta refresh redirect.
	DefaultRedirectStubBytes = 2048
)

// ErrNotDirectory is returned when the root is not a directory.
var ErrNotDirectory = errors.New("output root is not a directory")

// pageExtensions are the markup files that become pages.
var pageExtensions = map[string]struct{}{
	".html": {},
	".htm":  {},
}

// imageExtensions are the files recorded in SiteIndex.Images.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
	".avif": {},
	".svg":  {},
	".ico":  {},
	".tif":  {},
	".tiff": {},
}

// Indexer builds site indexes. It is safe to reuse for several roots.
type Indexer struct {
	extractor         *extract.Extractor
	batchSize         int
	concurrency       int
	minPageBytes      int64
	redirectStubBytes int64
	ignorePaths       []string
	logger            *slog.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithBatchSize sets how many files are processed per batch.
func WithBatchSize(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithConcurrency sets how many files of a batch are processed at once.
func WithConcurrency(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.concurrency = n
		}
	}
}

// WithPageThresholds sets the minimum page size and the redirect stub size.
func WithPageThresholds(minPageBytes, redirectStubBytes int64) Option {
	return func(ix *Indexer) {
		if minPageBytes >= 0 {
			ix.minPageBytes = minPageBytes
		}
		if redirectStubBytes >= 0 {
			ix.redirectStubBytes = redirectStubBytes
		}
	}
}

// WithIgnorePaths sets glob patterns of relative paths to skip entirely.
func WithIgnorePaths(patterns []string) Option {
	return func(ix *Indexer) {
		ix.ignorePaths = append([]string(nil), patterns...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		ix.logger = logger
	}
}

// New returns an Indexer extracting pages with extractor.
func New(extractor *extract.Extractor, opts ...Option) *Indexer {
	ix := &Indexer{
		extractor:         extractor,
		batchSize:         DefaultBatchSize,
		concurrency:       DefaultConcurrency,
		minPageBytes:      DefaultMinPageBytes,
		redirectStubBytes: DefaultRedirectStubBytes,
	}
	for _, opt := range opts {
		opt(ix)
	}
	if ix.logger == nil {
		ix.logger = slog.Default()
	}
	return ix
}

// Build walks root and returns its index. Only a missing or unreadable
// root is an error; problems with individual files are logged and skipped.
func (ix *Indexer) Build(ctx context.Context, root string) (*model.SiteIndex, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to stat output root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, root)
	}

	files, err := ix.discover(ctx, abs)
	if err != nil {
		return nil, err
	}

	index := model.NewSiteIndex(abs)
	var pages, images []string
	for _, rel := range files {
		index.AddFile(rel)
		ext := strings.ToLower(filepath.Ext(rel))
		if _, ok := pageExtensions[ext]; ok {
			pages = append(pages, rel)
		}
		if _, ok := imageExtensions[ext]; ok {
			images = append(images, rel)
		}
	}

	if err := ix.indexImages(ctx, index, images); err != nil {
		return nil, err
	}

	stats, err := ix.indexPages(ctx, index, pages)
	if err != nil {
		return nil, err
	}

	ix.logger.Debug("index built",
		"root", abs,
		"files", len(files),
		"pages", len(index.Pages),
		"images", len(index.Images),
		"too_small", stats.tooSmall,
		"redirects", stats.redirects,
		"failed", stats.failed,
	)
	return index, nil
}

// discover lists every regular file below root, one goroutine per
// directory, and returns slash-separated relative paths in sorted order.
func (ix *Indexer) discover(ctx context.Context, root string) ([]string, error) {
	var (
		mu    sync.Mutex
		files []string
	)

	g, ctx := errgroup.WithContext(ctx)

	var walk func(dir string)
	walk = func(dir string) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				ix.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
				return nil
			}

			var local []string
			for _, entry := range entries {
				path := filepath.Join(dir, entry.Name())
				rel, err := extract.RelativePath(root, path)
				if err != nil || ix.ignored(rel) {
					continue
				}
				switch {
				case entry.IsDir():
					walk(path)
				case entry.Type().IsRegular():
					local = append(local, rel)
				}
			}

			mu.Lock()
			files = append(files, local...)
			mu.Unlock()
			return nil
		})
	}
	walk(root)

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to walk output root: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ignored reports whether rel matches an ignore pattern.
func (ix *Indexer) ignored(rel string) bool {
	for _, pattern := range ix.ignorePaths {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

package indexer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoscan/internal/model"
)

// outcome is the result of processing one page candidate.
type outcome int

const (
	outcomeIndexed outcome = iota
	outcomeTooSmall
	outcomeRedirect
	outcomeFailed
)

type pageResult struct {
	page    *model.PageRecord
	outcome outcome
}

type pageStats struct {
	tooSmall  int
	redirects int
	failed    int
}

// forEachBatch splits items into batches and runs fn on each item of a
// batch with bounded concurrency. After a batch completes, fold is called
// from the calling goroutine with the batch offset.
func (ix *Indexer) forEachBatch(ctx context.Context, n int, fn func(i int), fold func(start, end int)) error {
	for start := 0; start < n; start += ix.batchSize {
		end := min(start+ix.batchSize, n)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ix.concurrency)
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				fn(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("indexing cancelled: %w", err)
		}
		fold(start, end)
	}
	return nil
}

// indexImages records the location and size of every image file.
func (ix *Indexer) indexImages(ctx context.Context, index *model.SiteIndex, images []string) error {
	sizes := make([]int64, len(images))
	ok := make([]bool, len(images))

	return ix.forEachBatch(ctx, len(images),
		func(i int) {
			info, err := os.Stat(filepath.Join(index.Root, filepath.FromSlash(images[i])))
			if err != nil {
				ix.logger.Debug("skipping image", "path", images[i], "error", err)
				return
			}
			sizes[i], ok[i] = info.Size(), true
		},
		func(start, end int) {
			for i := start; i < end; i++ {
				if ok[i] {
					index.AddImage(images[i], model.ImageFile{
						AbsolutePath: filepath.Join(index.Root, filepath.FromSlash(images[i])),
						Size:         sizes[i],
					})
				}
			}
		},
	)
}

// indexPages extracts page candidates and folds them into the index.
func (ix *Indexer) indexPages(ctx context.Context, index *model.SiteIndex, pages []string) (pageStats, error) {
	var stats pageStats
	results := make([]pageResult, len(pages))

	err := ix.forEachBatch(ctx, len(pages),
		func(i int) {
			results[i] = ix.processPage(index.Root, pages[i])
		},
		func(start, end int) {
			for i := start; i < end; i++ {
				switch results[i].outcome {
				case outcomeIndexed:
					index.AddPage(results[i].page)
				case outcomeTooSmall:
					stats.tooSmall++
				case outcomeRedirect:
					stats.redirects++
				case outcomeFailed:
					stats.failed++
				}
				// Release the batch before the next one is read.
				results[i] = pageResult{}
			}
		},
	)
	return stats, err
}

// processPage stats, filters, reads and extracts one page.
func (ix *Indexer) processPage(root, rel string) pageResult {
	path := filepath.Join(root, filepath.FromSlash(rel))

	info, err := os.Stat(path)
	if err != nil {
		ix.logger.Debug("skipping page", "path", rel, "error", err)
		return pageResult{outcome: outcomeFailed}
	}
	if info.Size() < ix.minPageBytes {
		return pageResult{outcome: outcomeTooSmall}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		ix.logger.Debug("skipping page", "path", rel, "error", err)
		return pageResult{outcome: outcomeFailed}
	}

	if info.Size() < ix.redirectStubBytes && IsRedirectStub(raw) {
		return pageResult{outcome: outcomeRedirect}
	}

	page, err := ix.extractor.Extract(path, raw, root)
	if err != nil {
		ix.logger.Debug("skipping page", "path", rel, "error", err)
		return pageResult{outcome: outcomeFailed}
	}
	page.Size = info.Size()
	return pageResult{page: page, outcome: outcomeIndexed}
}

// IsRedirectStub reports whether raw carries a meta refresh redirect.
func IsRedirectStub(raw []byte) bool {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return false
	}
	found := false
	doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("http-equiv", "")), "refresh") {
			found = true
			return false
		}
		return true
	})
	return found
}

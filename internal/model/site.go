package model

import (
	"sort"
	"strings"
)

// ImageFile is an image found in the output tree.
type ImageFile struct {
	AbsolutePath string `json:"absolutePath"`
	Size         int64  `json:"size"`
}

// SiteIndex is the site-wide view built once per run by the indexer.
// The fold methods are not safe for concurrent use; once indexing is done
// the index is only read and may be shared by any number of goroutines.
type SiteIndex struct {
	// Root is the absolute output root.
	Root string `json:"root"`

	// Pages maps relative paths to their records.
	Pages map[string]*PageRecord `json:"-"`

	// Titles, Descriptions, H1s and Canonicals map an exact value to the
	// relative paths of the pages using it, in fold order.
	Titles       map[string][]string `json:"-"`
	Descriptions map[string][]string `json:"-"`
	H1s          map[string][]string `json:"-"`
	Canonicals   map[string][]string `json:"-"`

	// Contents maps a main-content digest to the pages sharing it.
	Contents map[string][]string `json:"-"`

	// Images maps image relative paths to their location and size.
	Images map[string]ImageFile `json:"-"`

	// Files holds every file discovered below the root, pages included.
	Files map[string]struct{} `json:"-"`
}

// NewSiteIndex returns an empty index for root.
func NewSiteIndex(root string) *SiteIndex {
	return &SiteIndex{
		Root:         root,
		Pages:        make(map[string]*PageRecord),
		Titles:       make(map[string][]string),
		Descriptions: make(map[string][]string),
		H1s:          make(map[string][]string),
		Canonicals:   make(map[string][]string),
		Contents:     make(map[string][]string),
		Images:       make(map[string]ImageFile),
		Files:        make(map[string]struct{}),
	}
}

// AddPage folds a page into the index. Keys are exact values; empty values
// are not indexed.
func (s *SiteIndex) AddPage(p *PageRecord) {
	rel := p.RelativePath
	s.Pages[rel] = p
	s.Files[rel] = struct{}{}

	if p.Title != "" {
		s.Titles[p.Title] = append(s.Titles[p.Title], rel)
	}
	if p.MetaDescription != "" {
		s.Descriptions[p.MetaDescription] = append(s.Descriptions[p.MetaDescription], rel)
	}
	if p.Canonical != "" {
		s.Canonicals[p.Canonical] = append(s.Canonicals[p.Canonical], rel)
	}
	if p.ContentDigest != "" {
		s.Contents[p.ContentDigest] = append(s.Contents[p.ContentDigest], rel)
	}

	// A page repeating the same h1 is not its own duplicate.
	seen := make(map[string]struct{})
	for _, h1 := range p.H1s() {
		if h1 == "" {
			continue
		}
		if _, ok := seen[h1]; ok {
			continue
		}
		seen[h1] = struct{}{}
		s.H1s[h1] = append(s.H1s[h1], rel)
	}
}

// AddImage records an image file.
func (s *SiteIndex) AddImage(rel string, img ImageFile) {
	s.Images[rel] = img
	s.Files[rel] = struct{}{}
}

// AddFile records a file that is neither an indexed page nor an image.
func (s *SiteIndex) AddFile(rel string) {
	s.Files[rel] = struct{}{}
}

// HasFile reports whether rel was found below the root.
func (s *SiteIndex) HasFile(rel string) bool {
	_, ok := s.Files[rel]
	return ok
}

// HasDir reports whether any discovered file lives below the directory rel.
func (s *SiteIndex) HasDir(rel string) bool {
	prefix := strings.TrimSuffix(rel, "/") + "/"
	if prefix == "/" {
		return len(s.Files) > 0
	}
	for f := range s.Files {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

// Page returns the record stored under rel.
func (s *SiteIndex) Page(rel string) (*PageRecord, bool) {
	p, ok := s.Pages[rel]
	return p, ok
}

// PagePaths returns the relative paths of all pages in sorted order.
func (s *SiteIndex) PagePaths() []string {
	paths := make([]string, 0, len(s.Pages))
	for rel := range s.Pages {
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths
}

// SortedPages returns all pages ordered by relative path.
func (s *SiteIndex) SortedPages() []*PageRecord {
	paths := s.PagePaths()
	pages := make([]*PageRecord, len(paths))
	for i, rel := range paths {
		pages[i] = s.Pages[rel]
	}
	return pages
}

// ImageCount returns the number of <img> references across all pages.
func (s *SiteIndex) ImageCount() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Images)
	}
	return n
}

// LinkCount returns the number of links across all pages.
func (s *SiteIndex) LinkCount() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Links)
	}
	return n
}

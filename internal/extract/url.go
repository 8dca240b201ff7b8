package extract

import "strings"

const (
	indexFile = "index.html"
	htmlExt   = ".html"
)

// PageURL maps a relative page path to its public URL below base.
//
//	index.html      -> base/
//	docs/index.html -> base/docs/
//	about.html      -> base/about
//
// An empty base yields a root-relative URL.
func PageURL(base, rel string) string {
	base = strings.TrimSuffix(base, "/")

	var path string
	switch {
	case rel == indexFile:
		path = "/"
	case strings.HasSuffix(rel, "/"+indexFile):
		path = "/" + strings.TrimSuffix(rel, indexFile)
	case strings.HasSuffix(rel, htmlExt):
		path = "/" + strings.TrimSuffix(rel, htmlExt)
	default:
		path = "/" + rel
	}
	return base + path
}

package rules

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

const indexFile = "index.html"

// languagePrefix matches paths below a language directory such as "ja/" or
// "pt-BR/".
var languagePrefix = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?/`)

// languageHome matches a language home page such as "ja/index.html".
var languageHome = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?/index\.html$`)

// IsHomepage reports whether rel is the root or a language home page.
func IsHomepage(rel string) bool {
	return rel == indexFile || languageHome.MatchString(rel)
}

// HasLanguagePrefix reports whether rel lives below a language directory.
func HasLanguagePrefix(rel string) bool {
	return languagePrefix.MatchString(rel)
}

// targetPath returns the slash-separated path below the output root that
// href points at from the page at pageRel. ok is false when the href has no
// path of its own or escapes the root.
func targetPath(pageRel, href string) (target string, trailingSlash, ok bool) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}

	if domain.IsAbsolute(href) {
		u, err := url.Parse(href)
		if err != nil {
			return "", false, false
		}
		href = u.EscapedPath()
		if href == "" {
			href = "/"
		}
	}
	if href == "" {
		return "", false, false
	}

	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	trailingSlash = strings.HasSuffix(href, "/")

	var p string
	if strings.HasPrefix(href, "/") {
		p = path.Clean(strings.TrimPrefix(href, "/"))
	} else {
		p = path.Clean(path.Join(path.Dir(pageRel), href))
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false, false
	}
	if p == "/" {
		p = "."
	}
	return p, trailingSlash, true
}

// resolveFile maps href on the page at pageRel to a file in the index. An
// existing file is accepted as is; otherwise "/index.html" and then ".html"
// are tried. found is false when nothing matches; target is still the
// cleaned path in that case.
func resolveFile(site *model.SiteIndex, pageRel, href string) (file string, found, ok bool) {
	p, trailingSlash, ok := targetPath(pageRel, href)
	if !ok {
		return "", false, false
	}

	if p == "." {
		return indexFile, site.HasFile(indexFile), true
	}
	if !trailingSlash && site.HasFile(p) {
		return p, true, true
	}
	if candidate := p + "/" + indexFile; site.HasFile(candidate) {
		return candidate, true, true
	}
	if trailingSlash {
		return p, false, true
	}
	if candidate := p + ".html"; site.HasFile(candidate) {
		return candidate, true, true
	}
	return p, false, true
}

// isLocalReference reports whether a link or src points into the site.
func isLocalReference(env *Env, ref string) bool {
	lower := strings.ToLower(ref)
	for _, scheme := range []string{"data:", "mailto:", "tel:", "javascript:", "blob:"} {
		if strings.HasPrefix(lower, scheme) {
			return false
		}
	}
	if strings.HasPrefix(ref, "#") || ref == "" {
		return false
	}
	if domain.IsAbsolute(ref) {
		return env.Classifier.CanValidate() && env.Classifier.IsInternal(ref)
	}
	return !strings.Contains(strings.SplitN(ref, "/", 2)[0], ":")
}

package rules

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

// sitemapCandidates are looked up in the output root in this order.
var sitemapCandidates = []string{"sitemap.xml", "sitemap-index.xml", "sitemap-0.xml"}

// lastmodPattern accepts W3C datetime values: a date, optionally followed
// by a time with seconds, fractions and a zone.
var lastmodPattern = regexp.MustCompile(`^\d{4}(-\d{2}(-\d{2}(T\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:\d{2}))?)?)?$`)

// sitemapDocument is either a <urlset> or a <sitemapindex>.
type sitemapDocument struct {
	XMLName  xml.Name
	URLs     []sitemapEntry `xml:"url"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

// sitemapAudit collects the state of one sitemap check.
type sitemapAudit struct {
	env    *Env
	site   *model.SiteIndex
	robots *robotstxt.RobotsData

	issues       []model.Issue
	seen         map[string]string
	listed       map[string]struct{}
	withSlash    int
	withoutSlash int
}

// CheckSitemap validates every sitemap reachable from the standard names,
// robots.txt and sitemap indexes, then cross-checks the listed URLs with
// the pages in the output tree.
func CheckSitemap(ctx context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	_, robots, _ := loadRobots(site)
	a := &sitemapAudit{
		env:    env,
		site:   site,
		robots: robots,
		seen:   make(map[string]string),
		listed: make(map[string]struct{}),
	}

	queue := a.roots()
	if len(queue) == 0 {
		return []model.Issue{model.NewIssue("sitemap/missing",
			filepath.Join(site.Root, sitemapCandidates[0]), sitemapCandidates[0])}
	}

	visited := make(map[string]struct{})
	for len(queue) > 0 && ctx.Err() == nil {
		rel := queue[0]
		queue = queue[1:]
		if _, ok := visited[rel]; ok {
			continue
		}
		visited[rel] = struct{}{}
		queue = append(queue, a.checkFile(rel)...)
	}

	a.checkTrailingSlash(visited)
	a.checkMissingPages()
	return a.issues
}

// roots returns the sitemap files that exist under the standard names or
// are declared in robots.txt.
func (a *sitemapAudit) roots() []string {
	var roots []string
	for _, name := range sitemapCandidates {
		if a.site.HasFile(name) {
			roots = append(roots, name)
		}
	}
	if a.robots != nil {
		for _, s := range a.robots.Sitemaps {
			if !a.env.Classifier.IsInternal(s) {
				continue
			}
			if rel, ok := urlFile(s); ok && a.site.HasFile(rel) {
				roots = append(roots, rel)
			}
		}
	}
	return roots
}

// checkFile checks one sitemap file and returns the child sitemaps of an
// index that exist in the output tree.
func (a *sitemapAudit) checkFile(rel string) []string {
	abs := filepath.Join(a.site.Root, filepath.FromSlash(rel))
	issue := func(ruleID string, opts ...model.IssueOption) {
		a.issues = append(a.issues, model.NewIssue(ruleID, abs, rel, opts...))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		issue("sitemap/invalid-xml", model.WithMessage("Sitemap could not be read: "+err.Error()))
		return nil
	}

	var doc sitemapDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		issue("sitemap/invalid-xml", model.WithMessage("Sitemap is not valid XML: "+err.Error()))
		return nil
	}

	var children []string
	for _, child := range doc.Sitemaps {
		loc := strings.TrimSpace(child.Loc)
		if !a.checkAuthority(loc, issue) {
			continue
		}
		if child.LastMod != "" && !lastmodPattern.MatchString(strings.TrimSpace(child.LastMod)) {
			issue("sitemap/invalid-lastmod", model.WithElement(loc), model.WithValues(child.LastMod, "W3C datetime"))
		}
		childRel, ok := urlFile(loc)
		if !ok || !a.site.HasFile(childRel) {
			issue("sitemap/url-not-found", model.WithElement(loc))
			continue
		}
		children = append(children, childRel)
	}

	for _, entry := range doc.URLs {
		a.checkEntry(rel, entry, issue)
	}
	return children
}

// checkAuthority reports domain and scheme problems of loc. It returns
// false when loc does not belong to the site and needs no further checks.
func (a *sitemapAudit) checkAuthority(loc string, issue func(string, ...model.IssueOption)) bool {
	c := a.env.Classifier
	r := c.Classify(loc)
	opts := []model.IssueOption{model.WithElement(loc), model.WithValues(r.Hostname, r.ExpectedHostname)}

	switch r.Issue {
	case domain.KindWrongDomain:
		issue("sitemap/wrong-domain", opts...)
		return false
	case domain.KindSubdomain:
		issue("sitemap/subdomain", opts...)
		return false
	case domain.KindWWWMismatch:
		issue("sitemap/www-mismatch", opts...)
	}

	if scheme := c.Scheme(); scheme != "" && domain.IsAbsolute(loc) {
		if u, err := url.Parse(loc); err == nil && !strings.EqualFold(u.Scheme, scheme) {
			issue("sitemap/http-mismatch", model.WithElement(loc), model.WithValues(u.Scheme, scheme))
		}
	}
	return true
}

func (a *sitemapAudit) checkEntry(rel string, entry sitemapEntry, issue func(string, ...model.IssueOption)) {
	loc := strings.TrimSpace(entry.Loc)
	if loc == "" {
		return
	}
	if first, dup := a.seen[loc]; dup {
		issue("sitemap/duplicate-url", model.WithElement(loc), model.WithMessage("URL listed more than once, first in "+first))
		return
	}
	a.seen[loc] = rel

	if !a.checkAuthority(loc, issue) {
		return
	}

	if lastmod := strings.TrimSpace(entry.LastMod); lastmod != "" && !lastmodPattern.MatchString(lastmod) {
		issue("sitemap/invalid-lastmod", model.WithElement(loc), model.WithValues(lastmod, "W3C datetime"))
	}

	u, err := url.Parse(loc)
	if err != nil {
		return
	}
	a.countSlash(u.Path)

	if a.robots != nil && !a.robots.TestAgent(pathOrRoot(u.Path), "*") {
		issue("sitemap/blocked-by-robots", model.WithElement(loc))
	}

	file, found, ok := resolveFile(a.site, indexFile, loc)
	if !ok || !found {
		issue("sitemap/url-not-found", model.WithElement(loc))
		return
	}
	a.listed[file] = struct{}{}
	if page, ok := a.site.Page(file); ok && page.IsNoindex() {
		issue("sitemap/noindex-page", model.WithElement(loc))
	}
}

// countSlash tallies the trailing slash convention of page paths. The root
// and paths ending in a file extension follow no convention.
func (a *sitemapAudit) countSlash(p string) {
	if p == "" || p == "/" {
		return
	}
	trimmed := strings.TrimSuffix(p, "/")
	if path.Ext(path.Base(trimmed)) != "" {
		return
	}
	if strings.HasSuffix(p, "/") {
		a.withSlash++
	} else {
		a.withoutSlash++
	}
}

// checkTrailingSlash reports mixed trailing slash conventions once the
// minority exceeds TrailingSlashMinorityRatio of all page URLs.
func (a *sitemapAudit) checkTrailingSlash(visited map[string]struct{}) {
	total := a.withSlash + a.withoutSlash
	minority := min(a.withSlash, a.withoutSlash)
	if total == 0 || float64(minority)/float64(total) <= TrailingSlashMinorityRatio {
		return
	}

	rel := sitemapCandidates[0]
	for _, name := range sitemapCandidates {
		if _, ok := visited[name]; ok {
			rel = name
			break
		}
	}
	a.issues = append(a.issues, model.NewIssue("sitemap/trailing-slash-inconsistent",
		filepath.Join(a.site.Root, rel), rel,
		model.WithValues(
			fmt.Sprintf("%d with and %d without a trailing slash", a.withSlash, a.withoutSlash),
			"one convention for all URLs")))
}

// checkMissingPages reports indexable pages that no sitemap lists.
func (a *sitemapAudit) checkMissingPages() {
	for _, page := range a.site.SortedPages() {
		if page.IsNoindex() {
			continue
		}
		if _, ok := a.listed[page.RelativePath]; ok {
			continue
		}
		a.issues = append(a.issues, pageIssue(page, "sitemap/page-missing", model.WithValues("", page.URL)))
	}
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

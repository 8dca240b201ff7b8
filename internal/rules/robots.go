package rules

import (
	"bufio"
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/temoto/robotstxt"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/model"
)

const robotsFile = "robots.txt"

// RobotsDirective is one "directive: value" line of robots.txt.
type RobotsDirective struct {
	Name  string
	Value string
	Line  int
}

// ParseRobots splits robots.txt into directives. Lines that are neither
// blank, comments nor "directive: value" pairs are returned as invalid.
func ParseRobots(data []byte) (directives []RobotsDirective, invalid []RobotsDirective) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.Index(text, "#"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		name, value, ok := strings.Cut(text, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			invalid = append(invalid, RobotsDirective{Value: text, Line: line})
			continue
		}
		directives = append(directives, RobotsDirective{
			Name:  strings.ToLower(name),
			Value: strings.TrimSpace(value),
			Line:  line,
		})
	}
	return directives, invalid
}

// loadRobots reads and parses robots.txt from the output root.
func loadRobots(site *model.SiteIndex) ([]byte, *robotstxt.RobotsData, bool) {
	if !site.HasFile(robotsFile) {
		return nil, nil, false
	}
	data, err := os.ReadFile(filepath.Join(site.Root, robotsFile))
	if err != nil {
		return nil, nil, false
	}
	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		return data, nil, true
	}
	return data, robots, true
}

// CheckRobots validates robots.txt and the sitemaps it declares.
func CheckRobots(_ context.Context, env *Env, site *model.SiteIndex) []model.Issue {
	path := filepath.Join(site.Root, robotsFile)
	issue := func(ruleID string, opts ...model.IssueOption) model.Issue {
		return model.NewIssue(ruleID, path, robotsFile, opts...)
	}

	data, robots, ok := loadRobots(site)
	if !ok {
		return []model.Issue{issue("robots/missing")}
	}

	var issues []model.Issue
	directives, invalid := ParseRobots(data)
	for _, d := range invalid {
		issues = append(issues, issue("robots/invalid-line",
			model.WithElement(d.Value), model.WithLine(d.Line)))
	}

	if robots != nil && !robots.TestAgent("/", "*") {
		issues = append(issues, issue("robots/blocks-all"))
	}

	sitemaps := 0
	for _, d := range directives {
		if d.Name != "sitemap" {
			continue
		}
		sitemaps++
		opts := []model.IssueOption{model.WithElement(d.Value), model.WithLine(d.Line)}

		r := env.Classifier.Classify(d.Value)
		switch r.Issue {
		case domain.KindWrongDomain:
			issues = append(issues, issue("robots/sitemap-wrong-domain",
				append(opts, model.WithValues(r.Hostname, r.ExpectedHostname))...))
			continue
		case domain.KindSubdomain:
			issues = append(issues, issue("robots/sitemap-subdomain",
				append(opts, model.WithValues(r.Hostname, r.ExpectedHostname))...))
			continue
		case domain.KindWWWMismatch:
			issues = append(issues, issue("robots/sitemap-www-mismatch",
				append(opts, model.WithValues(r.Hostname, r.ExpectedHostname))...))
		}

		if rel, ok := urlFile(d.Value); !ok || !site.HasFile(rel) {
			issues = append(issues, issue("robots/sitemap-not-found", opts...))
		}
	}
	if sitemaps == 0 {
		issues = append(issues, issue("robots/sitemap-directive-missing"))
	}
	return issues
}

// urlFile returns the path of an absolute or rooted URL below the output
// root, without the leading slash.
func urlFile(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasPrefix(p, "../") {
		return "", false
	}
	return p, true
}

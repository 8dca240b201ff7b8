package schema

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// typeSchemas maps schema.org types to embedded schema files.
var typeSchemas = map[string]string{
	"Article":            "article.json",
	"NewsArticle":        "article.json",
	"BlogPosting":        "article.json",
	"TechArticle":        "article.json",
	"ScholarlyArticle":   "article.json",
	"Report":             "article.json",
	"SocialMediaPosting": "article.json",
	"LiveBlogPosting":    "article.json",
	"Product":            "product.json",
	"Organization":       "organization.json",
	"BreadcrumbList":     "breadcrumblist.json",
	"FAQPage":            "faqpage.json",
	"WebSite":            "website.json",
	"Person":             "person.json",
	"Event":              "event.json",
}

// conditionalKeywords are reported by gojsonschema for if/then/else
// branches. The failing branch is reported on its own, so these only
// repeat it.
var conditionalKeywords = map[string]struct{}{
	"condition_then": {},
	"condition_else": {},
	"if":             {},
	"then":           {},
	"else":           {},
}

// Violation is one structural error in a JSON-LD object.
type Violation struct {
	Keyword string `json:"keyword"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String formats the violation for issue messages.
func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validator holds the compiled schemas. It is read-only after New and safe
// for concurrent use.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

// New compiles every embedded schema.
func New() (*Validator, error) {
	compiled := make(map[string]*gojsonschema.Schema)
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema, len(typeSchemas))}

	for typ, file := range typeSchemas {
		s, ok := compiled[file]
		if !ok {
			data, err := schemaFS.ReadFile("schemas/" + file)
			if err != nil {
				return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
			}
			s, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
			if err != nil {
				return nil, fmt.Errorf("failed to compile schema %s: %w", file, err)
			}
			compiled[file] = s
		}
		v.schemas[typ] = s
	}
	return v, nil
}

// Types returns the registered types in sorted order.
func (v *Validator) Types() []string {
	types := make([]string, 0, len(v.schemas))
	for typ := range v.schemas {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Validate checks doc against the schema registered for typ. registered is
// false when no schema exists for typ, in which case there are no
// violations.
func (v *Validator) Validate(typ string, doc map[string]any) (registered bool, violations []Violation) {
	s, ok := v.schemas[typ]
	if !ok {
		return false, nil
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return true, []Violation{{Keyword: "document", Path: "(root)", Message: err.Error()}}
	}
	if result.Valid() {
		return true, nil
	}

	for _, e := range result.Errors() {
		if _, noise := conditionalKeywords[e.Type()]; noise {
			continue
		}
		violations = append(violations, Violation{
			Keyword: e.Type(),
			Path:    fieldPath(e),
			Message: e.Description(),
		})
	}
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Message < violations[j].Message
	})
	return true, violations
}

// fieldPath returns the dotted location of e below the document root.
func fieldPath(e gojsonschema.ResultError) string {
	if e.Context() == nil {
		return e.Field()
	}
	return strings.TrimPrefix(e.Context().String(), "(root).")
}

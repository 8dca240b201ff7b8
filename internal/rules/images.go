package rules

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/seoscan/internal/model"
)

// filenameAlt matches alt text that is just an image file name.
var filenameAlt = regexp.MustCompile(`(?i)^[\w\-. ]+\.(png|jpe?g|gif|webp|avif|svg|bmp|tiff?)$`)

// CheckImages checks the attributes of every <img>.
func CheckImages(_ *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue

	for _, img := range page.Images {
		opts := []model.IssueOption{model.WithElement(imageElement(img)), model.WithLine(img.Line)}

		if img.Src == "" {
			issues = append(issues, pageIssue(page, "images/src-missing", opts...))
		}

		switch {
		case img.Alt == nil:
			issues = append(issues, pageIssue(page, "images/alt-missing", opts...))
		case utf8.RuneCountInString(*img.Alt) > AltMaxLength:
			issues = append(issues, pageIssue(page, "images/alt-too-long",
				append(opts, model.WithValues(chars(utf8.RuneCountInString(*img.Alt)),
					"at most "+strconv.Itoa(AltMaxLength)+" characters"))...))
		case isFilenameAlt(*img.Alt, img.Src):
			issues = append(issues, pageIssue(page, "images/alt-filename",
				append(opts, model.WithValues(*img.Alt, "a description of the image"))...))
		}

		if img.Width == nil || img.Height == nil {
			issues = append(issues, pageIssue(page, "images/dimensions-missing", opts...))
		}
	}
	return issues
}

func isFilenameAlt(alt, src string) bool {
	if alt == "" {
		return false
	}
	if filenameAlt.MatchString(alt) {
		return true
	}
	base := path.Base(strings.SplitN(src, "?", 2)[0])
	return src != "" && strings.EqualFold(alt, base)
}

// imageElement renders a stable excerpt for an image.
func imageElement(img model.Image) string {
	return `<img src="` + img.Src + `">`
}

package rules

import "github.com/nao1215/seoscan/internal/model"

// CheckMedia checks <video> elements.
func CheckMedia(_ *Env, page *model.PageRecord) []model.Issue {
	var issues []model.Issue
	for _, v := range page.Videos {
		opts := []model.IssueOption{model.WithElement(`<video src="` + v.Src + `">`), model.WithLine(v.Line)}
		if v.Src == "" {
			issues = append(issues, pageIssue(page, "media/video-no-source", opts...))
		}
		if v.Poster == "" {
			issues = append(issues, pageIssue(page, "media/video-no-poster", opts...))
		}
	}
	return issues
}

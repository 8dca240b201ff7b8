package rules

import (
	"fmt"

	"github.com/nao1215/seoscan/internal/model"
)

// CheckContent reports thin pages. Pages excluded from indexing are skipped.
func CheckContent(_ *Env, page *model.PageRecord) []model.Issue {
	if page.IsNoindex() || page.WordCount >= ThinContentWords {
		return nil
	}
	return []model.Issue{pageIssue(page, "content/thin",
		model.WithValues(fmt.Sprintf("%d words", page.WordCount), fmt.Sprintf("at least %d words", ThinContentWords)))}
}

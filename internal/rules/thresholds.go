package rules

// Length and size limits used by the page and site rules.
const (
	TitleMinLength       = 30
	TitleMaxLength       = 60
	DescriptionMinLength = 120
	DescriptionMaxLength = 160
	H1MaxLength          = 70
	ThinContentWords     = 300
	AltMaxLength         = 125
	MaxLinksPerPage      = 300
	MaxHTMLBytes         = 512 * 1024
	MaxImageBytes        = 500 * 1024

	// TrailingSlashMinorityRatio is the share of sitemap URLs using the less
	// common trailing slash convention above which it is reported.
	TrailingSlashMinorityRatio = 0.10
)

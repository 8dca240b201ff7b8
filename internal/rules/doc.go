// Package rules evaluates the rule catalog against a site index.
//
// Rules are plain functions registered on an Engine. Page rules look at one
// model.PageRecord at a time and run concurrently across pages; site rules
// see the whole model.SiteIndex and cover cross-page analyses such as
// duplicates, orphan pages, broken links, image files, robots.txt and
// sitemaps. No rule mutates the index, so evaluation needs no locking.
package rules

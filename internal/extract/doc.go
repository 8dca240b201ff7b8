// Package extract turns one rendered HTML document into a model.PageRecord.
//
// Markup is parsed with goquery; every fact a rule needs (head metadata,
// headings in document order, links with their internal/external scope,
// images, videos, unlabeled form controls, JSON-LD blocks, word count and a
// main-content digest) is collected here so rules never touch markup.
package extract

// Package pipeline runs an audit as a sequence of steps over one output
// root: index the tree, evaluate the rules, filter disabled and excluded
// issues, and summarize.
//
// Each step receives the shared *model.Audit and fills in its part. The
// BatchProcessor audits several output roots concurrently, each through a
// fresh pipeline.
package pipeline

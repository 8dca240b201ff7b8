// Package indexer walks an output tree and builds the model.SiteIndex.
//
// Discovery fans out one goroutine per directory. Pages and images are then
// stat'ed, read and extracted in bounded batches; the results of each batch
// are folded into the index by a single goroutine. A file that cannot be
// read or parsed is logged and left out of the index.
package indexer

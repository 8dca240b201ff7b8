// Package database stores the history of audit runs in SQLite.
//
// Every scan saves its result as a run keyed by a UUID. Runs of the same
// output directory can later be listed and compared by issue fingerprint
// with `seoscan compare`.
//
// The driver is modernc.org/sqlite, so the binary stays CGO-free.
package database

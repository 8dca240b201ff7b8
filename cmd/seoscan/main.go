// Package main provides the entry point for the seoscan CLI.
//
// seoscan audits the output directory of a static site generator for SEO,
// accessibility and crawlability problems without running a server.
//
// Usage:
//
//	seoscan scan dist/
//	seoscan compare dist/
//
// See --help for all available options.
package main

func main() {
	Execute()
}

// Package report renders audit results.
//
// Writers for every output format share the Writer interface:
//   - ConsoleWriter: colored terminal output with a summary table
//   - JSONWriter: the full result as JSON
//   - SARIFWriter: SARIF 2.1.0 for code scanning dashboards
//   - GitHubWriter: workflow command annotations for GitHub Actions
//   - MarkdownWriter: a Markdown document for pull request comments
//
// Writers render the issues they are given. Filtering and ordering happen
// before a result reaches this package.
package report

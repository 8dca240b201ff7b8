package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%TITLE%</title>
<meta name="description" content="A description of this page that is long enough to be useful in search results and to pass the length check, at 120+ chars.">
<meta name="viewport" content="width=device-width, initial-scale=1">
</head>
<body>
<main>
<h1>%TITLE%</h1>
<p>Some content on the page.</p>
<a href="/about">About us</a>
</main>
</body>
</html>
`

// writeSite writes a two page output tree and returns its root.
func writeSite(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"),
		strings.ReplaceAll(testPage, "%TITLE%", "Home page of the example site for tests"))
	writeFile(t, filepath.Join(root, "about.html"),
		strings.ReplaceAll(testPage, "%TITLE%", "About the example site and its authors"))
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// writeConfig writes a configuration file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".seoscan.yaml")
	writeFile(t, path, content)
	return path
}

// runCLI executes the root command with args and returns stdout and the
// command error.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

package indexer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/seoscan/internal/domain"
	"github.com/nao1215/seoscan/internal/extract"
)

// page renders a document large enough to pass the size filter.
func page(title, h1 string) string {
	return `<!DOCTYPE html><html lang="en"><head><title>` + title + `</title>
<meta name="description" content="Shared description"></head>
<body><main><h1>` + h1 + `</h1><p>` + strings.Repeat("filler text ", 30) + `</p></main></body></html>`
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func newTestIndexer(opts ...Option) *Indexer {
	return New(extract.New(domain.New("https://example.com", "")), opts...)
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "index.html", page("Home", "Welcome"))
	writeFile(t, root, "about.html", page("About", "Welcome"))
	writeFile(t, root, "blog/a/index.html", page("Post", "Post"))
	writeFile(t, root, "blog/b.html", page("Home", "Other"))
	writeFile(t, root, "tiny.html", "<p>hi</p>")
	writeFile(t, root, "old.html", `<html><head><meta http-equiv="Refresh" content="0; url=/new"></head><body>`+
		strings.Repeat(" ", 300)+`</body></html>`)
	writeFile(t, root, "img/logo.png", "PNGDATA")
	writeFile(t, root, "robots.txt", "User-agent: *\n")
	writeFile(t, root, "drafts/x.html", page("Draft", "Draft"))

	ix := newTestIndexer(WithBatchSize(2), WithConcurrency(2), WithIgnorePaths([]string{"drafts/**"}))
	index, err := ix.Build(context.Background(), root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	t.Run("pages", func(t *testing.T) {
		t.Parallel()

		want := []string{"about.html", "blog/a/index.html", "blog/b.html", "index.html"}
		got := index.PagePaths()
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("pages = %v, want %v", got, want)
		}
	})

	t.Run("multimaps", func(t *testing.T) {
		t.Parallel()

		if got := index.Titles["Home"]; len(got) != 2 {
			t.Errorf("expected two pages titled Home, got %v", got)
		}
		if got := index.H1s["Welcome"]; len(got) != 2 {
			t.Errorf("expected two pages with h1 Welcome, got %v", got)
		}
		if got := index.Descriptions["Shared description"]; len(got) != 4 {
			t.Errorf("expected four pages sharing the description, got %v", got)
		}
	})

	t.Run("files and images", func(t *testing.T) {
		t.Parallel()

		img, ok := index.Images["img/logo.png"]
		if !ok || img.Size != int64(len("PNGDATA")) {
			t.Errorf("unexpected image entry %+v", img)
		}
		for _, rel := range []string{"robots.txt", "tiny.html", "old.html"} {
			if !index.HasFile(rel) {
				t.Errorf("expected %s in the file set", rel)
			}
		}
		if index.HasFile("drafts/x.html") {
			t.Error("ignored paths must not be indexed")
		}
	})
}

func TestBuildIsDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeFile(t, root, name+"/index.html", page("Same", "Same"))
	}

	first, err := newTestIndexer(WithBatchSize(1)).Build(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := newTestIndexer(WithConcurrency(8)).Build(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(first.Titles["Same"], ",") != strings.Join(second.Titles["Same"], ",") {
		t.Errorf("fold order differs: %v vs %v", first.Titles["Same"], second.Titles["Same"])
	}
}

func TestBuildThresholds(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "tiny.html", "<html><body><p>short page</p></body></html>")

	index, err := newTestIndexer(WithPageThresholds(0, 0)).Build(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := index.Page("tiny.html"); !ok {
		t.Error("expected tiny page to be indexed with a zero threshold")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if _, err := newTestIndexer().Build(context.Background(), filepath.Join(root, "missing")); err == nil {
		t.Error("expected error for a missing root")
	}

	file := filepath.Join(root, "file.html")
	writeFile(t, root, "file.html", "x")
	if _, err := newTestIndexer().Build(context.Background(), file); !errors.Is(err, ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory, got %v", err)
	}
}

func TestIsRedirectStub(t *testing.T) {
	t.Parallel()

	testCases := map[string]bool{
		`<meta http-equiv="refresh" content="0;url=/x">`: true,
		`<META HTTP-EQUIV="Refresh" content="0">`:        true,
		`<meta http-equiv="content-type" content="x">`:   false,
		`<p>refresh</p>`: false,
	}
	for raw, want := range testCases {
		if got := IsRedirectStub([]byte(raw)); got != want {
			t.Errorf("IsRedirectStub(%q) = %v, want %v", raw, got, want)
		}
	}
}

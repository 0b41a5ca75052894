package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractURLsMarkdownAndHTML(t *testing.T) {
	f := NewFetcher(t.TempDir())
	body := `See this bug: ![screenshot](https://example.com/shot.png)

<img src="https://example.com/other.jpg">
`
	urls := f.extractURLs(body)
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %v", urls)
	}
}

func TestLocalizeDownloadsImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-image-bytes"))
	}))
	defer server.Close()

	destDir := t.TempDir()
	f := NewFetcher(destDir)

	body := "bug here ![shot](" + server.URL + "/shot.png)"
	rewritten := f.Localize(context.Background(), body)

	if strings.Contains(rewritten, server.URL) {
		t.Errorf("expected remote URL to be rewritten, got: %s", rewritten)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatalf("reading dest dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 downloaded file, got %d", len(entries))
	}
}

func TestLocalizeTolerantOfFailedDownload(t *testing.T) {
	f := NewFetcher(t.TempDir())
	body := "bug here ![shot](http://127.0.0.1:1/nope.png)"

	rewritten := f.Localize(context.Background(), body)
	if rewritten != body {
		t.Errorf("expected unreachable URL to be left as-is, got: %s", rewritten)
	}
}

func TestLocalizeAnnotatesVideo(t *testing.T) {
	f := NewFetcher(t.TempDir())
	body := "repro here ![clip](https://example.com/clip.mp4)"

	rewritten := f.Localize(context.Background(), body)
	if !strings.Contains(rewritten, "not readable by the agent") {
		t.Errorf("expected video annotation, got: %s", rewritten)
	}
}

func TestFilenameForURL(t *testing.T) {
	if got := filenameForURL("https://example.com/path/shot.png?x=1"); got != "shot.png" {
		t.Errorf("unexpected filename: %q", got)
	}
	if got := filenameForURL("https://example.com/"); got != "media" {
		t.Errorf("expected fallback filename, got %q", got)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("content"))
	}))
	defer server.Close()

	destDir := t.TempDir()
	f := NewFetcher(destDir)

	path, err := f.download(context.Background(), server.URL+"/img.png")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if filepath.Dir(path) != destDir {
		t.Errorf("expected file under %s, got %s", destDir, path)
	}
}

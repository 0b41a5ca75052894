// Package media scans an issue body for image and video references,
// downloads images to local files, and rewrites the body to point at the
// local copies so the coding agent can inspect them from its worktree
// without outbound network access.
package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/pleborg/pleb/internal/logging"
)

// imageExt recognizes the file extensions this package downloads, matched
// against a URL's path.
var imageExt = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|svg)(\?.*)?$`)
var videoExt = regexp.MustCompile(`(?i)\.(mp4|mov|webm|avi)(\?.*)?$`)

// markdownImage matches Markdown image syntax: ![alt](url)
var markdownImage = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Fetcher downloads media referenced in issue bodies into destDir.
type Fetcher struct {
	client  *http.Client
	destDir string
}

// NewFetcher returns a Fetcher that writes downloaded media under destDir.
func NewFetcher(destDir string) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		destDir: destDir,
	}
}

// Localize scans body for image/video references (both raw HTML <img>/
// <video> tags and Markdown image syntax, since GitHub issue bodies mix
// both), downloads every image it can reach, and returns the body rewritten
// to point at local files. A download failure for one URL is logged and
// that reference is left unrewritten; Localize never fails the whole
// provisioning pipeline over an unreachable image, matching the spec's
// "failure tolerant" contract.
func (f *Fetcher) Localize(ctx context.Context, body string) string {
	urls := f.extractURLs(body)
	if len(urls) == 0 {
		return body
	}

	if err := os.MkdirAll(f.destDir, 0o755); err != nil {
		logging.Warn("media: failed to create destination directory", "dir", f.destDir, "error", err)
		return body
	}

	rewritten := body
	for _, url := range urls {
		switch {
		case videoExt.MatchString(url):
			rewritten = strings.ReplaceAll(rewritten, url, fmt.Sprintf("%s (video, not readable by the agent)", url))
		case imageExt.MatchString(url) || looksLikeImageHost(url):
			localPath, err := f.download(ctx, url)
			if err != nil {
				logging.Warn("media: failed to download image, leaving reference as-is", "url", url, "error", err)
				continue
			}
			rewritten = strings.ReplaceAll(rewritten, url, localPath)
		}
	}
	return rewritten
}

func (f *Fetcher) extractURLs(body string) []string {
	seen := make(map[string]bool)
	var urls []string

	add := func(u string) {
		u = strings.TrimSpace(u)
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	for _, match := range markdownImage.FindAllStringSubmatch(body, -1) {
		add(match[2])
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err == nil {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode && (n.Data == "img" || n.Data == "video" || n.Data == "source") {
				for _, attr := range n.Attr {
					if attr.Key == "src" {
						add(attr.Val)
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(doc)
	}

	return urls
}

func (f *Fetcher) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	filename := filenameForURL(url)
	destPath := filepath.Join(f.destDir, filename)

	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("writing downloaded content: %w", err)
	}

	return destPath, nil
}

func filenameForURL(rawURL string) string {
	clean := strings.SplitN(rawURL, "?", 2)[0]
	base := filepath.Base(clean)
	if base == "" || base == "." || base == "/" {
		base = "media"
	}
	return base
}

// looksLikeImageHost recognizes GitHub's own asset CDN, which serves
// uploaded images without a recognizable file extension in the URL.
func looksLikeImageHost(url string) bool {
	return strings.Contains(url, "user-images.githubusercontent.com") ||
		strings.Contains(url, "github.com/user-attachments/assets")
}

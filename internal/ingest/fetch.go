package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the HTTP request timeout for document fetches.
const DefaultTimeout = 30 * time.Second

const userAgent = "Mozilla/5.0 (compatible; IdeaScorer/1.0)"

// FetchError represents a failure to retrieve or process a remote document.
type FetchError struct {
	URL     string
	Message string
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

func fetchURL(ctx context.Context, urlStr string) (body, contentType string, err error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", "", &FetchError{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := &http.Client{Timeout: DefaultTimeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", "", &FetchError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", &FetchError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", "", &FetchError{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &FetchError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return string(bodyBytes), resp.Header.Get("Content-Type"), nil
}

// ExtractText parses HTML and returns the visible body text with noise
// elements (navigation, scripts, ads) removed.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, aside, iframe, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner").Remove()

	// Prefer a main-content element when one exists.
	var content *goquery.Selection
	for _, selector := range []string{"main", "article", ".content", "#content"} {
		if selection := doc.Find(selector); selection.Length() > 0 {
			content = selection.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	lines := strings.Split(content.Text(), "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), nil
}

func readFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("document not found: %w", err)
		}
		return "", fmt.Errorf("failed to read document: %w", err)
	}
	return string(content), nil
}

func documentNameFromURL(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "document"
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	last := segments[len(segments)-1]
	if last == "" {
		return parsed.Hostname()
	}
	if dot := strings.LastIndex(last, "."); dot > 0 {
		last = last[:dot]
	}
	return last
}

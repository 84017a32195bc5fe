// Package ingest loads source documents from local files or URLs and
// normalizes them to plain text. The pipeline treats its input as opaque
// text; everything format-specific stops here.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/venturelab/idea-scorer/internal/types"
)

// maxContentLength caps ingested text so a single oversized page cannot
// blow up downstream token budgets.
const maxContentLength = 50000

// FromFile reads a local text document, cleans it, and returns the text
// with metadata.
func FromFile(path string) (string, *types.DocumentMetadata, error) {
	content, err := readFile(path)
	if err != nil {
		return "", nil, err
	}

	text := truncate(CleanText(content))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return text, newMetadata(name, text, ""), nil
}

// FromURL fetches a document over HTTP, extracts the main text from HTML,
// cleans it, and returns the text with metadata.
func FromURL(ctx context.Context, urlStr string) (string, *types.DocumentMetadata, error) {
	raw, contentType, err := fetchURL(ctx, urlStr)
	if err != nil {
		return "", nil, err
	}

	text := raw
	if isHTML(contentType, raw) {
		text, err = ExtractText(raw)
		if err != nil {
			return "", nil, &FetchError{URL: urlStr, Message: "content extraction failed", Cause: err}
		}
	}

	text = truncate(CleanText(text))
	return text, newMetadata(documentNameFromURL(urlStr), text, urlStr), nil
}

// FromText wraps caller-provided text in the same cleaning and metadata
// treatment as file and URL sources.
func FromText(name, content string) (string, *types.DocumentMetadata) {
	text := truncate(CleanText(content))
	if name == "" {
		name = "document"
	}
	return text, newMetadata(name, text, "")
}

// CleanText normalizes line endings and whitespace while preserving
// paragraph structure.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			cleaned = append(cleaned, "")
			continue
		}
		cleaned = append(cleaned, normalizeSpaces.ReplaceAllString(strings.TrimSpace(line), " "))
	}

	result := strings.Join(cleaned, "\n")
	result = excessiveBlankLines.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

var (
	normalizeSpaces     = regexp.MustCompile(`\s+`)
	excessiveBlankLines = regexp.MustCompile(`\n\n\n+`)
)

func newMetadata(name, text, sourceURL string) *types.DocumentMetadata {
	return &types.DocumentMetadata{
		Name:          name,
		ContentHash:   ContentHash(text),
		NumCharacters: len(text),
		NumParagraphs: countParagraphs(text),
		SourceURL:     sourceURL,
	}
}

// ContentHash returns the SHA-256 hex digest of the text. Used to key
// cached extractions by document identity rather than by filename.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func countParagraphs(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) != "" {
			count++
		}
	}
	return count
}

func truncate(text string) string {
	if len(text) > maxContentLength {
		return text[:maxContentLength]
	}
	return text
}

func isHTML(contentType, body string) bool {
	if strings.Contains(strings.ToLower(contentType), "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}

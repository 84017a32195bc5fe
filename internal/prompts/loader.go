// Package prompts provides the embedded prompt catalog for the evaluation
// agents. Prompts are stored in agents.json and embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

const catalogFile = "agents.json"

// cache holds the parsed catalog to avoid repeated JSON parsing
var (
	cache   map[string]string
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by key (e.g. "extraction-system").
// Returns an error if the catalog cannot be read or the key is not found.
func Get(key string) (string, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return "", err
	}

	prompt, exists := catalog[key]
	if !exists {
		return "", fmt.Errorf("prompt key %q not found in %s", key, catalogFile)
	}

	return prompt, nil
}

// MustGet retrieves a prompt by key, panicking if not found.
// Use this for prompts that are required at initialization time.
func MustGet(key string) string {
	prompt, err := Get(key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces template placeholders in the form {{.Key}} with values from data.
// This is a simple template system for prompt customization.
func Format(template string, data map[string]string) string {
	result := template
	for key, value := range data {
		placeholder := fmt.Sprintf("{{.%s}}", key)
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}

// loadCatalog loads and caches the prompt catalog.
func loadCatalog() (map[string]string, error) {
	cacheMu.RLock()
	if cache != nil {
		defer cacheMu.RUnlock()
		return cache, nil
	}
	cacheMu.RUnlock()

	data, err := promptFiles.ReadFile(catalogFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", catalogFile, err)
	}

	var catalog map[string]string
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", catalogFile, err)
	}

	cacheMu.Lock()
	cache = catalog
	cacheMu.Unlock()

	return catalog, nil
}

// ClearCache clears the prompt cache. Useful for testing.
func ClearCache() {
	cacheMu.Lock()
	cache = nil
	cacheMu.Unlock()
}

// List returns all available prompt keys in the catalog.
func List() ([]string, error) {
	catalog, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(catalog))
	for key := range catalog {
		keys = append(keys, key)
	}
	return keys, nil
}

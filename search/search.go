// Package search provides web search with pluggable text-mode engines.
package search

import (
	"net/http"
	"time"

	"tbrowse/urlclean"
)

// Result represents a single search result.
type Result struct {
	Title string
	URL   string
}

// Provider defines the interface for search engines.
type Provider interface {
	// Search performs a web search and returns results in rank order.
	Search(query string) ([]Result, error)

	// Name returns the engine's display name.
	Name() string
}

// Options configures how providers fetch and filter results.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Clean     urlclean.Options
}

// engine ids, in menu order.
var engineIDs = []string{"duck_lite", "duck_html", "brave", "google", "bing"}

// ByID returns the provider for an engine id, defaulting to
// DuckDuckGo Lite for unknown ids.
func ByID(id string, opts Options) Provider {
	switch id {
	case "duck_html":
		return NewDuckDuckGoHTML(opts)
	case "brave":
		return NewBrave(opts)
	case "google":
		return NewGoogleText(opts)
	case "bing":
		return NewBing(opts)
	default:
		return NewDuckDuckGoLite(opts)
	}
}

// Engines lists the available engine ids in menu order.
func Engines() []string {
	return append([]string(nil), engineIDs...)
}

// EngineName returns the display name for an engine id.
func EngineName(id string) string {
	return ByID(id, Options{}).Name()
}

func newClient(opts Options) *http.Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// keep discards results pointing at ad or tracker hosts and normalizes
// the rest.
func keep(results []Result, opts Options) []Result {
	var out []Result
	for _, r := range results {
		r.URL = urlclean.Normalize(r.URL, opts.Clean)
		if urlclean.IsAdOrTracker(r.URL, opts.Clean) {
			continue
		}
		out = append(out, r)
	}
	return out
}

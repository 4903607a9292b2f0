// Package format provides a registry for alternate document formats.
// Resources that are not HTML (PDFs and the like) are handled by a
// registered extractor instead of the HTML content pipeline.
package format

import "sync"

// Handler defines the interface for alternate-format extractors.
type Handler interface {
	// Name returns a human-readable name for this handler.
	Name() string

	// Match returns true if this handler should process the given URL.
	Match(url string) bool

	// Extract produces paragraphs and a title from the raw resource
	// bytes. Errors are reported to the user as a sentinel paragraph
	// by the caller, never as a crash.
	Extract(data []byte, url string) (paragraphs []string, title string, err error)
}

var (
	handlers []Handler
	mu       sync.RWMutex
)

// Register adds a format handler to the registry.
// Handlers are checked in registration order.
func Register(h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers = append(handlers, h)
}

// ForURL returns the first handler matching the URL, or nil.
func ForURL(url string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	for _, h := range handlers {
		if h.Match(url) {
			return h
		}
	}
	return nil
}

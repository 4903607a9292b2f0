// Package history keeps a recency-ordered record of visited URLs.
//
// The on-disk layout is one record per line: title|||url. The list is
// most-recent-first, holds no duplicate URLs, and is truncated to a
// configured maximum length.
package history

import (
	"fmt"
	"os"
	"strings"
)

const delimiter = "|||"

// Entry is one visited resource.
type Entry struct {
	Title string // empty means no title
	URL   string
}

// Store manages the history file.
type Store struct {
	path string
	max  int
}

// NewStore returns a store bound to path, keeping at most max entries.
func NewStore(path string, max int) *Store {
	return &Store{path: path, max: max}
}

// Load reads all entries, most recent first. Malformed lines are
// skipped and an unreadable file is treated as empty.
func (s *Store) Load() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var out []Entry
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, delimiter)
		switch len(parts) {
		case 2:
			out = append(out, Entry{Title: parts[0], URL: parts[1]})
		case 1:
			out = append(out, Entry{URL: parts[0]})
		}
	}
	return out
}

// Add records a visit. Any prior entry for the same URL is removed
// first, the new entry is prepended, and the list is truncated to the
// configured maximum.
func (s *Store) Add(title, url string) error {
	entries := s.Load()

	kept := entries[:0]
	for _, e := range entries {
		if e.URL != url {
			kept = append(kept, e)
		}
	}
	entries = append([]Entry{{Title: title, URL: url}}, kept...)
	if s.max > 0 && len(entries) > s.max {
		entries = entries[:s.max]
	}

	return s.writeAll(entries)
}

// Remove drops any entry for the given URL.
func (s *Store) Remove(url string) error {
	entries := s.Load()
	kept := entries[:0]
	for _, e := range entries {
		if e.URL != url {
			kept = append(kept, e)
		}
	}
	return s.writeAll(kept)
}

func (s *Store) writeAll(entries []Entry) error {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s%s%s\n", e.Title, delimiter, e.URL)
	}
	return os.WriteFile(s.path, []byte(sb.String()), 0644)
}

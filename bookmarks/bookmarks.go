// Package bookmarks provides persistent URL-keyed bookmark storage.
//
// The on-disk layout is one record per line, fields joined by "|||":
// title|||url|||block. Older files carry url|||block or bare url lines;
// those still parse, with missing pieces defaulting to no title and
// block 0.
package bookmarks

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const delimiter = "|||"

// Bookmark is a saved reading position.
type Bookmark struct {
	Title string // empty means no title
	URL   string
	Block int
}

// Store manages the bookmark file.
type Store struct {
	path string
}

// NewStore returns a store bound to the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads all bookmarks. Malformed lines are skipped and an
// unreadable file is treated as empty; loading never fails.
// Legacy duplicate URLs across mixed-format lines are returned as
// independent records in file order; the next Save collapses them.
func (s *Store) Load() []Bookmark {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var out []Bookmark
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, delimiter)
		switch len(parts) {
		case 3:
			out = append(out, Bookmark{Title: parts[0], URL: parts[1], Block: parseBlock(parts[2])})
		case 2:
			out = append(out, Bookmark{URL: parts[0], Block: parseBlock(parts[1])})
		case 1:
			out = append(out, Bookmark{URL: parts[0]})
		}
	}
	return out
}

// Save upserts a bookmark by URL: an existing record gets the new block
// index and title (keeping its prior title when the new one is empty),
// otherwise the bookmark is appended.
func (s *Store) Save(url string, block int, title string) error {
	marks := s.Load()
	updated := false
	for i, b := range marks {
		if b.URL == url {
			if title == "" {
				title = b.Title
			}
			marks[i] = Bookmark{Title: title, URL: url, Block: block}
			updated = true
			break
		}
	}
	if !updated {
		marks = append(marks, Bookmark{Title: title, URL: url, Block: block})
	}
	return s.writeAll(marks)
}

// Rename repoints any bookmark for oldURL at newURL, refreshing the
// title when one is given. Used when a continuation changes the
// canonical URL of a bookmarked document.
func (s *Store) Rename(oldURL, newURL, title string) error {
	marks := s.Load()
	changed := false
	for i, b := range marks {
		if b.URL == oldURL {
			marks[i].URL = newURL
			if title != "" {
				marks[i].Title = title
			}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.writeAll(marks)
}

// Delete removes the bookmark at the given position in the currently
// loaded list. Out-of-range indexes are ignored.
func (s *Store) Delete(i int) error {
	marks := s.Load()
	if i < 0 || i >= len(marks) {
		return nil
	}
	marks = append(marks[:i], marks[i+1:]...)
	return s.writeAll(marks)
}

func (s *Store) writeAll(marks []Bookmark) error {
	var sb strings.Builder
	for _, b := range marks {
		fmt.Fprintf(&sb, "%s%s%s%s%d\n", b.Title, delimiter, b.URL, delimiter, b.Block)
	}
	return os.WriteFile(s.path, []byte(sb.String()), 0644)
}

func parseBlock(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Package pager splits a document's paragraphs into fixed-size screens
// of pre-wrapped text lines.
package pager

import (
	"strings"

	"tbrowse/extract"
)

// NoReadableText is the sentinel line shown when a document yields no
// paragraphs at all.
const NoReadableText = "[No readable text]"

const minWidth = 10

// Page is one screen's worth of pre-wrapped text lines.
type Page []string

// SplitOversize cuts any paragraph longer than max characters into
// consecutive fixed-length chunks, preserving order. There is no word
// boundary awareness: the cuts land exactly every max characters.
func SplitOversize(paras []string, max int) []string {
	var out []string
	for _, para := range paras {
		runes := []rune(para)
		if len(runes) <= max {
			out = append(out, para)
			continue
		}
		for i := 0; i < len(runes); i += max {
			end := i + max
			if end > len(runes) {
				end = len(runes)
			}
			out = append(out, string(runes[i:end]))
		}
	}
	return out
}

// BuildPages turns paragraphs into display pages. Oversized paragraphs
// are pre-split, the result is grouped parasPerPage at a time, and each
// paragraph is word-wrapped to width with a blank separator line after
// it. An empty paragraph list yields a single sentinel page.
func BuildPages(paras []string, parasPerPage, maxChars, width int) []Page {
	if len(paras) == 0 {
		return []Page{{NoReadableText}}
	}
	if width < minWidth {
		width = minWidth
	}

	processed := SplitOversize(paras, maxChars)

	var pages []Page
	for start := 0; start < len(processed); start += parasPerPage {
		end := start + parasPerPage
		if end > len(processed) {
			end = len(processed)
		}
		var lines Page
		for _, para := range processed[start:end] {
			lines = append(lines, wrap(extract.CleanText(para), width)...)
			lines = append(lines, "")
		}
		pages = append(pages, lines)
	}
	return pages
}

// PaginateLinks groups links into fixed-size screens.
func PaginateLinks(links []extract.Link, per int) [][]extract.Link {
	var pages [][]extract.Link
	for start := 0; start < len(links); start += per {
		end := start + per
		if end > len(links) {
			end = len(links)
		}
		pages = append(pages, links[start:end])
	}
	return pages
}

// wrap greedily fills lines: a word joins the current line while the
// line length plus a separating space stays within width.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	var lines []string
	var current string

	for _, w := range words {
		sep := 0
		if current != "" {
			sep = 1
		}
		if len(current)+sep+len(w) > width {
			if current != "" {
				lines = append(lines, current)
			}
			current = w
		} else if current == "" {
			current = w
		} else {
			current += " " + w
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

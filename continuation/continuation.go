// Package continuation stitches together multi-part articles reachable
// via predictable /page/N URL patterns.
package continuation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tbrowse/extract"
	"tbrowse/urlclean"
)

// Fetch retrieves markup for a URL. Failures are soft: the detector
// treats any error as "no next part".
type Fetch func(url string) (string, error)

var pageRe = regexp.MustCompile(`/page/(\d+)`)

// NextPartURL computes the candidate URL for the next part of the
// document. A /page/N segment advances to N+1; without one the current
// page counts as 1 and the candidate is <url>/page/2.
func NextPartURL(current string) string {
	if m := pageRe.FindStringSubmatch(current); m != nil {
		n, _ := strconv.Atoi(m[1])
		base := current[:strings.LastIndex(current, "/page/")]
		return fmt.Sprintf("%s/page/%d", base, n+1)
	}
	return strings.TrimRight(current, "/") + "/page/2"
}

// TryNextPart probes for the next part of the document at doc.URL and
// merges it in. It returns nil when the probe fails, extracts nothing,
// or finds only paragraphs already seen; the caller treats nil as end
// of content, not as an error. On success the document's paragraphs and
// links are extended, its URL, title and lead image refreshed, and the
// caller rebuilds pages and updates persisted records for the new URL.
func TryNextPart(fetch Fetch, doc *extract.Document, opts urlclean.Options) *extract.Document {
	nextURL := NextPartURL(doc.URL)

	markup, err := fetch(nextURL)
	if err != nil {
		return nil
	}

	next := extract.Extract(markup, nextURL, opts)
	if len(next.Paragraphs) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(doc.Paragraphs))
	for _, p := range doc.Paragraphs {
		seen[p] = true
	}
	var added []string
	for _, p := range next.Paragraphs {
		if !seen[p] {
			added = append(added, p)
		}
	}
	if len(added) == 0 {
		return nil
	}

	doc.Paragraphs = append(doc.Paragraphs, added...)
	doc.Links = next.Links
	doc.URL = nextURL
	doc.Title = next.Title
	doc.MainImage = next.MainImage
	return doc
}

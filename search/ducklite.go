package search

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"tbrowse/extract"
)

const duckLiteURL = "https://lite.duckduckgo.com/lite/"

// DuckDuckGoLite searches DuckDuckGo's lite HTML frontend. It is the
// default engine: no JavaScript, no consent pages, low bandwidth.
type DuckDuckGoLite struct {
	client *http.Client
	opts   Options
}

// NewDuckDuckGoLite creates a DuckDuckGo Lite search provider.
func NewDuckDuckGoLite(opts Options) *DuckDuckGoLite {
	return &DuckDuckGoLite{client: newClient(opts), opts: opts}
}

// Name returns the provider name.
func (d *DuckDuckGoLite) Name() string { return "DuckDuckGo Lite" }

// Search performs a DuckDuckGo Lite search and returns parsed results.
func (d *DuckDuckGoLite) Search(query string) ([]Result, error) {
	body, err := get(d.client, duckLiteURL+"?q="+url.QueryEscape(query), d.opts.UserAgent)
	if err != nil {
		return nil, err
	}
	results, err := parseAnchorResults(body, "result-link")
	if err != nil {
		return nil, err
	}
	return keep(results, d.opts), nil
}

// parseAnchorResults collects all anchors carrying the given class,
// in document order.
func parseAnchorResults(htmlContent, class string) ([]Result, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, class) {
			var href string
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					href = attr.Val
					break
				}
			}
			if href != "" {
				results = append(results, Result{
					Title: extract.CleanText(textContent(n)),
					URL:   href,
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return results, nil
}

// hasClass checks if a node has a specific class.
func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, c := range strings.Fields(attr.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

// textContent extracts all text content from a node.
func textContent(n *html.Node) string {
	var text strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			text.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return text.String()
}

// get fetches a URL with browser-ish headers and returns the body.
func get(client *http.Client, rawurl, userAgent string) (string, error) {
	req, err := http.NewRequest("GET", rawurl, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0"
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

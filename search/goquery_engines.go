package search

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tbrowse/extract"
)

// DuckDuckGoHTML searches DuckDuckGo's full HTML frontend.
type DuckDuckGoHTML struct {
	client *http.Client
	opts   Options
}

// NewDuckDuckGoHTML creates a DuckDuckGo HTML search provider.
func NewDuckDuckGoHTML(opts Options) *DuckDuckGoHTML {
	return &DuckDuckGoHTML{client: newClient(opts), opts: opts}
}

// Name returns the provider name.
func (d *DuckDuckGoHTML) Name() string { return "DuckDuckGo HTML" }

// Search performs a DuckDuckGo HTML search.
func (d *DuckDuckGoHTML) Search(query string) ([]Result, error) {
	rawurl := "https://duckduckgo.com/html/?q=" + url.QueryEscape(query)
	return selectResults(d.client, rawurl, d.opts, "a.result__a")
}

// Brave searches Brave Search.
type Brave struct {
	client *http.Client
	opts   Options
}

// NewBrave creates a Brave search provider.
func NewBrave(opts Options) *Brave {
	return &Brave{client: newClient(opts), opts: opts}
}

// Name returns the provider name.
func (b *Brave) Name() string { return "Brave Search" }

// Search performs a Brave search.
func (b *Brave) Search(query string) ([]Result, error) {
	rawurl := "https://search.brave.com/search?q=" + url.QueryEscape(query) + "&source=web"
	return selectResults(b.client, rawurl, b.opts, "a.result-header")
}

// Bing searches Bing's text-mode results.
type Bing struct {
	client *http.Client
	opts   Options
}

// NewBing creates a Bing search provider.
func NewBing(opts Options) *Bing {
	return &Bing{client: newClient(opts), opts: opts}
}

// Name returns the provider name.
func (b *Bing) Name() string { return "Bing (text mode)" }

// Search performs a Bing search.
func (b *Bing) Search(query string) ([]Result, error) {
	rawurl := "https://www.bing.com/search?q=" + url.QueryEscape(query) + "&form=MSNVS"
	return selectResults(b.client, rawurl, b.opts, "li.b_algo h2 a")
}

// GoogleText searches Google through the textise.net text-mode wrapper,
// falling back to DuckDuckGo Lite when that yields nothing.
type GoogleText struct {
	client *http.Client
	opts   Options
}

// NewGoogleText creates a Google text-mode search provider.
func NewGoogleText(opts Options) *GoogleText {
	return &GoogleText{client: newClient(opts), opts: opts}
}

// Name returns the provider name.
func (g *GoogleText) Name() string { return "Google (text mode)" }

// Search performs a Google text-mode search.
func (g *GoogleText) Search(query string) ([]Result, error) {
	rawurl := "https://textise.net/showtext.aspx?strURL=" +
		url.QueryEscape("https://www.google.com/search?q="+query)

	results, err := g.search(rawurl)
	if err != nil || len(results) == 0 {
		return NewDuckDuckGoLite(g.opts).Search(query)
	}
	return results, nil
}

func (g *GoogleText) search(rawurl string) ([]Result, error) {
	body, err := get(g.client, rawurl, g.opts.UserAgent)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	var results []Result
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, "http") {
			return
		}
		title := extract.CleanText(a.Text())
		if title == "" {
			return
		}
		results = append(results, Result{Title: title, URL: href})
	})
	return keep(results, g.opts), nil
}

// selectResults fetches a results page and collects title/href pairs
// from anchors matching the selector, in document order.
func selectResults(client *http.Client, rawurl string, opts Options, selector string) ([]Result, error) {
	body, err := get(client, rawurl, opts.UserAgent)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing results: %w", err)
	}

	var results []Result
	doc.Find(selector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		results = append(results, Result{
			Title: extract.CleanText(a.Text()),
			URL:   href,
		})
	})
	return keep(results, opts), nil
}

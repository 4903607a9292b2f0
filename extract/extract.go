// Package extract isolates readable content from arbitrary HTML,
// producing a flat document of paragraphs, links and a lead image.
package extract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"tbrowse/urlclean"
)

const (
	minParagraphLen = 20
	minPreChildLen  = 5
)

// Link is a labelled absolute URL found in the document.
type Link struct {
	Label string
	URL   string
}

// Document is the normalized extraction result for one fetched resource.
type Document struct {
	URL        string
	Title      string
	Paragraphs []string
	Links      []Link
	MainImage  string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses all whitespace runs to single spaces and trims.
func CleanText(text string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

// Extract parses markup and isolates the main readable content.
// It never fails: unparseable input yields an empty Document.
func Extract(markup, baseURL string, opts urlclean.Options) *Document {
	result := &Document{URL: baseURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return result
	}

	doc.Find("script, style, nav, footer, header").Remove()

	result.Title = CleanText(doc.Find("title").First().Text())
	result.MainImage = mainImage(doc, baseURL)

	// Sites that put narrative text inside <pre> (Wattpad and friends)
	// use the pre blocks as the only content source.
	if pres := doc.Find("pre"); pres.Length() > 0 {
		pres.Each(func(_ int, pre *goquery.Selection) {
			if ps := pre.Find("p"); ps.Length() > 0 {
				ps.Each(func(_ int, p *goquery.Selection) {
					if clean := CleanText(p.Text()); utf8.RuneCountInString(clean) > minPreChildLen {
						result.Paragraphs = append(result.Paragraphs, clean)
					}
				})
			} else if clean := CleanText(pre.Text()); utf8.RuneCountInString(clean) > minParagraphLen {
				result.Paragraphs = append(result.Paragraphs, clean)
			}
		})
		result.Links = collectLinks(doc.Selection, baseURL, opts)
		return result
	}

	main := mainRegion(doc)
	main.Find("p, li").Each(func(_ int, p *goquery.Selection) {
		if clean := CleanText(p.Text()); utf8.RuneCountInString(clean) > minParagraphLen {
			result.Paragraphs = append(result.Paragraphs, clean)
		}
	})
	result.Links = collectLinks(main, baseURL, opts)
	return result
}

// mainRegion picks the candidate container with the most visible text.
// Whitespace runs collapse before counting so indentation and newlines
// inside a container never inflate its score. Candidates are scanned in
// document order and ties keep the first maximum, so extraction is
// deterministic for a given input.
func mainRegion(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestLen := -1
	doc.Find("article, main, div").Each(func(_ int, s *goquery.Selection) {
		size := utf8.RuneCountInString(CleanText(s.Text()))
		if size > bestLen {
			best, bestLen = s, size
		}
	})
	if best != nil {
		return best
	}
	if body := doc.Find("body"); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

func collectLinks(scope *goquery.Selection, baseURL string, opts urlclean.Options) []Link {
	var links []Link
	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved := urlclean.Normalize(resolveURL(baseURL, href), opts)
		if urlclean.IsAdOrTracker(resolved, opts) {
			return
		}
		label := CleanText(a.Text())
		if label == "" {
			label = resolved
		}
		links = append(links, Link{Label: label, URL: resolved})
	})
	return links
}

func mainImage(doc *goquery.Document, baseURL string) string {
	if og := doc.Find(`meta[property="og:image"]`).First(); og.Length() > 0 {
		if content, ok := og.Attr("content"); ok && content != "" {
			return resolveURL(baseURL, content)
		}
	}
	if img := doc.Find("img").First(); img.Length() > 0 {
		if src, ok := img.Attr("src"); ok && src != "" {
			return resolveURL(baseURL, src)
		}
	}
	return ""
}

// resolveURL resolves href against base, returning href untouched when
// either side fails to parse.
func resolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

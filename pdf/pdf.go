// Package pdf extracts readable text from PDF documents.
// It registers itself with the format package to handle .pdf URLs.
package pdf

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"

	"tbrowse/extract"
	"tbrowse/format"
)

func init() {
	format.Register(&handler{})
}

// handler implements format.Handler for PDF resources.
type handler struct{}

func (h *handler) Name() string {
	return "PDF"
}

func (h *handler) Match(rawurl string) bool {
	u, err := url.Parse(rawurl)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(u.Path), ".pdf")
}

// Extract pulls text page by page, one paragraph per PDF page. The
// title falls back to the file name when the document carries none.
func (h *handler) Extract(data []byte, rawurl string) ([]string, string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, "", fmt.Errorf("parsing PDF: %w", err)
	}

	var paragraphs []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if clean := extract.CleanText(text); clean != "" {
			paragraphs = append(paragraphs, clean)
		}
	}
	if len(paragraphs) == 0 {
		return nil, "", fmt.Errorf("no extractable text in PDF")
	}

	return paragraphs, titleFromURL(rawurl), nil
}

func titleFromURL(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	path := strings.TrimSuffix(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

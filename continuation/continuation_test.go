package continuation

import (
	"errors"
	"testing"

	"tbrowse/extract"
	"tbrowse/urlclean"
)

func TestNextPartURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://site.com/story/page/3", "https://site.com/story/page/4"},
		{"https://site.com/story/page/3?x=1", "https://site.com/story/page/4"},
		{"https://site.com/story", "https://site.com/story/page/2"},
		{"https://site.com/story/", "https://site.com/story/page/2"},
	}
	for _, tt := range tests {
		if got := NextPartURL(tt.in); got != tt.want {
			t.Errorf("NextPartURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func doc(url string, paras ...string) *extract.Document {
	return &extract.Document{URL: url, Paragraphs: paras}
}

const partTwo = `<html><head><title>Story p2</title></head><body><div>
	<p>A later paragraph that continues the story beyond part one.</p>
	<p>The very same paragraph that appeared in the first part too.</p>
	<a href="https://site.com/story/page/3">next</a>
</div></body></html>`

func TestTryNextPartMerges(t *testing.T) {
	fetched := ""
	fetch := func(url string) (string, error) {
		fetched = url
		return partTwo, nil
	}

	d := doc("https://site.com/story",
		"The very same paragraph that appeared in the first part too.")
	merged := TryNextPart(fetch, d, urlclean.Options{})
	if merged == nil {
		t.Fatal("expected a merge")
	}
	if fetched != "https://site.com/story/page/2" {
		t.Errorf("probed %q", fetched)
	}
	if merged.URL != "https://site.com/story/page/2" {
		t.Errorf("URL not refreshed: %q", merged.URL)
	}
	if merged.Title != "Story p2" {
		t.Errorf("title not refreshed: %q", merged.Title)
	}

	// Only the unseen paragraph is appended, after the existing ones.
	if len(merged.Paragraphs) != 2 {
		t.Fatalf("expected 2 paragraphs, got %v", merged.Paragraphs)
	}
	if merged.Paragraphs[1] != "A later paragraph that continues the story beyond part one." {
		t.Errorf("new paragraph not appended in order: %v", merged.Paragraphs)
	}
	if len(merged.Links) != 1 {
		t.Errorf("links not refreshed: %v", merged.Links)
	}
}

func TestTryNextPartFetchFailure(t *testing.T) {
	fetch := func(url string) (string, error) {
		return "", errors.New("404")
	}
	if got := TryNextPart(fetch, doc("https://site.com/story", "p"), urlclean.Options{}); got != nil {
		t.Errorf("fetch failure should be a soft nil, got %+v", got)
	}
}

func TestTryNextPartNoParagraphs(t *testing.T) {
	fetch := func(url string) (string, error) {
		return "<html><body><div><p>tiny</p></div></body></html>", nil
	}
	if got := TryNextPart(fetch, doc("https://site.com/story", "p"), urlclean.Options{}); got != nil {
		t.Errorf("empty extraction should be nil, got %+v", got)
	}
}

func TestTryNextPartAllDuplicates(t *testing.T) {
	fetch := func(url string) (string, error) {
		return partTwo, nil
	}
	d := doc("https://site.com/story",
		"A later paragraph that continues the story beyond part one.",
		"The very same paragraph that appeared in the first part too.")
	if got := TryNextPart(fetch, d, urlclean.Options{}); got != nil {
		t.Errorf("all-duplicate content should be nil, got %+v", got)
	}
	if len(d.Paragraphs) != 2 {
		t.Errorf("document mutated on a duplicate-only probe: %v", d.Paragraphs)
	}
}

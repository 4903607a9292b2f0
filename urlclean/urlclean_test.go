package urlclean

import "testing"

var cleanAll = Options{SafeMode: true, StripTracking: true}

func TestUnwrapRedirect(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{
			"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Farticle",
			"https://example.com/article",
		},
		{
			"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2F",
			"https://example.com/",
		},
		{"https://example.com/page", "https://example.com/page"},
		{"https://duckduckgo.com/about", "https://duckduckgo.com/about"},
	}
	for _, tt := range tests {
		if got := UnwrapRedirect(tt.in); got != tt.want {
			t.Errorf("UnwrapRedirect(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripTracking(t *testing.T) {
	got := StripTracking("https://duckduckgo.com/?q=secret&t=h_")
	if got != "https://duckduckgo.com/" {
		t.Errorf("query not stripped: %q", got)
	}

	keep := "https://example.com/?q=fine"
	if got := StripTracking(keep); got != keep {
		t.Errorf("non-tracking host modified: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	urls := []string{
		"https://duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.com%2Fa%2Fb",
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fexample.org",
		"https://duckduckgo.com/?q=tracked",
		"https://example.com/plain?keep=1",
		"not a url at all",
	}
	for _, u := range urls {
		once := Normalize(u, cleanAll)
		twice := Normalize(once, cleanAll)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", u, once, twice)
		}
	}
}

func TestIsAdOrTracker(t *testing.T) {
	blocked := []string{
		"https://ad.doubleclick.net/click",
		"https://www.googlesyndication.com/x",
		"https://Analytics.example.com/t",
		"https://pixel.tracker.io/p",
	}
	for _, u := range blocked {
		if !IsAdOrTracker(u, cleanAll) {
			t.Errorf("expected %q to be blocked", u)
		}
	}

	if IsAdOrTracker("https://example.com/analytics-article", cleanAll) {
		t.Error("path should not trigger the host filter")
	}

	// Safe mode off disables the filter entirely.
	if IsAdOrTracker(blocked[0], Options{SafeMode: false}) {
		t.Error("filter should be off without safe mode")
	}
}

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"https://example.com", "https://example.com", true},
		{"http://example.com", "http://example.com", true},
		{"example.com", "https://example.com", true},
		{"  example.com/page  ", "https://example.com/page", true},
		{"golang generics tutorial", "", false},
		{"hello", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeInput(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeInput(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// Package urlclean decodes search-engine redirect wrappers and strips
// tracking from URLs before they reach the rest of the browser.
package urlclean

import (
	"net/url"
	"strings"
)

// Options controls which cleaning steps apply.
type Options struct {
	SafeMode      bool // hide known ad/tracker hosts
	StripTracking bool // drop query strings on tracking-heavy search hosts
}

// adHosts are substrings identifying advertising and tracking
// infrastructure. Matched case-insensitively against the URL host.
var adHosts = []string{
	"doubleclick",
	"adservice",
	"adsystem",
	"tracking",
	"analytics",
	"pixel",
	"googlesyndication",
}

// UnwrapRedirect decodes DuckDuckGo's /l/?uddg= redirect wrapper,
// returning the embedded destination URL. Other URLs pass through
// unchanged.
func UnwrapRedirect(rawurl string) string {
	if strings.HasPrefix(rawurl, "//duckduckgo.com/l/?") {
		rawurl = "https:" + rawurl
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return rawurl
	}
	if strings.Contains(u.Host, "duckduckgo.com") && strings.HasPrefix(u.Path, "/l") {
		if dest := u.Query().Get("uddg"); dest != "" {
			return dest
		}
	}
	return rawurl
}

// StripTracking removes the query string from URLs on tracking-heavy
// search hosts.
func StripTracking(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return rawurl
	}
	if !strings.Contains(u.Host, "duckduckgo.com") {
		return rawurl
	}
	u.RawQuery = ""
	return u.String()
}

// Normalize applies UnwrapRedirect then StripTracking. It is idempotent:
// normalizing an already-normalized URL returns it unchanged.
func Normalize(rawurl string, opts Options) string {
	rawurl = UnwrapRedirect(rawurl)
	if opts.StripTracking {
		rawurl = StripTracking(rawurl)
	}
	return rawurl
}

// IsAdOrTracker reports whether the URL points at known advertising or
// tracking infrastructure. Always false when safe mode is off.
func IsAdOrTracker(rawurl string, opts Options) bool {
	if !opts.SafeMode {
		return false
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Host)
	for _, bad := range adHosts {
		if strings.Contains(host, bad) {
			return true
		}
	}
	return false
}

// NormalizeInput interprets text typed at the home prompt. URLs with a
// scheme are kept, bare hostnames (anything containing a dot) get https
// prepended, and everything else is treated as a search query.
func NormalizeInput(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		return text, true
	}
	if strings.Contains(text, ".") {
		return "https://" + text, true
	}
	return "", false
}

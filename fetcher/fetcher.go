// Package fetcher provides HTTP fetching with optional headless-browser
// fallback and a local page cache.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// FetchResult contains the fetched HTML and metadata.
type FetchResult struct {
	HTML        string
	FinalURL    string // URL after following redirects
	UsedBrowser bool
	FetchTime   time.Duration
}

// Options configures the fetcher behavior.
type Options struct {
	UserAgent      string
	TimeoutSeconds int
	ChromePath     string // Path to Chrome binary (empty = auto-detect)
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:      "Mozilla/5.0",
		TimeoutSeconds: 15,
	}
}

// Client fetches pages. The zero value is not usable; construct with
// NewClient.
type Client struct {
	opts  Options
	http  *http.Client
	cache *Cache // optional
}

// NewClient creates a fetch client with the given options.
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultOptions().UserAgent
	}
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = DefaultOptions().TimeoutSeconds
	}
	return &Client{
		opts: opts,
		http: &http.Client{Timeout: time.Duration(opts.TimeoutSeconds) * time.Second},
	}
}

// WithCache attaches a page cache consulted before the network and
// updated after each successful fetch.
func (c *Client) WithCache(cache *Cache) *Client {
	c.cache = cache
	return c
}

// Timeout returns the configured fetch timeout.
func (c *Client) Timeout() time.Duration {
	return time.Duration(c.opts.TimeoutSeconds) * time.Second
}

// Fetch retrieves a URL over plain HTTP. Non-2xx statuses are errors.
func (c *Client) Fetch(url string) (*FetchResult, error) {
	start := time.Now()

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &FetchResult{
		HTML:      string(body),
		FinalURL:  resp.Request.URL.String(),
		FetchTime: time.Since(start),
	}, nil
}

// FetchBytes retrieves a URL's raw body, for non-HTML resources such as
// images and PDFs.
func (c *Client) FetchBytes(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// WithBrowser fetches a URL using headless Chrome to execute
// JavaScript. Slower, but handles pages that block plain HTTP clients.
func (c *Client) WithBrowser(targetURL string) (*FetchResult, error) {
	start := time.Now()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(c.opts.UserAgent),
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", "new"),
	}
	if c.opts.ChromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ChromePath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	defer allocCancel()

	// Browser fetches need more headroom than plain HTTP.
	timeout := c.Timeout()
	if timeout < 30*time.Second {
		timeout = 45 * time.Second
	}
	ctx, cancel := context.WithTimeout(allocCtx, timeout)
	defer cancel()

	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var html string
	var finalURL string
	err := chromedp.Run(ctx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("browser fetch: %w", err)
	}

	return &FetchResult{
		HTML:        html,
		FinalURL:    finalURL,
		UsedBrowser: true,
		FetchTime:   time.Since(start),
	}, nil
}

// Smart fetches a URL using the best available method: plain HTTP
// first, headless browser when that fails or serves a challenge page.
// Successful results go through the cache when one is attached.
func (c *Client) Smart(targetURL string) (*FetchResult, error) {
	if c.cache != nil {
		if html, ok := c.cache.Get(targetURL); ok {
			return &FetchResult{HTML: html, FinalURL: targetURL}, nil
		}
	}

	result, err := c.Fetch(targetURL)
	if err == nil {
		if blocked, _ := IsBlockedResponse(result.HTML); !blocked {
			c.store(targetURL, result)
			return result, nil
		}
	}

	result, berr := c.WithBrowser(targetURL)
	if berr != nil {
		if err != nil {
			return nil, err
		}
		return nil, berr
	}
	if blocked, reason := IsBlockedResponse(result.HTML); blocked {
		return result, fmt.Errorf("blocked: %s", reason)
	}
	c.store(targetURL, result)
	return result, nil
}

func (c *Client) store(url string, r *FetchResult) {
	if c.cache != nil {
		c.cache.Put(url, r.HTML)
	}
}

// IsBlockedResponse checks if the HTML indicates a blocked or
// challenged page.
func IsBlockedResponse(html string) (bool, string) {
	switch {
	case contains(html, "unusual traffic from your computer"),
		contains(html, "detected unusual traffic"):
		return true, "CAPTCHA"
	case contains(html, "recaptcha") && len(html) < 10000:
		return true, "reCAPTCHA challenge"
	case contains(html, "Just a moment..."),
		contains(html, "Checking your browser"),
		contains(html, "cf-browser-verification"):
		return true, "Cloudflare challenge"
	case contains(html, "captcha-delivery.com"), contains(html, "DataDome"):
		return true, "DataDome bot protection"
	case contains(html, "px-captcha"), contains(html, "perimeterx"):
		return true, "PerimeterX bot protection"
	}
	return false, ""
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

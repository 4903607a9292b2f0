// Tbrowse is a terminal browser for reading remote documents as plain
// text: it extracts the readable content of a page, splits it into
// fixed-size screens and lets you page through, follow links, search
// and keep bookmarks.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tbrowse/bookmarks"
	"tbrowse/config"
	"tbrowse/fetcher"
	"tbrowse/history"
	"tbrowse/imgview"
	"tbrowse/nav"
	_ "tbrowse/pdf" // registers the PDF format handler
	"tbrowse/search"
	"tbrowse/term"
	"tbrowse/urlclean"
)

const (
	bookmarkFile = ".tbrowser_bookmarks"
	historyFile  = ".tbrowser_history"
	cacheTTL     = 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("locating home directory: %v", err)
	}

	client := fetcher.NewClient(fetcher.Options{
		UserAgent:      cfg.Fetcher.UserAgent,
		TimeoutSeconds: cfg.Fetcher.TimeoutSeconds,
		ChromePath:     cfg.Fetcher.ChromePath,
	})
	if cacheDir, err := os.UserCacheDir(); err == nil {
		path := filepath.Join(cacheDir, "tbrowse")
		if err := os.MkdirAll(path, 0755); err == nil {
			if cache, err := fetcher.OpenCache(filepath.Join(path, "pages.db"), cacheTTL); err == nil {
				cache.Prune()
				defer cache.Close()
				client = client.WithCache(cache)
			}
		}
	}

	marks := bookmarks.NewStore(filepath.Join(home, bookmarkFile))
	visits := history.NewStore(filepath.Join(home, historyFile), cfg.History.MaxEntries)

	ui := &terminalUI{in: bufio.NewReader(os.Stdin)}
	ui.applyTheme(cfg.Display.Theme)

	cleanOpts := func() urlclean.Options {
		return urlclean.Options{
			SafeMode:      cfg.Privacy.SafeMode,
			StripTracking: cfg.Privacy.StripTracking,
		}
	}

	deps := nav.Deps{
		Fetch: func(url string) (string, string, error) {
			result, err := client.Smart(url)
			if err != nil {
				return "", "", err
			}
			return result.HTML, result.FinalURL, nil
		},
		FetchBytes: client.FetchBytes,
		Search: func(query string) ([]search.Result, error) {
			provider := search.ByID(cfg.Search.Engine, search.Options{
				UserAgent: cfg.Fetcher.UserAgent,
				Timeout:   client.Timeout(),
				Clean:     cleanOpts(),
			})
			return provider.Search(query)
		},
		ImageLines: imgview.Lines,
		Bookmarks:  marks,
		History:    visits,
		Settings:   func() { settingsMenu(ui, cfg) },
	}

	tunables := func() nav.Tunables {
		cols, _ := term.Size()
		return nav.Tunables{
			ParasPerPage:     cfg.Reading.ParasPerPage,
			MaxCharsPerBlock: cfg.Reading.MaxCharsPerBlock,
			LinksPerPage:     cfg.Reading.LinksPerPage,
			ResultsPerPage:   cfg.Search.ResultsPerPage,
			Width:            cols,
			Clean:            cleanOpts(),
		}
	}

	nav.New(ui, deps, tunables).Run()
}

// terminalUI renders display lines to stdout with ANSI colors and
// reads single-line commands from stdin.
type terminalUI struct {
	in *bufio.Reader

	cReset string
	cTitle string
	cDim   string
	cCmd   string
	cText  string
}

func (t *terminalUI) applyTheme(theme string) {
	t.cReset = "\033[0m"
	if theme == "night" {
		t.cTitle = "\033[38;5;250m"
		t.cCmd = "\033[38;5;65m"
		t.cDim = "\033[38;5;240m"
		t.cText = "\033[38;5;245m"
	} else {
		t.cTitle = "\033[96m"
		t.cCmd = "\033[92m"
		t.cDim = "\033[90m"
		t.cText = "\033[0m"
	}
}

// Show clears the screen and prints the lines, coloring headings and
// command legends.
func (t *terminalUI) Show(lines []string) {
	fmt.Print("\033[2J\033[H")
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "==="):
			fmt.Println(t.cTitle + line + t.cReset)
		case strings.Contains(line, "q=quit") || strings.Contains(line, "Enter=back"):
			fmt.Println(t.cCmd + line + t.cReset)
		case strings.HasPrefix(line, "Block ") || strings.HasPrefix(line, "Page "):
			fmt.Println(t.cDim + line + t.cReset)
		default:
			fmt.Println(t.cText + line + t.cReset)
		}
	}
}

func (t *terminalUI) Prompt(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := t.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// settingsMenu adjusts the engine tunables and persists them.
func settingsMenu(ui *terminalUI, cfg *config.Config) {
	for {
		ui.Show([]string{
			"=== SETTINGS ===",
			"",
			fmt.Sprintf("1. Paragraphs per page: %d", cfg.Reading.ParasPerPage),
			fmt.Sprintf("2. Search engine: %s", search.EngineName(cfg.Search.Engine)),
			fmt.Sprintf("3. Search results per page: %d", cfg.Search.ResultsPerPage),
			fmt.Sprintf("4. Color theme: %s", cfg.Display.Theme),
			fmt.Sprintf("5. Max characters per block: %d", cfg.Reading.MaxCharsPerBlock),
			"",
			"q = back",
		})

		choice, err := ui.Prompt("> ")
		if err != nil {
			return
		}
		switch strings.ToLower(strings.TrimSpace(choice)) {
		case "q":
			return
		case "1":
			if n, ok := askInt(ui, "Paragraphs per page (1-20): ", 1, 20); ok {
				cfg.Reading.ParasPerPage = n
				cfg.Save()
			}
		case "2":
			pickEngine(ui, cfg)
		case "3":
			if n, ok := askInt(ui, "Search results per page (5-50): ", 5, 50); ok {
				cfg.Search.ResultsPerPage = n
				cfg.Save()
			}
		case "4":
			pickTheme(ui, cfg)
		case "5":
			if n, ok := askInt(ui, "Max characters per block (200-5000): ", 200, 5000); ok {
				cfg.Reading.MaxCharsPerBlock = n
				cfg.Save()
			}
		}
	}
}

func pickEngine(ui *terminalUI, cfg *config.Config) {
	ids := search.Engines()
	lines := []string{"=== SEARCH ENGINES ===", ""}
	for i, id := range ids {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, search.EngineName(id)))
	}
	lines = append(lines, "", "q = back")
	ui.Show(lines)

	choice, err := ui.Prompt("> ")
	if err != nil {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(choice)); err == nil && n >= 1 && n <= len(ids) {
		cfg.Search.Engine = ids[n-1]
		cfg.Save()
	}
}

func pickTheme(ui *terminalUI, cfg *config.Config) {
	ui.Show([]string{
		"=== COLOR THEMES ===",
		"",
		"1. default (bright)",
		"2. night (dim grey, dark green)",
		"",
		"q = back",
	})
	choice, err := ui.Prompt("> ")
	if err != nil {
		return
	}
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Display.Theme = "default"
	case "2":
		cfg.Display.Theme = "night"
	default:
		return
	}
	ui.applyTheme(cfg.Display.Theme)
	cfg.Save()
}

func askInt(ui *terminalUI, prompt string, min, max int) (int, bool) {
	val, err := ui.Prompt(prompt)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || n < min || n > max {
		return 0, false
	}
	return n, true
}

// Package nav implements the navigation state machine tying reading,
// search, bookmarks and history together. It emits display lines
// through a UI collaborator and consumes single-line text commands;
// terminal details stay outside.
package nav

import (
	"fmt"
	"strconv"
	"strings"

	"tbrowse/bookmarks"
	"tbrowse/continuation"
	"tbrowse/extract"
	"tbrowse/format"
	"tbrowse/history"
	"tbrowse/pager"
	"tbrowse/search"
	"tbrowse/urlclean"
)

// Mode identifies the current navigation state.
type Mode int

const (
	ModeHome Mode = iota
	ModeSearch
	ModeBookmarks
	ModeHistory
	ModeReadingText
	ModeReadingLinks
	ModeQuit
)

// Origin records where the current reading session was entered from;
// it decides where the back command lands.
type Origin int

const (
	OriginDirect Origin = iota
	OriginSearch
	OriginBookmark
	OriginHistory
)

// UI is the rendering collaborator: the machine hands it display lines
// and asks it for one-line commands.
type UI interface {
	Show(lines []string)
	Prompt(prompt string) (string, error)
}

// Tunables are the engine limits threaded into every call. Settings
// changes produce a new value; the machine never mutates one.
type Tunables struct {
	ParasPerPage     int
	MaxCharsPerBlock int
	LinksPerPage     int
	ResultsPerPage   int
	Width            int
	Clean            urlclean.Options
}

// Deps are the machine's external collaborators.
type Deps struct {
	Fetch      func(url string) (html string, finalURL string, err error)
	FetchBytes func(url string) ([]byte, error)
	Search     func(query string) ([]search.Result, error)
	ImageLines func(data []byte, maxWidth int) ([]string, error)
	Bookmarks  *bookmarks.Store
	History    *history.Store
	Settings   func() // settings flow, reachable from home; may be nil
}

// Machine drives the browser's modes.
type Machine struct {
	ui   UI
	deps Deps
	tun  func() Tunables
}

// New creates a navigation machine. tun is called before each
// pagination or search so settings changes take effect immediately.
func New(ui UI, deps Deps, tun func() Tunables) *Machine {
	return &Machine{ui: ui, deps: deps, tun: tun}
}

// state carries everything the current mode needs. It is never
// persisted; bookmarks and history are the only durable state.
type state struct {
	mode Mode

	// pending document to open
	url        string
	origin     Origin
	startBlock int

	// search
	query       string
	results     []search.Result
	resultsPage int

	// live reading session
	session *session
}

// session owns the live document and its page arrays.
type session struct {
	origin    Origin
	doc       *extract.Document
	pages     []pager.Page
	linkPages [][]extract.Link
	page      int // current text page
	linksPage int // current link page
	listPos   int // search results page to restore on back
}

// Run drives the machine until the user quits.
func (m *Machine) Run() {
	s := state{mode: ModeHome}
	for s.mode != ModeQuit {
		switch s.mode {
		case ModeHome:
			s = m.home(s)
		case ModeSearch:
			s = m.searchMode(s)
		case ModeBookmarks:
			s = m.bookmarksMode(s)
		case ModeHistory:
			s = m.historyMode(s)
		case ModeReadingText:
			s = m.readingText(s)
		case ModeReadingLinks:
			s = m.readingLinks(s)
		}
	}
}

// --- home ---

func (m *Machine) home(s state) state {
	m.ui.Show([]string{
		"=== TEXT BROWSER ===",
		"(Search / URL / bm=bookmarks / hist=history / s=settings / q=quit)",
	})
	input, err := m.ui.Prompt("> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return s
	}

	switch strings.ToLower(input) {
	case "q":
		return state{mode: ModeQuit}
	case "bm":
		return state{mode: ModeBookmarks}
	case "hist":
		return state{mode: ModeHistory}
	case "s":
		if m.deps.Settings != nil {
			m.deps.Settings()
		}
		return s
	}

	if url, ok := urlclean.NormalizeInput(input); ok {
		return m.open(state{}, url, OriginDirect, 0)
	}
	return m.runSearch(state{mode: ModeSearch, query: input})
}

// --- search ---

// runSearch executes the query and enters the results list.
func (m *Machine) runSearch(s state) state {
	results, err := m.deps.Search(s.query)
	if err != nil {
		m.report(fmt.Sprintf("[error: %v]", err))
		return state{mode: ModeHome}
	}
	if len(results) == 0 {
		m.report("No results.")
		return state{mode: ModeHome}
	}
	s.results = results
	s.resultsPage = 0
	return s
}

func (m *Machine) searchMode(s state) state {
	if s.results == nil {
		return m.runSearch(s)
	}

	tun := m.tun()
	per := tun.ResultsPerPage
	if per <= 0 {
		per = 10
	}
	totalPages := (len(s.results) + per - 1) / per
	if s.resultsPage >= totalPages {
		s.resultsPage = totalPages - 1
	}
	start := s.resultsPage * per
	end := start + per
	if end > len(s.results) {
		end = len(s.results)
	}

	lines := []string{"=== SEARCH RESULTS ===", ""}
	for i, r := range s.results[start:end] {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, r.Title))
		lines = append(lines, "   URL: "+shortenMiddle(r.URL, tun.Width-6))
	}
	lines = append(lines, "",
		fmt.Sprintf("Page %d/%d", s.resultsPage+1, totalPages),
		"number=open  [ENTER]=next  p=prev  bm=bookmarks  h=home  q=quit")
	m.ui.Show(lines)

	input, err := m.ui.Prompt("Result> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	cmd := strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		cmd = "next"
	}

	switch cmd {
	case "q":
		return state{mode: ModeQuit}
	case "h":
		return state{mode: ModeHome}
	case "bm":
		return state{mode: ModeBookmarks}
	case "next":
		if s.resultsPage < totalPages-1 {
			s.resultsPage++
		}
		return s
	case "p":
		if s.resultsPage > 0 {
			s.resultsPage--
		}
		return s
	}

	if n, err := strconv.Atoi(cmd); err == nil {
		if n >= 1 && n <= end-start {
			return m.open(s, s.results[start+n-1].URL, OriginSearch, 0)
		}
	}
	m.report("Invalid.")
	return s
}

// --- bookmarks ---

func (m *Machine) bookmarksMode(s state) state {
	marks := m.deps.Bookmarks.Load()
	if len(marks) == 0 {
		m.report("No bookmarks.")
		return state{mode: ModeHome}
	}

	tun := m.tun()
	lines := []string{"=== BOOKMARKS ===", ""}
	for i, b := range marks {
		label := b.Title
		if label == "" {
			label = b.URL
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, label))
		width := tun.Width - len(label) - 20
		if width < 20 {
			width = 20
		}
		lines = append(lines, fmt.Sprintf("   %s  [block %d]", shortenMiddle(b.URL, width), b.Block))
	}
	lines = append(lines, "", "number=open  d#=delete  q=back")
	m.ui.Show(lines)

	input, err := m.ui.Prompt("> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	cmd := strings.ToLower(strings.TrimSpace(input))

	switch {
	case cmd == "q":
		return state{mode: ModeHome}
	case strings.HasPrefix(cmd, "d"):
		if n, err := strconv.Atoi(cmd[1:]); err == nil {
			if err := m.deps.Bookmarks.Delete(n - 1); err != nil {
				m.report(fmt.Sprintf("[error: %v]", err))
			}
		}
		return s
	}

	if n, err := strconv.Atoi(cmd); err == nil && n >= 1 && n <= len(marks) {
		b := marks[n-1]
		return m.open(s, b.URL, OriginBookmark, b.Block)
	}
	m.report("Invalid.")
	return s
}

// --- history ---

func (m *Machine) historyMode(s state) state {
	entries := m.deps.History.Load()
	if len(entries) == 0 {
		m.report("No history.")
		return state{mode: ModeHome}
	}

	tun := m.tun()
	lines := []string{"=== HISTORY ===", ""}
	for i, e := range entries {
		label := e.Title
		if label == "" {
			label = e.URL
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, label))
		lines = append(lines, "   "+shortenMiddle(e.URL, tun.Width-6))
	}
	lines = append(lines, "", "number=open  q=back")
	m.ui.Show(lines)

	input, err := m.ui.Prompt("> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	cmd := strings.ToLower(strings.TrimSpace(input))
	if cmd == "q" {
		return state{mode: ModeHome}
	}
	if n, err := strconv.Atoi(cmd); err == nil && n >= 1 && n <= len(entries) {
		return m.open(s, entries[n-1].URL, OriginHistory, 0)
	}
	m.report("Invalid.")
	return s
}

// --- reading ---

// open fetches a document and enters the reading session. On failure
// it reports the error and falls back to the prior stable mode.
func (m *Machine) open(prior state, url string, origin Origin, startBlock int) state {
	doc, err := m.load(url)
	if err != nil {
		m.report(fmt.Sprintf("[error: %v]", err))
		return m.backState(prior, origin)
	}

	if err := m.deps.History.Add(doc.Title, doc.URL); err != nil {
		m.report(fmt.Sprintf("[error: %v]", err))
	}

	sess := &session{origin: origin, doc: doc, listPos: prior.resultsPage}
	m.rebuild(sess)
	if startBlock >= 0 && startBlock < len(sess.pages) {
		sess.page = startBlock
	}
	return state{
		mode:        ModeReadingText,
		query:       prior.query,
		results:     prior.results,
		resultsPage: prior.resultsPage,
		session:     sess,
	}
}

// load fetches url and extracts a document, dispatching to an
// alternate-format handler when one matches.
func (m *Machine) load(url string) (*extract.Document, error) {
	if h := format.ForURL(url); h != nil {
		data, err := m.deps.FetchBytes(url)
		if err != nil {
			return nil, err
		}
		paras, title, err := h.Extract(data, url)
		if err != nil {
			// Alternate-format errors surface as a sentinel
			// paragraph, not a failed navigation.
			paras = []string{fmt.Sprintf("[%s error: %v]", h.Name(), err)}
		}
		return &extract.Document{URL: url, Title: title, Paragraphs: paras}, nil
	}

	html, finalURL, err := m.deps.Fetch(url)
	if err != nil {
		return nil, err
	}
	if finalURL == "" {
		finalURL = url
	}
	return extract.Extract(html, finalURL, m.tun().Clean), nil
}

// rebuild recomputes the page arrays from the session's document.
// Pages are never cached across limit changes.
func (m *Machine) rebuild(sess *session) {
	tun := m.tun()
	sess.pages = pager.BuildPages(sess.doc.Paragraphs, tun.ParasPerPage, tun.MaxCharsPerBlock, tun.Width)
	sess.linkPages = pager.PaginateLinks(sess.doc.Links, tun.LinksPerPage)
	if sess.page >= len(sess.pages) {
		sess.page = len(sess.pages) - 1
	}
	if sess.page < 0 {
		sess.page = 0
	}
}

func (m *Machine) readingText(s state) state {
	sess := s.session
	m.rebuild(sess)

	lines := append([]string{}, sess.pages[sess.page]...)
	lines = append(lines,
		fmt.Sprintf("Block %d/%d", sess.page+1, len(sess.pages)),
		"[ENTER]=next  p=prev  l=links  i=image  b=back  m=save  bm=bookmarks  h=home  q=quit",
		m.titleLine(sess))
	m.ui.Show(lines)

	input, err := m.ui.Prompt("> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	cmd := strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		cmd = "next"
	}

	switch cmd {
	case "q":
		return state{mode: ModeQuit}
	case "h":
		return state{mode: ModeHome}
	case "b":
		return m.backState(s, sess.origin)
	case "bm":
		return state{mode: ModeBookmarks}
	case "m":
		if err := m.deps.Bookmarks.Save(sess.doc.URL, sess.page, sess.doc.Title); err != nil {
			m.report(fmt.Sprintf("[error: %v]", err))
		} else {
			m.report("Saved.")
		}
		return s
	case "l":
		s.mode = ModeReadingLinks
		sess.linksPage = 0
		return s
	case "i":
		m.showImage(sess)
		return s
	case "next":
		if sess.page < len(sess.pages)-1 {
			sess.page++
			return s
		}
		return m.advancePastEnd(s)
	case "p":
		if sess.page > 0 {
			sess.page--
		}
		return s
	}
	m.report("Invalid.")
	return s
}

// advancePastEnd probes for a continuation when the user pages past
// the last block. A failed probe is end of content, not an error.
func (m *Machine) advancePastEnd(s state) state {
	sess := s.session
	oldURL := sess.doc.URL

	fetch := func(url string) (string, error) {
		html, _, err := m.deps.Fetch(url)
		return html, err
	}
	merged := continuation.TryNextPart(fetch, sess.doc, m.tun().Clean)
	if merged == nil {
		m.report("End of content.")
		return s
	}

	// The canonical URL moved: repoint persisted records at it.
	m.deps.Bookmarks.Rename(oldURL, merged.URL, merged.Title)
	m.deps.History.Remove(oldURL)
	m.deps.History.Add(merged.Title, merged.URL)

	// Merging only appends, so keeping the page index keeps the
	// reader at the same relative position.
	m.rebuild(sess)
	return s
}

func (m *Machine) readingLinks(s state) state {
	sess := s.session

	var lines []string
	if len(sess.linkPages) > 0 {
		tun := m.tun()
		for i, link := range sess.linkPages[sess.linksPage] {
			label := link.Label
			if r := []rune(label); len(r) > 60 {
				label = string(r[:60]) + "…"
			}
			lines = append(lines, fmt.Sprintf("%d. %s → %s",
				i+1, label, shortenMiddle(link.URL, tun.Width-len(label)-10)))
		}
		lines = append(lines, "", fmt.Sprintf("Page %d/%d", sess.linksPage+1, len(sess.linkPages)))
	} else {
		lines = append(lines, "[No links]", "")
	}
	lines = append(lines,
		"[ENTER]=next  p=prev  number=open  t=text  b=back  h=home  q=quit",
		m.titleLine(sess))
	m.ui.Show(lines)

	input, err := m.ui.Prompt("> ")
	if err != nil {
		return state{mode: ModeQuit}
	}
	cmd := strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		cmd = "next"
	}

	switch cmd {
	case "q":
		return state{mode: ModeQuit}
	case "h":
		return state{mode: ModeHome}
	case "b":
		return m.backState(s, sess.origin)
	case "t":
		s.mode = ModeReadingText
		return s
	case "next":
		if sess.linksPage < len(sess.linkPages)-1 {
			sess.linksPage++
		}
		return s
	case "p":
		if sess.linksPage > 0 {
			sess.linksPage--
		}
		return s
	}

	if n, err := strconv.Atoi(cmd); err == nil && len(sess.linkPages) > 0 {
		page := sess.linkPages[sess.linksPage]
		if n >= 1 && n <= len(page) {
			// Following a link starts a fresh direct session.
			return m.open(s, page[n-1].URL, OriginDirect, 0)
		}
	}
	m.report("Invalid.")
	return s
}

// showImage renders the document's lead image as a sub-mode; the
// reading position is untouched.
func (m *Machine) showImage(sess *session) {
	if sess.doc.MainImage == "" {
		m.report("No image found.")
		return
	}
	lines := []string{"=== ARTICLE IMAGE ===", ""}
	data, err := m.deps.FetchBytes(sess.doc.MainImage)
	if err != nil {
		lines = append(lines, fmt.Sprintf("[Image error: %v]", err))
	} else if img, err := m.deps.ImageLines(data, m.tun().Width-2); err != nil {
		lines = append(lines, fmt.Sprintf("[Image error: %v]", err))
	} else {
		lines = append(lines, img...)
	}
	lines = append(lines, "", "Enter=back")
	m.ui.Show(lines)
	m.ui.Prompt("")
}

// backState computes where the back command lands for an origin.
func (m *Machine) backState(s state, origin Origin) state {
	switch origin {
	case OriginSearch:
		if s.query == "" {
			return state{mode: ModeHome}
		}
		page := s.resultsPage
		if s.session != nil {
			page = s.session.listPos
		}
		return state{mode: ModeSearch, query: s.query, results: s.results, resultsPage: page}
	case OriginBookmark:
		return state{mode: ModeBookmarks}
	case OriginHistory:
		return state{mode: ModeHistory}
	default:
		return state{mode: ModeHome}
	}
}

func (m *Machine) titleLine(sess *session) string {
	if sess.doc.Title != "" {
		return sess.doc.Title
	}
	return shortenMiddle(sess.doc.URL, m.tun().Width-6)
}

// report shows a single message and waits for acknowledgement.
func (m *Machine) report(msg string) {
	m.ui.Show([]string{msg})
	m.ui.Prompt("Enter…")
}

// shortenMiddle elides the middle of overlong text. Slicing is done on
// runes so multibyte characters never get cut mid-sequence.
func shortenMiddle(text string, max int) string {
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	if max < 10 {
		if max < 0 {
			max = 0
		}
		return string(r[:max])
	}
	keep := (max - 3) / 2
	return string(r[:keep]) + "..." + string(r[len(r)-keep:])
}

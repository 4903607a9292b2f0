package format

import (
	"strings"
	"testing"
)

type fakeHandler struct {
	name   string
	suffix string
}

func (h *fakeHandler) Name() string          { return h.name }
func (h *fakeHandler) Match(url string) bool { return strings.HasSuffix(url, h.suffix) }
func (h *fakeHandler) Extract(data []byte, url string) ([]string, string, error) {
	return []string{string(data)}, h.name, nil
}

func TestForURL(t *testing.T) {
	mu.Lock()
	saved := handlers
	handlers = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		handlers = saved
		mu.Unlock()
	}()

	first := &fakeHandler{name: "first", suffix: ".dat"}
	second := &fakeHandler{name: "second", suffix: ".dat"}
	Register(first)
	Register(second)
	Register(&fakeHandler{name: "other", suffix: ".bin"})

	if h := ForURL("http://x/file.dat"); h != Handler(first) {
		t.Errorf("expected earliest registered handler, got %v", h)
	}
	if h := ForURL("http://x/file.bin"); h == nil || h.Name() != "other" {
		t.Errorf("got %v", h)
	}
	if h := ForURL("http://x/file.html"); h != nil {
		t.Errorf("unmatched URL should return nil, got %v", h)
	}
}

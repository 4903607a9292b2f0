package bookmarks

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "bookmarks"))
}

func writeFile(t *testing.T, s *Store, content string) {
	t.Helper()
	if err := os.WriteFile(s.path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFormats(t *testing.T) {
	s := tempStore(t)
	writeFile(t, s, "My Title|||http://a|||3\nhttp://b|||7\nhttp://c\n")

	got := s.Load()
	want := []Bookmark{
		{Title: "My Title", URL: "http://a", Block: 3},
		{URL: "http://b", Block: 7},
		{URL: "http://c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	s := tempStore(t)
	writeFile(t, s, "a|||b|||c|||d|||e\n\nTitle|||http://ok|||junk\nGood|||http://good|||2\n")

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %+v", got)
	}
	// A non-numeric block falls back to 0 rather than killing the line.
	if got[0].URL != "http://ok" || got[0].Block != 0 {
		t.Errorf("got %+v", got[0])
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := tempStore(t)
	if got := s.Load(); got != nil {
		t.Errorf("missing file should load empty, got %+v", got)
	}
}

// Duplicate URLs across mixed-format legacy lines load as independent
// records in file order; only a save collapses them.
func TestLoadKeepsMixedFormatDuplicates(t *testing.T) {
	s := tempStore(t)
	writeFile(t, s, "|||http://a|||2\nTitle|||http://a|||5\n")

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("expected both records, got %+v", got)
	}
	if got[0].Block != 2 || got[1].Block != 5 || got[1].Title != "Title" {
		t.Errorf("got %+v", got)
	}
}

func TestSaveUpsert(t *testing.T) {
	s := tempStore(t)

	s.Save("http://a", 1, "First")
	s.Save("http://b", 2, "Other")
	s.Save("http://a", 9, "Renamed")

	got := s.Load()
	if len(got) != 2 {
		t.Fatalf("upsert produced duplicates: %+v", got)
	}
	if got[0].URL != "http://a" || got[0].Block != 9 || got[0].Title != "Renamed" {
		t.Errorf("got %+v", got[0])
	}
}

func TestSaveKeepsPriorTitle(t *testing.T) {
	s := tempStore(t)

	s.Save("http://a", 1, "Kept Title")
	s.Save("http://a", 4, "")

	got := s.Load()
	if len(got) != 1 || got[0].Title != "Kept Title" || got[0].Block != 4 {
		t.Errorf("got %+v", got)
	}
}

func TestRename(t *testing.T) {
	s := tempStore(t)
	s.Save("http://a", 3, "Story")

	s.Rename("http://a", "http://a/page/2", "Story p2")

	got := s.Load()
	if len(got) != 1 || got[0].URL != "http://a/page/2" || got[0].Block != 3 {
		t.Errorf("got %+v", got)
	}
	if got[0].Title != "Story p2" {
		t.Errorf("title not refreshed: %+v", got[0])
	}
}

func TestDelete(t *testing.T) {
	s := tempStore(t)
	s.Save("http://a", 0, "A")
	s.Save("http://b", 0, "B")

	s.Delete(0)
	got := s.Load()
	if len(got) != 1 || got[0].URL != "http://b" {
		t.Errorf("got %+v", got)
	}

	// Out-of-range deletes are ignored.
	s.Delete(5)
	s.Delete(-1)
	if got := s.Load(); len(got) != 1 {
		t.Errorf("out-of-range delete changed the store: %+v", got)
	}
}

package httpserver

import (
	"net/url"
	"testing"

	"github.com/soundlake/playlist-api/internal/repository"
)

func FuzzParseListQuery(f *testing.F) {
	seeds := []string{
		"page=1&per_page=10",
		"page=abc",
		"per_page=200",
		"",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		values, err := url.ParseQuery(raw)
		if err != nil {
			return
		}
		page, perPage, err := parseListQuery(values)
		if err != nil {
			return
		}
		if page < 1 {
			t.Fatalf("accepted page %d < 1 from %q", page, raw)
		}
		if perPage < 1 || perPage > repository.MaxPerPage {
			t.Fatalf("accepted per_page %d out of range from %q", perPage, raw)
		}
	})
}

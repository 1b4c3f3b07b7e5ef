package httpserver

import (
	"net/url"
	"testing"
)

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{"defaults", "", 1, 10, false},
		{"explicit values", "page=3&per_page=25", 3, 25, false},
		{"trimmed values", "page= 2 &per_page= 50 ", 2, 50, false},
		{"upper bound", "per_page=100", 1, 100, false},
		{"zero page", "page=0", 0, 0, true},
		{"negative page", "page=-1", 0, 0, true},
		{"non-numeric page", "page=abc", 0, 0, true},
		{"zero per_page", "per_page=0", 0, 0, true},
		{"per_page above limit", "per_page=101", 0, 0, true},
		{"non-numeric per_page", "per_page=ten", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			page, perPage, err := parseListQuery(values)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseListQuery(%q) expected error", tt.raw)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseListQuery(%q) unexpected error: %v", tt.raw, err)
			}
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Fatalf("parseListQuery(%q) = (%d, %d), want (%d, %d)", tt.raw, page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

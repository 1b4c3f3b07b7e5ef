package httpserver

import (
	"fmt"
	"net/http"
	"testing"
)

func BenchmarkHandleSubmitRating(b *testing.B) {
	srv := buildTestServer(b)
	seedSongs(b, srv, map[string]string{"bench": "Benchmark Song"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body := []byte(fmt.Sprintf(`{"rating":%d}`, (i%5)+1))
		rec := doRequest(srv, http.MethodPost, "/songs/bench/rate", body)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

func BenchmarkHandleListSongs(b *testing.B) {
	srv := buildTestServer(b)
	titles := make(map[string]string, 50)
	for i := 0; i < 50; i++ {
		titles[fmt.Sprintf("s%02d", i)] = fmt.Sprintf("Song %02d", i)
	}
	seedSongs(b, srv, titles)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := doRequest(srv, http.MethodGet, "/songs?page=1&per_page=20", nil)
		if rec.Code != http.StatusOK {
			b.Fatalf("unexpected status %d", rec.Code)
		}
	}
}

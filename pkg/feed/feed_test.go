package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>floppa TikTok</title>
    <link>https://www.tiktok.com/@floppa</link>
    <description>videos</description>
    <item>
      <title>Floppa eats a pelmen</title>
      <link>https://www.tiktok.com/@floppa/video/2</link>
      <pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
      <media:thumbnail url="https://cdn.example/2.jpg"/>
    </item>
    <item>
      <title>Floppa sits</title>
      <link>https://www.tiktok.com/@floppa/video/1</link>
    </item>
  </channel>
</rss>`

func TestTikTokURL(t *testing.T) {
	assert.Equal(t, "https://rsshub.app/tiktok/user/video/floppa", TikTokURL("rsshub.app", "floppa"))
	assert.Equal(t, "https://rsshub.app/tiktok/user/video/floppa", TikTokURL("rsshub.app/", "@floppa"))
	assert.Equal(t, "http://127.0.0.1:8080/tiktok/user/video/a%20b", TikTokURL("http://127.0.0.1:8080", "a b"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tiktok/user/video/floppa", r.URL.Path)
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	items, err := NewFetcher(5*time.Second).Fetch(context.Background(), TikTokURL(srv.URL, "floppa"))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "https://www.tiktok.com/@floppa/video/2", items[0].Link)
	assert.Equal(t, "Floppa eats a pelmen", items[0].Title)
	assert.Equal(t, "https://cdn.example/2.jpg", items[0].ThumbnailURL)
	require.NotNil(t, items[0].Published)

	assert.Equal(t, "", items[1].ThumbnailURL)
}

func TestFetchFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/broken":
			_, _ = w.Write([]byte("this is not a feed"))
		default:
			http.Error(w, "nope", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	fetcher := NewFetcher(5 * time.Second)

	_, err := fetcher.Fetch(context.Background(), srv.URL+"/down")
	assert.True(t, boterrors.Is(err, boterrors.ErrFetchFailed), "HTTP errors: %v", err)

	_, err = fetcher.Fetch(context.Background(), srv.URL+"/broken")
	assert.True(t, boterrors.Is(err, boterrors.ErrFetchFailed), "malformed feeds: %v", err)
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewFetcher(50*time.Millisecond).Fetch(context.Background(), srv.URL)
	assert.True(t, boterrors.Is(err, boterrors.ErrFetchFailed))
}

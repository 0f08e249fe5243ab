// Package feed fetches the TikTok video feeds the notification poller watches.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	boterrors "github.com/PancyStudios/FloppaBotGo/pkg/errors"
	"github.com/mmcdole/gofeed"
)

// Item is one feed entry
type Item struct {
	Title        string
	Link         string
	ThumbnailURL string
	Published    *time.Time
}

// Fetcher fetches and parses a feed URL, newest item first
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]Item, error)
}

// TikTokURL builds the feed URL for a TikTok user on an RSSHub-style host.
// host may carry its own scheme; https is assumed otherwise.
func TikTokURL(host, username string) string {
	host = strings.TrimRight(host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	return fmt.Sprintf("%s/tiktok/user/video/%s", host, url.PathEscape(username))
}

// GoFeedFetcher implements Fetcher with gofeed
type GoFeedFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewFetcher creates a fetcher whose requests are bounded by timeout
func NewFetcher(timeout time.Duration) *GoFeedFetcher {
	return &GoFeedFetcher{
		client:    &http.Client{Timeout: timeout},
		timeout:   timeout,
		userAgent: "FloppaBotGo/1.0",
	}
}

// Fetch downloads and parses feedURL. Every failure is an ErrFetchFailed.
func (f *GoFeedFetcher) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	// gofeed parsers keep per-parse state, so each fetch gets its own
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = f.userAgent

	parsed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, boterrors.New(boterrors.ErrFetchFailed, "feed.Fetch "+feedURL, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil || it.Link == "" {
			continue
		}
		items = append(items, Item{
			Title:        it.Title,
			Link:         it.Link,
			ThumbnailURL: thumbnail(it),
			Published:    it.PublishedParsed,
		})
	}
	return items, nil
}

// thumbnail picks the item image, then media:thumbnail, then an image enclosure
func thumbnail(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	if media, ok := it.Extensions["media"]; ok {
		for _, name := range []string{"thumbnail", "content"} {
			for _, e := range media[name] {
				if u := e.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range it.Enclosures {
		if enc != nil && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	return ""
}

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Noooste/azuretls-client"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"feedpress/internal/config"
	"feedpress/internal/model"
	"feedpress/pkg/logger"
	"feedpress/pkg/network"
	"feedpress/pkg/sanitizer"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxFeedBodyBytes    = 20 << 20
	// maxConcurrentPerHost limits parallel requests to the same host to be polite.
	maxConcurrentPerHost = 1
)

const feedAccept = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5"

// FeedFetcher retrieves one feed and returns its items in document order.
type FeedFetcher interface {
	Fetch(ctx context.Context, source model.FeedSource) ([]model.Article, error)
}

type FetcherOptions struct {
	UserAgent string
	Timeout   time.Duration
	// HostInterval is the minimum gap between two requests to the same host.
	HostInterval time.Duration
	// Impersonate sends requests through a Chrome-fingerprinted TLS session.
	Impersonate bool
}

type feedFetcher struct {
	clientFactory *network.ClientFactory
	opts          FetcherOptions
	hosts         *hostLimiter
}

func NewFeedFetcher(clientFactory *network.ClientFactory, opts FetcherOptions) FeedFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultFetchTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = config.DefaultUserAgent
	}
	if clientFactory == nil {
		clientFactory = network.NewClientFactory(nil)
	}
	return &feedFetcher{
		clientFactory: clientFactory,
		opts:          opts,
		hosts:         newHostLimiter(opts.HostInterval),
	}
}

func (f *feedFetcher) Fetch(ctx context.Context, source model.FeedSource) ([]model.Article, error) {
	host := network.ExtractHost(source.URL)
	if host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalid, source.URL)
	}

	release, err := f.hosts.acquire(ctx, host)
	if err != nil {
		return nil, err
	}
	defer release()

	var body []byte
	if f.opts.Impersonate {
		body, err = f.fetchWithChrome(ctx, source.URL)
	} else {
		body, err = f.fetchWithHTTP(ctx, source.URL)
	}
	if err != nil {
		return nil, err
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrFeedFetch, source.URL, err)
	}

	feedTitle := strings.TrimSpace(source.Title)
	if feedTitle == "" {
		feedTitle = sanitizer.StripTags(parsed.Title)
	}
	if feedTitle == "" {
		feedTitle = host
	}

	articles := make([]model.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		article, ok := itemToArticle(feedTitle, item)
		if !ok {
			logger.Debug("feed item skipped", "module", "service", "action", "fetch", "resource", "item", "result", "skipped", "feed_url", source.URL, "reason", "no link")
			continue
		}
		articles = append(articles, article)
	}

	logger.Debug("feed fetched", "module", "service", "action", "fetch", "resource", "feed", "result", "ok", "feed_url", source.URL, "items", len(articles))
	return articles, nil
}

func (f *feedFetcher) fetchWithHTTP(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", feedAccept)

	client := f.clientFactory.NewHTTPClient(ctx, f.opts.Timeout)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFeedFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrFeedFetch, err)
	}
	return body, nil
}

// fetchWithChrome fetches the feed with a Chrome TLS fingerprint and browser headers.
func (f *feedFetcher) fetchWithChrome(ctx context.Context, feedURL string) ([]byte, error) {
	session := f.clientFactory.NewAzureSession(ctx, f.opts.Timeout)
	defer session.Close()

	resp, err := session.Do(&azuretls.Request{
		Method: http.MethodGet,
		Url:    feedURL,
		OrderedHeaders: azuretls.OrderedHeaders{
			{"accept", feedAccept},
			{"accept-language", "zh-CN,zh;q=0.9,en;q=0.8"},
			{"sec-ch-ua", config.ChromeSecChUa},
			{"sec-ch-ua-mobile", "?0"},
			{"sec-ch-ua-platform", `"Windows"`},
			{"user-agent", config.ChromeUserAgent},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedFetch, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFeedFetch, resp.StatusCode)
	}
	return resp.Body, nil
}

// itemToArticle maps a parsed item. Items without a usable link are rejected
// because the QR code and the "read original" link both need one.
func itemToArticle(feedTitle string, item *gofeed.Item) (model.Article, bool) {
	if item == nil {
		return model.Article{}, false
	}

	link := strings.TrimSpace(item.Link)
	if link == "" && config.IsValidURL(item.GUID) {
		link = strings.TrimSpace(item.GUID)
	}
	if link == "" {
		return model.Article{}, false
	}

	title := sanitizer.StripTags(item.Title)
	if title == "" {
		title = link
	}

	content := item.Content
	if strings.TrimSpace(content) == "" {
		content = item.Description
	}

	var pubDate *time.Time
	switch {
	case item.PublishedParsed != nil:
		t := item.PublishedParsed.UTC()
		pubDate = &t
	case item.UpdatedParsed != nil:
		t := item.UpdatedParsed.UTC()
		pubDate = &t
	}

	return model.Article{
		FeedTitle: feedTitle,
		Title:     title,
		Content:   content,
		Link:      link,
		PubDate:   pubDate,
	}, true
}

// hostLimiter serializes requests per host and spaces them by a minimum interval.
type hostLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	hosts    map[string]*hostSlot
}

type hostSlot struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	return &hostLimiter{
		interval: interval,
		hosts:    make(map[string]*hostSlot),
	}
}

func (h *hostLimiter) slot(host string) *hostSlot {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, ok := h.hosts[host]
	if !ok {
		s = &hostSlot{sem: semaphore.NewWeighted(maxConcurrentPerHost)}
		if h.interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(h.interval), 1)
		}
		h.hosts[host] = s
	}
	return s
}

// acquire blocks until the host is free and its interval has elapsed.
// The returned func releases the host.
func (h *hostLimiter) acquire(ctx context.Context, host string) (func(), error) {
	s := h.slot(host)
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.sem.Release(1)
			return nil, err
		}
	}
	return func() { s.sem.Release(1) }, nil
}

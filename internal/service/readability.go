//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"
	"github.com/Noooste/azuretls-client"
	"golang.org/x/net/html"

	"feedpress/internal/config"
	"feedpress/pkg/logger"
	"feedpress/pkg/network"
)

const readabilityTimeout = 30 * time.Second

// ContentExtractor fetches an article page and returns its readable body.
type ContentExtractor interface {
	Extract(ctx context.Context, link string) (string, error)
}

type readabilityExtractor struct {
	clientFactory *network.ClientFactory
}

func NewContentExtractor(clientFactory *network.ClientFactory) ContentExtractor {
	if clientFactory == nil {
		clientFactory = network.NewClientFactory(nil)
	}
	return &readabilityExtractor{clientFactory: clientFactory}
}

func (s *readabilityExtractor) Extract(ctx context.Context, link string) (string, error) {
	parsedURL, err := url.Parse(strings.TrimSpace(link))
	if err != nil || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") || parsedURL.Host == "" {
		return "", fmt.Errorf("%w: article link %q", ErrInvalid, link)
	}

	body, err := s.fetchWithChrome(ctx, parsedURL.String())
	if err != nil {
		logger.Warn("readability fetch failed", "module", "service", "action", "fetch", "resource", "article", "result", "failed", "host", parsedURL.Host, "error", err)
		return "", err
	}

	// go-readability handles lazy images (unwrapNoscriptImages, fixLazyImages) and script removal internally
	parser := readability.NewParser()
	parser.KeepClasses = true
	article, err := parser.Parse(bytes.NewReader(body), parsedURL)
	if err != nil {
		return "", fmt.Errorf("parse content failed: %w", err)
	}

	var buf bytes.Buffer
	if err := article.RenderHTML(&buf); err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}

	content := strings.TrimSpace(bodyInnerHTML(fixLazyImages(buf.Bytes())))
	if content == "" {
		return "", fmt.Errorf("%w: no readable content at %s", ErrInvalid, link)
	}

	logger.Debug("readability extracted", "module", "service", "action", "fetch", "resource", "article", "result", "ok", "host", parsedURL.Host, "bytes", len(content))
	return content, nil
}

// fetchWithChrome fetches URL with Chrome TLS fingerprint and browser headers
func (s *readabilityExtractor) fetchWithChrome(ctx context.Context, targetURL string) ([]byte, error) {
	session := s.clientFactory.NewAzureSession(ctx, readabilityTimeout)
	defer session.Close()

	resp, err := session.Do(&azuretls.Request{
		Method: http.MethodGet,
		Url:    targetURL,
		OrderedHeaders: azuretls.OrderedHeaders{
			{"accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"},
			{"accept-language", "zh-CN,zh;q=0.9"},
			{"sec-ch-ua", config.ChromeSecChUa},
			{"sec-ch-ua-mobile", "?0"},
			{"sec-ch-ua-platform", `"Windows"`},
			{"sec-fetch-dest", "document"},
			{"sec-fetch-mode", "navigate"},
			{"sec-fetch-site", "none"},
			{"upgrade-insecure-requests", "1"},
			{"user-agent", config.ChromeUserAgent},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// walkTree traverses all descendant element nodes and calls fn for each.
func walkTree(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTree(c, fn)
	}
}

// fixLazyImages points src at data-original for lazy-loaded images that
// go-readability leaves with a placeholder.
func fixLazyImages(htmlContent []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	walkTree(doc, func(n *html.Node) {
		if n.Data != "img" {
			return
		}

		srcIdx := -1
		var dataOriginal string
		for i, attr := range n.Attr {
			switch attr.Key {
			case "src":
				srcIdx = i
			case "data-original":
				dataOriginal = attr.Val
			}
		}

		if dataOriginal == "" || strings.HasPrefix(dataOriginal, "data:") {
			return
		}
		if srcIdx >= 0 {
			n.Attr[srcIdx].Val = dataOriginal
		} else {
			n.Attr = append(n.Attr, html.Attribute{Key: "src", Val: dataOriginal})
		}
	})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return htmlContent
	}
	return buf.Bytes()
}

// bodyInnerHTML renders the children of <body>, dropping the document
// wrapper html.Parse adds.
func bodyInnerHTML(htmlContent []byte) string {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return string(htmlContent)
	}

	var body *html.Node
	walkTree(doc, func(n *html.Node) {
		if body == nil && n.Data == "body" {
			body = n
		}
	})
	if body == nil {
		return string(htmlContent)
	}

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return string(htmlContent)
		}
	}
	return buf.String()
}

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"feedpress/internal/config"
	"feedpress/internal/model"
	"feedpress/internal/render"
	"feedpress/internal/site"
	"feedpress/pkg/logger"
	"feedpress/pkg/sanitizer"
	"feedpress/pkg/snowflake"
)

const defaultConcurrency = 4

// SourceFunc resolves the feed list at the time of a run.
type SourceFunc func() ([]model.FeedSource, error)

type GeneratorOptions struct {
	SiteTitle string
	Layout    string
	Order     string
	// MaxItemsPerFeed caps items taken from each feed; 0 keeps all of them.
	MaxItemsPerFeed int
	Concurrency     int
	Harden          bool
	Style           sanitizer.Style
	// FullContent fetches the article page when an item carries no content.
	FullContent bool
}

// GenerateResult describes one completed run.
type GenerateResult struct {
	RunID       int64
	OutputDir   string
	Articles    []model.Article
	Categories  []model.Category
	FailedFeeds []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// GenerateStatus holds the current state of the generator.
type GenerateStatus struct {
	IsGenerating    bool       `json:"isGenerating"`
	LastGeneratedAt *time.Time `json:"lastGeneratedAt,omitempty"`
	LastRunID       int64      `json:"lastRunId,omitempty"`
	ArticleCount    int        `json:"articleCount"`
	FailedFeeds     int        `json:"failedFeeds"`
	LastError       string     `json:"lastError,omitempty"`
}

type GeneratorService interface {
	Generate(ctx context.Context, sources []model.FeedSource) (*GenerateResult, error)
	IsGenerating() bool
	GetStatus() GenerateStatus
}

type generatorService struct {
	fetcher   FeedFetcher
	qr        QREncoder
	extractor ContentExtractor
	archive   ArchiveService
	writer    *site.Writer
	opts      GeneratorOptions

	mu           sync.Mutex
	isGenerating bool
	status       GenerateStatus
}

// NewGeneratorService wires the pipeline. extractor and archive are optional.
func NewGeneratorService(fetcher FeedFetcher, qr QREncoder, extractor ContentExtractor, archive ArchiveService, writer *site.Writer, opts GeneratorOptions) GeneratorService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Layout == "" {
		opts.Layout = config.LayoutFlat
	}
	if opts.Order == "" {
		opts.Order = config.OrderFetch
	}
	return &generatorService{
		fetcher:   fetcher,
		qr:        qr,
		extractor: extractor,
		archive:   archive,
		writer:    writer,
		opts:      opts,
	}
}

func (s *generatorService) Generate(ctx context.Context, sources []model.FeedSource) (*GenerateResult, error) {
	s.mu.Lock()
	if s.isGenerating {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.isGenerating = true
	s.status.IsGenerating = true
	s.mu.Unlock()

	result, err := s.generate(ctx, sources)

	s.mu.Lock()
	s.isGenerating = false
	s.status.IsGenerating = false
	if err != nil {
		s.status.LastError = err.Error()
	} else {
		finished := result.FinishedAt
		s.status = GenerateStatus{
			LastGeneratedAt: &finished,
			LastRunID:       result.RunID,
			ArticleCount:    len(result.Articles),
			FailedFeeds:     len(result.FailedFeeds),
		}
	}
	s.mu.Unlock()

	return result, err
}

func (s *generatorService) IsGenerating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isGenerating
}

func (s *generatorService) GetStatus() GenerateStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *generatorService) generate(ctx context.Context, sources []model.FeedSource) (*GenerateResult, error) {
	result := &GenerateResult{
		RunID:     snowflake.NextID(),
		OutputDir: s.writer.Dir(),
		StartedAt: time.Now().UTC(),
	}
	logger.Info("generation started", "module", "service", "action", "generate", "resource", "site", "result", "started", "run_id", result.RunID, "feeds", len(sources), "output_dir", result.OutputDir)

	if err := s.writer.Reset(); err != nil {
		return nil, err
	}

	perFeed := make([][]model.Article, len(sources))
	failed := make([]bool, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, source := range sources {
		g.Go(func() error {
			articles, err := s.fetcher.Fetch(gctx, source)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("feed fetch failed", "module", "service", "action", "fetch", "resource", "feed", "result", "failed", "feed_title", source.Title, "feed_url", source.URL, "error", err)
				failed[i] = true
				return nil
			}
			if s.opts.MaxItemsPerFeed > 0 && len(articles) > s.opts.MaxItemsPerFeed {
				articles = articles[:s.opts.MaxItemsPerFeed]
			}
			for j := range articles {
				if err := s.prepare(gctx, &articles[j]); err != nil {
					return err
				}
			}
			perFeed[i] = articles
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var articles []model.Article
	for i, feedArticles := range perFeed {
		if failed[i] {
			result.FailedFeeds = append(result.FailedFeeds, sources[i].URL)
			continue
		}
		articles = append(articles, feedArticles...)
	}
	if s.opts.Order == config.OrderDate {
		sortByPubDate(articles)
	}

	grouped := s.opts.Layout == config.LayoutGrouped
	categories := render.AssignFileNames(articles, grouped)

	for _, article := range articles {
		data := render.PageData{SiteTitle: s.opts.SiteTitle, Article: article}
		if err := s.writer.WritePage(article.FileName, func(w io.Writer) error {
			return render.Page(w, data)
		}); err != nil {
			return nil, err
		}
	}

	result.FinishedAt = time.Now().UTC()
	indexData := render.IndexData{
		SiteTitle:   s.opts.SiteTitle,
		Grouped:     grouped,
		Categories:  categories,
		GeneratedAt: result.FinishedAt.Local(),
	}
	if err := s.writer.WriteIndex(func(w io.Writer) error {
		return render.Index(w, indexData)
	}); err != nil {
		return nil, err
	}

	result.Articles = articles
	result.Categories = categories

	if s.archive != nil {
		run := model.Run{
			ID:           result.RunID,
			OutputDir:    result.OutputDir,
			Layout:       s.opts.Layout,
			ArticleCount: len(articles),
			FailedFeeds:  len(result.FailedFeeds),
			StartedAt:    result.StartedAt,
			FinishedAt:   result.FinishedAt,
		}
		// 站点已写入，归档失败不影响本次生成
		if err := s.archive.Record(ctx, run, articles); err != nil {
			logger.Warn("archive run failed", "module", "service", "action", "archive", "resource", "run", "result", "failed", "run_id", run.ID, "error", err)
		}
	}

	logger.Info("generation finished", "module", "service", "action", "generate", "resource", "site", "result", "ok", "run_id", result.RunID, "articles", len(articles), "failed_feeds", len(result.FailedFeeds), "duration", result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	return result, nil
}

// prepare fills in content, the QR code and the sanitized body of one article.
// QR errors abort the run; a failed full-content fetch keeps the feed content.
func (s *generatorService) prepare(ctx context.Context, article *model.Article) error {
	if s.opts.FullContent && s.extractor != nil && strings.TrimSpace(article.Content) == "" {
		content, err := s.extractor.Extract(ctx, article.Link)
		switch {
		case err == nil:
			article.Content = content
		case errors.Is(err, context.Canceled):
			return err
		default:
			logger.Warn("full content extraction failed", "module", "service", "action", "extract", "resource", "article", "result", "failed", "link", article.Link, "error", err)
		}
	}

	qr, err := s.qr.Encode(ctx, article.Link)
	if err != nil {
		return fmt.Errorf("qr code for %s: %w", article.Link, err)
	}
	article.QRCode = qr

	content := article.Content
	if s.opts.Harden {
		content = sanitizer.Harden(content)
	}
	article.Content = sanitizer.Normalize(content, s.opts.Style)
	return nil
}

// sortByPubDate orders newest first. Undated articles keep their relative
// order after every dated one.
func sortByPubDate(articles []model.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i].PubDate, articles[j].PubDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package service

import (
	"context"
	"fmt"

	"feedpress/internal/hashutil"
	"feedpress/internal/model"
	"feedpress/internal/repository"
	"feedpress/pkg/logger"
	"feedpress/pkg/snowflake"
)

const defaultHistoryLimit = 20

// ArchiveService keeps a history of generation runs.
type ArchiveService interface {
	Record(ctx context.Context, run model.Run, articles []model.Article) error
	History(ctx context.Context, limit int) ([]model.Run, error)
	RunArticles(ctx context.Context, runID int64) ([]model.ArchivedArticle, error)
}

type archiveService struct {
	runs repository.RunRepository
}

func NewArchiveService(runs repository.RunRepository) ArchiveService {
	return &archiveService{runs: runs}
}

func (s *archiveService) Record(ctx context.Context, run model.Run, articles []model.Article) error {
	if run.ID == 0 {
		return fmt.Errorf("%w: run id is required", ErrInvalid)
	}

	archived := make([]model.ArchivedArticle, 0, len(articles))
	for _, a := range articles {
		archived = append(archived, model.ArchivedArticle{
			ID:          snowflake.NextID(),
			RunID:       run.ID,
			Hash:        hashutil.ArticleHash(a.FeedTitle, a.Title, a.Link),
			FeedTitle:   a.FeedTitle,
			Title:       a.Title,
			Link:        a.Link,
			FileName:    a.FileName,
			PublishedAt: a.PubDate,
		})
	}
	run.ArticleCount = len(archived)

	if err := s.runs.Create(ctx, run, archived); err != nil {
		return fmt.Errorf("record run %d: %w", run.ID, err)
	}
	logger.Debug("run archived", "module", "service", "action", "create", "resource", "run", "result", "ok", "run_id", run.ID, "articles", len(archived))
	return nil
}

func (s *archiveService) History(ctx context.Context, limit int) ([]model.Run, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return s.runs.List(ctx, limit)
}

func (s *archiveService) RunArticles(ctx context.Context, runID int64) ([]model.ArchivedArticle, error) {
	if _, err := s.runs.GetByID(ctx, runID); err != nil {
		return nil, fmt.Errorf("get run %d: %w", runID, err)
	}
	return s.runs.ListArticles(ctx, runID)
}

package model

import "time"

type Run struct {
	ID           int64
	OutputDir    string
	Layout       string
	ArticleCount int
	FailedFeeds  int
	StartedAt    time.Time
	FinishedAt   time.Time
}

type ArchivedArticle struct {
	ID          int64
	RunID       int64
	Hash        string
	FeedTitle   string
	Title       string
	Link        string
	FileName    string
	PublishedAt *time.Time
}

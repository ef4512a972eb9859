//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"feedpress/internal/model"
)

// RunRepository stores generation runs and the articles each run rendered.
type RunRepository interface {
	// Create inserts the run and its articles in one transaction.
	Create(ctx context.Context, run model.Run, articles []model.ArchivedArticle) error
	GetByID(ctx context.Context, id int64) (*model.Run, error)
	// List returns the most recent runs first; limit <= 0 returns all runs.
	List(ctx context.Context, limit int) ([]model.Run, error)
	ListArticles(ctx context.Context, runID int64) ([]model.ArchivedArticle, error)
}

type runRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) Create(ctx context.Context, run model.Run, articles []model.ArchivedArticle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, run); err != nil {
		return err
	}
	for _, a := range articles {
		if err := insertArticle(ctx, tx, run.ID, a); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func insertRun(ctx context.Context, q dbtx, run model.Run) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO runs (id, output_dir, layout, article_count, failed_feeds, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.OutputDir, run.Layout, run.ArticleCount, run.FailedFeeds, formatTime(run.StartedAt), formatTime(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func insertArticle(ctx context.Context, q dbtx, runID int64, a model.ArchivedArticle) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO articles (id, run_id, hash, feed_title, title, link, file_name, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, runID, a.Hash, a.FeedTitle, a.Title, a.Link, a.FileName, nullableTime(a.PublishedAt))
	if err != nil {
		return fmt.Errorf("insert article %s: %w", a.FileName, err)
	}
	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id int64) (*model.Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, output_dir, layout, article_count, failed_feeds, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]model.Run, error) {
	query := `
		SELECT id, output_dir, layout, article_count, failed_feeds, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *runRepository) ListArticles(ctx context.Context, runID int64) ([]model.ArchivedArticle, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, hash, feed_title, title, link, file_name, published_at
		FROM articles WHERE run_id = ? ORDER BY rowid
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.ArchivedArticle
	for rows.Next() {
		var a model.ArchivedArticle
		var publishedAt sql.NullString
		if err := rows.Scan(&a.ID, &a.RunID, &a.Hash, &a.FeedTitle, &a.Title, &a.Link, &a.FileName, &publishedAt); err != nil {
			return nil, err
		}
		if a.PublishedAt, err = parseNullableTime(publishedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (model.Run, error) {
	var run model.Run
	var startedAt, finishedAt string
	if err := row.Scan(&run.ID, &run.OutputDir, &run.Layout, &run.ArticleCount, &run.FailedFeeds, &startedAt, &finishedAt); err != nil {
		return model.Run{}, err
	}
	var err error
	if run.StartedAt, err = parseTime(startedAt); err != nil {
		return model.Run{}, err
	}
	if run.FinishedAt, err = parseTime(finishedAt); err != nil {
		return model.Run{}, err
	}
	return run, nil
}

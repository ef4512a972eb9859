package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"feedpress/internal/db"
	"feedpress/internal/hashutil"
	"feedpress/internal/model"
	"feedpress/pkg/snowflake"

	_ "modernc.org/sqlite"
)

// snowflakeOnce 确保 snowflake 在所有并行测试中只初始化一次
var snowflakeOnce sync.Once

// NewTestDB 创建内存 SQLite 数据库并执行所有迁移
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	snowflakeOnce.Do(func() {
		if err := snowflake.Init(0); err != nil {
			// sync.Once 内无法使用 t.Fatalf，改用 panic
			panic("failed to initialize snowflake: " + err.Error())
		}
	})

	// 每个测试使用唯一的数据库名称以避免冲突
	dbName := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name(), time.Now().UnixNano())
	database, err := sql.Open("sqlite", dbName)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
	})

	return database
}

// SeedRun 插入一次生成记录并返回其 ID
func SeedRun(t *testing.T, db *sql.DB, startedAt time.Time, articleCount int) int64 {
	t.Helper()

	id := snowflake.NextID()
	_, err := db.ExecContext(
		context.Background(),
		`INSERT INTO runs (id, output_dir, layout, article_count, failed_feeds, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, "public", "flat", articleCount, 0,
		startedAt.UTC().Format(time.RFC3339Nano), startedAt.Add(time.Second).UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("failed to seed run: %v", err)
	}
	return id
}

// NewArchivedArticle 构造归档文章，自动生成 ID 和 Hash
func NewArchivedArticle(feedTitle, title, link, fileName string) model.ArchivedArticle {
	return model.ArchivedArticle{
		ID:        snowflake.NextID(),
		Hash:      hashutil.ArticleHash(feedTitle, title, link),
		FeedTitle: feedTitle,
		Title:     title,
		Link:      link,
		FileName:  fileName,
	}
}

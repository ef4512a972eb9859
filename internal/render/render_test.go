package render_test

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"feedpress/internal/model"
	"feedpress/internal/render"

	"github.com/stretchr/testify/require"
)

var hrefPattern = regexp.MustCompile(`<li><a href="([^"]+)">`)

func sampleArticles() []model.Article {
	pub := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	return []model.Article{
		{FeedTitle: "Tech", Title: "Alpha", Link: "http://x/1", PubDate: &pub},
		{FeedTitle: "News", Title: "Beta", Link: "http://x/2"},
		{FeedTitle: "Tech", Title: "Gamma", Link: "http://x/3"},
	}
}

func TestPage(t *testing.T) {
	pub := time.Date(2024, 3, 5, 8, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	err := render.Page(&buf, render.PageData{
		SiteTitle: "RSS Reader",
		Article: model.Article{
			FeedTitle: "Tech",
			Title:     "Alpha <beta>",
			Content:   `<div style="max-width: 100%"><p>Body</p></div>`,
			Link:      "http://x/1",
			PubDate:   &pub,
			QRCode:    "data:image/png;base64,iVBORw0KGgo=",
		},
	})
	require.NoError(t, err)

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	require.Contains(t, out, "<title>Alpha &lt;beta&gt; - RSS Reader</title>")
	require.Contains(t, out, "<h1>Alpha &lt;beta&gt;</h1>")
	require.Contains(t, out, `<div class="content"><div style="max-width: 100%"><p>Body</p></div></div>`)
	require.Contains(t, out, `<time datetime="2024-03-05T08:30:00Z">2024-03-05 08:30</time>`)
	require.Contains(t, out, `<a href="http://x/1" target="_blank" rel="noopener">`)
	require.Contains(t, out, `<img src="data:image/png;base64,iVBORw0KGgo=" alt="QR Code">`)
	require.Contains(t, out, `href="index.html"`)
}

func TestPage_NoDate(t *testing.T) {
	var buf bytes.Buffer
	err := render.Page(&buf, render.PageData{Article: model.Article{Title: "Beta", Link: "http://x/2"}})
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "<time")
	require.Contains(t, buf.String(), "<title>Beta</title>")
}

func TestPage_UnsafeLinkNeutralized(t *testing.T) {
	var buf bytes.Buffer
	err := render.Page(&buf, render.PageData{Article: model.Article{Title: "x", Link: "javascript:alert(1)"}})
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "javascript:alert")
}

func TestIndex_Flat(t *testing.T) {
	articles := sampleArticles()
	categories := render.AssignFileNames(articles, false)

	var buf bytes.Buffer
	err := render.Index(&buf, render.IndexData{
		SiteTitle:   "RSS Reader",
		Categories:  categories,
		GeneratedAt: time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	out := buf.String()
	require.NotContains(t, out, "<script>")
	require.Contains(t, out, "共 3 篇")
	require.Contains(t, out, "2024-03-06 09:00")

	var hrefs []string
	for _, m := range hrefPattern.FindAllStringSubmatch(out, -1) {
		hrefs = append(hrefs, m[1])
	}
	require.Equal(t, []string{"article-1.html", "article-2.html", "article-3.html"}, hrefs)
	require.Contains(t, out, `<a href="article-2.html">Beta</a>`)
}

func TestIndex_Grouped(t *testing.T) {
	articles := sampleArticles()
	categories := render.AssignFileNames(articles, true)

	var buf bytes.Buffer
	err := render.Index(&buf, render.IndexData{SiteTitle: "RSS Reader", Grouped: true, Categories: categories})
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "<script>")
	require.Contains(t, out, `data-tab="tech">Tech (2)</button>`)
	require.Contains(t, out, `data-tab="news">News (1)</button>`)
	require.Contains(t, out, `class="panel active" role="tabpanel" id="tab-tech"`)
	require.Contains(t, out, `class="panel" role="tabpanel" id="tab-news"`)
	require.Len(t, hrefPattern.FindAllStringSubmatch(out, -1), 3)
	require.Contains(t, out, `<a href="tech-article-2.html">Gamma</a>`)
}

func TestAssignFileNames_Flat(t *testing.T) {
	articles := sampleArticles()
	categories := render.AssignFileNames(articles, false)

	require.Len(t, categories, 1)
	require.Equal(t, "article-1.html", articles[0].FileName)
	require.Equal(t, "article-3.html", articles[2].FileName)
	require.Equal(t, model.Bookmark{Title: "Beta", FileName: "article-2.html"}, categories[0].Bookmarks[1])
}

func TestAssignFileNames_Grouped(t *testing.T) {
	articles := sampleArticles()
	categories := render.AssignFileNames(articles, true)

	require.Len(t, categories, 2)
	require.Equal(t, "Tech", categories[0].Title)
	require.Equal(t, "News", categories[1].Title)
	require.Equal(t, "tech-article-1.html", articles[0].FileName)
	require.Equal(t, "news-article-1.html", articles[1].FileName)
	require.Equal(t, "tech-article-2.html", articles[2].FileName)
}

func TestAssignFileNames_SlugCollisionsStayUnique(t *testing.T) {
	articles := []model.Article{
		{FeedTitle: "A B", Title: "1"},
		{FeedTitle: "a-b", Title: "2"},
		{FeedTitle: "a b!", Title: "3"},
		{FeedTitle: "", Title: "4"},
	}
	categories := render.AssignFileNames(articles, true)
	require.Len(t, categories, 4)

	seen := make(map[string]bool)
	for _, a := range articles {
		require.False(t, seen[a.FileName], "duplicate %s", a.FileName)
		seen[a.FileName] = true
	}
	require.Equal(t, "a-b-article-1.html", articles[0].FileName)
	require.Equal(t, "a-b-2-article-1.html", articles[1].FileName)
	require.Equal(t, "a-b-3-article-1.html", articles[2].FileName)
	require.Equal(t, "feed-article-1.html", articles[3].FileName)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Tech News":      "tech-news",
		"  --Go 1.25--":  "go-1-25",
		"人人都是产品经理":       "人人都是产品经理",
		"产品 / Design":    "产品-design",
		"!!!":            "feed",
		"":               "feed",
	}
	for in, want := range tests {
		require.Equal(t, want, render.Slugify(in), in)
	}
}

// Package render turns articles into standalone HTML documents: one page per
// article and a table-of-contents index.
package render

import (
	"embed"
	"html/template"
	"io"
	"time"

	"feedpress/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const dateLayout = "2006-01-02 15:04"

type PageData struct {
	SiteTitle string
	Article   model.Article
}

type pageView struct {
	DocumentTitle string
	Title         string
	FeedTitle     string
	PubDate       string
	PubDateISO    string
	Content       template.HTML
	Link          string
	QRCode        template.URL
}

// Page renders one article. Content is emitted verbatim and must already be
// sanitized; the QR code must be a data URI produced by the encoder.
func Page(w io.Writer, data PageData) error {
	a := data.Article
	view := pageView{
		DocumentTitle: a.Title,
		Title:         a.Title,
		FeedTitle:     a.FeedTitle,
		Content:       template.HTML(a.Content),
		Link:          a.Link,
		QRCode:        template.URL(a.QRCode),
	}
	if data.SiteTitle != "" {
		view.DocumentTitle = a.Title + " - " + data.SiteTitle
	}
	if a.PubDate != nil {
		view.PubDate = a.PubDate.Format(dateLayout)
		view.PubDateISO = a.PubDate.Format(time.RFC3339)
	}
	return templates.ExecuteTemplate(w, "page.html", view)
}

type IndexData struct {
	SiteTitle   string
	Grouped     bool
	Categories  []model.Category
	GeneratedAt time.Time
}

type indexView struct {
	SiteTitle   string
	Grouped     bool
	Categories  []model.Category
	Total       int
	GeneratedAt string
}

// Index renders the table of contents, one entry per bookmark.
func Index(w io.Writer, data IndexData) error {
	view := indexView{
		SiteTitle:   data.SiteTitle,
		Grouped:     data.Grouped,
		Categories:  data.Categories,
		GeneratedAt: data.GeneratedAt.Format(dateLayout),
	}
	for _, c := range data.Categories {
		view.Total += len(c.Bookmarks)
	}
	return templates.ExecuteTemplate(w, "index.html", view)
}

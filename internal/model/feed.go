package model

import "time"

// FeedSource is one configured subscription. Title doubles as the category
// label in grouped layouts.
type FeedSource struct {
	Title string `yaml:"title" toml:"title"`
	URL   string `yaml:"url" toml:"url"`
}

type Article struct {
	FeedTitle string
	Title     string
	Content   string
	Link      string
	PubDate   *time.Time
	QRCode    string
	FileName  string
}

// Bookmark is an index entry pointing at a rendered article page.
type Bookmark struct {
	Title    string
	FileName string
}

type Category struct {
	Title     string
	Slug      string
	Bookmarks []Bookmark
}

func (a Article) Bookmark() Bookmark {
	return Bookmark{Title: a.Title, FileName: a.FileName}
}

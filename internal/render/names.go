package render

import (
	"fmt"
	"strings"
	"unicode"

	"feedpress/internal/model"
)

// AssignFileNames sets FileName on every article and returns the index
// sections. Flat layouts number globally (article-1.html, ...) and return a
// single untitled section; grouped layouts number per feed category
// (<slug>-article-1.html, ...) and return one section per category in
// first-seen order.
func AssignFileNames(articles []model.Article, grouped bool) []model.Category {
	if !grouped {
		section := model.Category{Bookmarks: make([]model.Bookmark, 0, len(articles))}
		for i := range articles {
			articles[i].FileName = fmt.Sprintf("article-%d.html", i+1)
			section.Bookmarks = append(section.Bookmarks, articles[i].Bookmark())
		}
		return []model.Category{section}
	}

	var categories []model.Category
	byTitle := make(map[string]int)
	slugs := make(map[string]int)

	for i := range articles {
		idx, ok := byTitle[articles[i].FeedTitle]
		if !ok {
			idx = len(categories)
			byTitle[articles[i].FeedTitle] = idx
			categories = append(categories, model.Category{
				Title: articles[i].FeedTitle,
				Slug:  uniqueSlug(Slugify(articles[i].FeedTitle), slugs),
			})
		}
		c := &categories[idx]
		articles[i].FileName = fmt.Sprintf("%s-article-%d.html", c.Slug, len(c.Bookmarks)+1)
		c.Bookmarks = append(c.Bookmarks, articles[i].Bookmark())
	}
	return categories
}

// Slugify lowercases s and replaces every run of characters that are not
// letters or digits with a single hyphen. Non-Latin letters are kept.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return "feed"
	}
	return b.String()
}

func uniqueSlug(slug string, used map[string]int) string {
	used[slug]++
	if n := used[slug]; n > 1 {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		// "a-2" may itself be a real slug; keep counting until free.
		for used[candidate] > 0 {
			n++
			candidate = fmt.Sprintf("%s-%d", slug, n)
		}
		used[slug] = n
		used[candidate]++
		return candidate
	}
	return slug
}

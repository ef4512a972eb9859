package sanitizer

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Style holds the inline overrides applied by Normalize. Empty values are skipped.
type Style struct {
	MaxWidth        string
	BackgroundColor string
	HeadingFontSize string
}

// Normalize 调整文章正文的内联样式:
// 第一个顶层容器 (div/section/article) 设置 max-width,
// 其内部的容器覆盖 background-color, h3 放大字号。
// 没有顶层容器时原样返回输入。
//
// 注意：此函数不做安全过滤，参见 Harden。
func Normalize(content string, style Style) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return content
	}

	var root *html.Node
	for _, n := range nodes {
		if isContainer(n) {
			root = n
			break
		}
	}
	if root == nil {
		return content
	}

	if style.MaxWidth != "" {
		setStyle(root, "max-width", style.MaxWidth)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walkTree(c, func(n *html.Node) {
			switch {
			case isContainer(n) && style.BackgroundColor != "":
				setStyle(n, "background-color", style.BackgroundColor)
			case n.DataAtom == atom.H3 && style.HeadingFontSize != "":
				setStyle(n, "font-size", style.HeadingFontSize)
			}
		})
	}

	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return content
		}
	}
	return buf.String()
}

func isContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Div, atom.Section, atom.Article:
		return true
	}
	return false
}

// walkTree traverses n and its descendant element nodes and calls fn for each.
func walkTree(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkTree(c, fn)
	}
}

type declaration struct {
	property string
	value    string
}

// setStyle sets property in the node's style attribute, keeping the other
// declarations in their original order.
func setStyle(n *html.Node, property, value string) {
	idx := -1
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, "style") {
			idx = i
			break
		}
	}

	var decls []declaration
	if idx >= 0 {
		decls = parseStyle(n.Attr[idx].Val)
	}

	replaced := false
	for i := range decls {
		if decls[i].property == property {
			decls[i].value = value
			replaced = true
		}
	}
	if !replaced {
		decls = append(decls, declaration{property: property, value: value})
	}

	serialized := formatStyle(decls)
	if idx >= 0 {
		n.Attr[idx].Val = serialized
	} else {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: serialized})
	}
}

func parseStyle(raw string) []declaration {
	var decls []declaration
	for _, part := range strings.Split(raw, ";") {
		prop, val, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: val})
	}
	return decls
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func hardenPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowStyles(
			"max-width", "width", "height", "background-color", "color",
			"font-size", "font-weight", "text-align", "margin", "padding",
		).Globally()
		p.AllowDataURIImages()
		p.RequireNoFollowOnLinks(false)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		policy = p
	})
	return policy
}

// Harden applies an allow-list policy: scripts, event handlers, iframes and
// javascript: URLs are removed, ordinary formatting survives.
func Harden(content string) string {
	if strings.TrimSpace(content) == "" {
		return content
	}
	return hardenPolicy().Sanitize(content)
}

// StripTags 移除字符串中的所有 HTML/XML 标签，只保留文本内容。
//
// 注意：此函数仅用于内容清理，不应用于安全防护（如 XSS 防御）。
//
// Input without a recognizable HTML element is returned as is (trimmed), so
// feed titles that were escaped text such as "Vec<T>" or "a<b" survive.
//
// 示例：
//   - "<p>Hello <strong>World</strong></p>" -> "Hello World"
//   - "Plain text" -> "Plain text"
//   - "Understanding Vec<T> in Rust" -> "Understanding Vec<T> in Rust"
func StripTags(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if !strings.Contains(input, "<") || !hasMarkup(input) {
		return input
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var buf strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			if tokenizer.Err() == io.EOF {
				break
			}
			// 解析错误时返回空字符串
			return ""
		}

		if tt == html.TextToken {
			buf.WriteString(tokenizer.Token().Data)
		}
	}

	return strings.TrimSpace(buf.String())
}

// hasMarkup reports whether input contains a complete tag naming a known HTML
// element, or a comment.
func hasMarkup(input string) bool {
	tokenizer := html.NewTokenizer(strings.NewReader(input))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return false
		case html.CommentToken:
			return true
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			if atom.Lookup(name) != 0 {
				return true
			}
		}
	}
}

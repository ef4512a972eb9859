package opml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

type Document struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

type Head struct {
	Title        string `xml:"title,omitempty"`
	DateCreated  string `xml:"dateCreated,omitempty"`
	DateModified string `xml:"dateModified,omitempty"`
}

type Body struct {
	Outlines []Outline `xml:"outline"`
}

type Outline struct {
	Text     string    `xml:"text,attr,omitempty"`
	Title    string    `xml:"title,attr,omitempty"`
	Type     string    `xml:"type,attr,omitempty"`
	XMLURL   string    `xml:"xmlUrl,attr,omitempty"`
	HTMLURL  string    `xml:"htmlUrl,attr,omitempty"`
	Outlines []Outline `xml:"outline,omitempty"`
}

// Source is one subscription flattened out of a document.
// Category is the enclosing folder, or the feed's own label at top level.
type Source struct {
	Category string
	Title    string
	URL      string
}

func Parse(r io.Reader) (Document, error) {
	decoder := xml.NewDecoder(r)
	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func Encode(doc Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteString(xml.Header)
	encoder := xml.NewEncoder(buf)
	encoder.Indent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	if err := encoder.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Sources walks the outline tree in document order.
func (d Document) Sources() []Source {
	var out []Source
	for _, o := range d.Body.Outlines {
		out = collect(out, o, "")
	}
	return out
}

func collect(out []Source, o Outline, folder string) []Source {
	label := o.label()
	if url := strings.TrimSpace(o.XMLURL); url != "" {
		category := folder
		if category == "" {
			category = label
		}
		return append(out, Source{Category: category, Title: label, URL: url})
	}
	if folder == "" {
		folder = label
	}
	for _, child := range o.Outlines {
		out = collect(out, child, folder)
	}
	return out
}

func (o Outline) label() string {
	if t := strings.TrimSpace(o.Title); t != "" {
		return t
	}
	return strings.TrimSpace(o.Text)
}

// FromSources builds a document with one folder outline per category,
// preserving first-seen category order.
func FromSources(title string, sources []Source) Document {
	doc := Document{Version: "2.0", Head: Head{Title: title}}
	index := make(map[string]int)
	for _, s := range sources {
		feed := Outline{Text: s.Title, Title: s.Title, Type: "rss", XMLURL: s.URL}
		i, ok := index[s.Category]
		if !ok {
			index[s.Category] = len(doc.Body.Outlines)
			doc.Body.Outlines = append(doc.Body.Outlines, Outline{Text: s.Category, Title: s.Category})
			i = index[s.Category]
		}
		doc.Body.Outlines[i].Outlines = append(doc.Body.Outlines[i].Outlines, feed)
	}
	return doc
}

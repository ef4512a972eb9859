package opml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOPML_ParseAndEncode(t *testing.T) {
	opmlData := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title>Test OPML</title>
  </head>
  <body>
    <outline text="Folder">
      <outline text="Feed" type="rss" xmlUrl="http://example.com/rss"/>
    </outline>
  </body>
</opml>`

	doc, err := Parse(strings.NewReader(opmlData))
	require.NoError(t, err)
	require.Equal(t, "2.0", doc.Version)
	require.Equal(t, "Test OPML", doc.Head.Title)
	require.Len(t, doc.Body.Outlines, 1)
	require.Equal(t, "Folder", doc.Body.Outlines[0].Text)
	require.Len(t, doc.Body.Outlines[0].Outlines, 1)
	require.Equal(t, "Feed", doc.Body.Outlines[0].Outlines[0].Text)

	encoded, err := Encode(doc)
	require.NoError(t, err)
	require.Contains(t, string(encoded), "Test OPML")
	require.Contains(t, string(encoded), "xmlUrl=\"http://example.com/rss\"")
}

func TestDocument_Sources(t *testing.T) {
	opmlData := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <body>
    <outline text="产品">
      <outline text="人人都是产品经理" type="rss" xmlUrl="https://rsshub.example/woshipm/popular"/>
      <outline text="Nested">
        <outline title="Deep" text="ignored" xmlUrl="https://deep.example/rss"/>
      </outline>
    </outline>
    <outline text="Solo Blog" type="rss" xmlUrl=" https://solo.example/atom.xml "/>
    <outline text="Empty Folder"/>
  </body>
</opml>`

	doc, err := Parse(strings.NewReader(opmlData))
	require.NoError(t, err)

	sources := doc.Sources()
	require.Equal(t, []Source{
		{Category: "产品", Title: "人人都是产品经理", URL: "https://rsshub.example/woshipm/popular"},
		{Category: "产品", Title: "Deep", URL: "https://deep.example/rss"},
		{Category: "Solo Blog", Title: "Solo Blog", URL: "https://solo.example/atom.xml"},
	}, sources)
}

func TestFromSources_GroupsByCategory(t *testing.T) {
	doc := FromSources("feeds", []Source{
		{Category: "Tech", Title: "A", URL: "http://a/rss"},
		{Category: "News", Title: "B", URL: "http://b/rss"},
		{Category: "Tech", Title: "C", URL: "http://c/rss"},
	})

	require.Equal(t, "2.0", doc.Version)
	require.Len(t, doc.Body.Outlines, 2)
	require.Equal(t, "Tech", doc.Body.Outlines[0].Text)
	require.Len(t, doc.Body.Outlines[0].Outlines, 2)
	require.Equal(t, "http://c/rss", doc.Body.Outlines[0].Outlines[1].XMLURL)

	encoded, err := Encode(doc)
	require.NoError(t, err)
	roundTrip, err := Parse(strings.NewReader(string(encoded)))
	require.NoError(t, err)
	require.Len(t, roundTrip.Sources(), 3)
}

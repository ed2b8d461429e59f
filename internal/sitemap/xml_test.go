package sitemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Document(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/", LastMod: "2024-01-01T00:00:00.000Z", ChangeFreq: Daily},
		{URL: "docs/a&b", Priority: "0.8"},
	}

	doc, size, err := Render(entries, "https://example.com")

	require.NoError(t, err)
	assert.Equal(t, len(doc), size)
	assert.True(t, strings.HasPrefix(doc, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, doc, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, doc, "<loc>https://example.com/</loc>")
	assert.Contains(t, doc, "<loc>https://example.com/docs/a&amp;b</loc>")
	assert.Contains(t, doc, "<priority>0.8</priority>")
	assert.Equal(t, 1, strings.Count(doc, "<changefreq>"))
}

func TestRender_ParseRoundTrip(t *testing.T) {
	entries := []Entry{
		{URL: "https://example.com/", ChangeFreq: Daily, LastMod: "2024-01-01T00:00:00.000Z"},
		{URL: "https://example.com/c", ChangeFreq: Weekly},
	}

	doc, _, err := Render(entries, "https://example.com")
	require.NoError(t, err)

	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, parsed.URLs, 2)
	assert.Equal(t, "https://example.com/", parsed.URLs[0].Loc)
	assert.Equal(t, "daily", parsed.URLs[0].ChangeFreq)
	assert.Equal(t, "2024-01-01T00:00:00.000Z", parsed.URLs[0].LastMod)
	assert.Equal(t, "https://example.com/c", parsed.URLs[1].Loc)
}

func TestRender_Empty(t *testing.T) {
	doc, _, err := Render(nil, "https://example.com")

	require.NoError(t, err)
	parsed, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, parsed.URLs)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("<urlset><url>"))

	assert.Error(t, err)
}

package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/romangod6/sitemap-xml-plugin/internal/models"
)

// Render serializes entries as a sitemaps.org urlset document. Entry URLs
// that are still relative are joined onto hostname. It returns the text and
// its length in bytes.
func Render(entries []Entry, hostname string) (string, int, error) {
	doc := models.Sitemap{
		XMLNS: models.SitemapNamespace,
		URLs:  make([]models.URL, 0, len(entries)),
	}
	for _, e := range entries {
		doc.URLs = append(doc.URLs, models.URL{
			Loc:        absoluteURL(hostname, e.URL),
			LastMod:    e.LastMod,
			ChangeFreq: string(e.ChangeFreq),
			Priority:   e.Priority,
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", 0, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return "", 0, fmt.Errorf("failed to encode sitemap: %w", err)
	}
	buf.WriteByte('\n')

	return buf.String(), buf.Len(), nil
}

// Parse reads a urlset document back into its model.
func Parse(data []byte) (*models.Sitemap, error) {
	var doc models.Sitemap
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse sitemap: %w", err)
	}
	return &doc, nil
}

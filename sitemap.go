package aktivnatura

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"time"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

var staticSitemapURLs = []struct {
	path, freq, priority string
}{
	{"", "weekly", "1.0"},
	{"izleti", "weekly", "0.9"},
	{"blog", "weekly", "0.8"},
	{"kontakt", "monthly", "0.7"},
}

// BuildSitemap renders sitemap.xml for the static pages and every
// published trip and blog post. Static pages, and content without an
// update time, carry now's date as lastmod.
func BuildSitemap(ctx context.Context, store *Store, baseURL string, now time.Time) ([]byte, error) {
	trips, err := store.ListTrips(ctx, TripFilter{PublishedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("sitemap trips: %w", err)
	}
	posts, err := store.ListPosts(ctx, PostFilter{PublishedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}

	today := now.Format(dateLayout)
	lastMod := func(ts string) string {
		if len(ts) < len(dateLayout) {
			return today
		}
		return ts[:len(dateLayout)]
	}

	urls := make([]sitemapURL, 0, len(staticSitemapURLs)+len(trips)+len(posts))
	for _, s := range staticSitemapURLs {
		loc := BuildURL(baseURL)
		if s.path != "" {
			loc = BuildURL(baseURL, s.path)
		}
		urls = append(urls, sitemapURL{Loc: loc, LastMod: today, ChangeFreq: s.freq, Priority: s.priority})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(baseURL, "blog", p.Slug),
			LastMod:    lastMod(p.UpdatedAt),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}
	for _, t := range trips {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(baseURL, "izleti", t.Slug),
			LastMod:    lastMod(t.UpdatedAt),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	return marshalXMLDoc(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

// marshalXMLDoc encodes v as an indented XML document with a header.
func marshalXMLDoc(v any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

package aktivnatura

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const excerptLength = 160

var (
	reAlign     = regexp.MustCompile(`^(left|center|right)$`)
	reDimension = regexp.MustCompile(`^[0-9]{1,4}(px|%)?$`)
	reStyleSize = regexp.MustCompile(`^([0-9]{1,4}(px|%)?|auto)$`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// richTextPolicy accepts the HTML produced by the dashboard editor: the
// usual UGC set plus images carrying the size and alignment the editor's
// resize handle and alignment buttons set.
var richTextPolicy = newRichTextPolicy()

func newRichTextPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowElements("figure", "figcaption", "mark", "u", "s")
	p.AllowAttrs("width", "height").Matching(reDimension).OnElements("img")
	p.AllowAttrs("data-align").Matching(reAlign).OnElements("img", "figure", "p", "h2", "h3")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^(align-(left|center|right)|rt-image)( [a-z-]+)*$`)).OnElements("img", "figure", "p")
	p.AllowStyles("text-align").MatchingEnum("left", "center", "right", "justify").OnElements("p", "h1", "h2", "h3", "h4")
	p.AllowStyles("width", "height").Matching(reStyleSize).OnElements("img")
	p.AllowStyles("float").MatchingEnum("left", "right", "none").OnElements("img", "figure")
	p.AllowStyles("display").MatchingEnum("block", "inline-block").OnElements("img")
	p.AllowStyles("margin-left", "margin-right").MatchingEnum("auto", "0").OnElements("img", "figure")
	return p
}

// SanitizeHTML cleans editor output before it is stored.
func SanitizeHTML(html string) string {
	return strings.TrimSpace(richTextPolicy.Sanitize(html))
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	// Block elements would otherwise run together.
	doc.Find("p, h1, h2, h3, h4, li, br, figcaption").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.TrimSpace(reSpaces.ReplaceAllString(doc.Text(), " "))
}

// Excerpt derives a summary of at most excerptLength runes from HTML content,
// cutting on a word boundary.
func Excerpt(html string) string {
	return truncateWords(PlainText(html), excerptLength)
}

func truncateWords(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:max])
	if i := strings.LastIndex(cut, " "); i > max/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// FirstImage returns the src of the first image in an HTML fragment.
func FirstImage(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return src
}

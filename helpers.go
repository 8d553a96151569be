package aktivnatura

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"
)

// diacritics folds the Croatian and Slovenian letters we see in titles.
var diacritics = strings.NewReplacer(
	"č", "c", "ć", "c", "š", "s", "ž", "z", "đ", "dj",
	"Č", "c", "Ć", "c", "Š", "s", "Ž", "z", "Đ", "dj",
	"ä", "a", "ö", "o", "ü", "u", "é", "e", "è", "e",
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(diacritics.Replace(s)))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitLines splits a textarea value into trimmed non-empty lines.
func SplitLines(s string) []string {
	return FilterEmpty(strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n"))
}

// RelatedTrips returns up to limit other trips in the same category.
func RelatedTrips(current Trip, trips []Trip, limit int) []Trip {
	if current.CategoryID == "" {
		return nil
	}
	var related []Trip
	for _, t := range trips {
		if t.ID == current.ID || t.CategoryID != current.CategoryID {
			continue
		}
		related = append(related, t)
		if len(related) == limit {
			break
		}
	}
	return related
}

// RelatedPosts returns up to limit other posts, preferring the same category.
func RelatedPosts(current BlogPost, posts []BlogPost, limit int) []BlogPost {
	var same, other []BlogPost
	for _, p := range posts {
		if p.ID == current.ID {
			continue
		}
		if current.CategoryID != "" && p.CategoryID == current.CategoryID {
			same = append(same, p)
		} else {
			other = append(other, p)
		}
	}
	related := append(same, other...)
	if len(related) > limit {
		related = related[:limit]
	}
	return related
}

var monthsHR = [...]string{"siječnja", "veljače", "ožujka", "travnja", "svibnja", "lipnja",
	"srpnja", "kolovoza", "rujna", "listopada", "studenoga", "prosinca"}

// FormatDate renders a YYYY-MM-DD date in Croatian long form, e.g. "7. lipnja 2025.".
// Unparseable input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("2.") + " " + monthsHR[t.Month()-1] + " " + t.Format("2006.")
}

// FormatDateRange renders a start/end pair; a missing or equal end date
// collapses to a single date.
func FormatDateRange(start, end string) string {
	if start == "" {
		return FormatDate(end)
	}
	if end == "" || end == start {
		return FormatDate(start)
	}
	return FormatDate(start) + " – " + FormatDate(end)
}

// DifficultyLabel returns the display label for a difficulty value.
func DifficultyLabel(d string) string {
	switch d {
	case DifficultyEasy:
		return "Lagano"
	case DifficultyModerate:
		return "Srednje zahtjevno"
	case DifficultyDemanding:
		return "Zahtjevno"
	case DifficultyAlpine:
		return "Alpinistički"
	}
	return d
}

// WebsiteJsonLD returns a JSON-LD string for a SportsOrganization schema.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "SportsOrganization",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
		"sport":    "Hiking",
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.ContactEmail != "" {
		data["email"] = cfg.ContactEmail
	}
	return marshalJsonLD(data)
}

// TripJsonLD returns a JSON-LD string describing a trip as an Event.
func TripJsonLD(trip Trip, cfg SiteConfig) string {
	tripURL := BuildURL(cfg.URL, "izleti", trip.Slug)
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Event",
		"name":        trip.Title,
		"description": trip.Subtitle,
		"startDate":   trip.Date,
		"url":         tripURL,
		"eventStatus": "https://schema.org/EventScheduled",
		"organizer": map[string]string{
			"@type": "SportsOrganization",
			"name":  cfg.Name,
			"url":   BuildURL(cfg.URL),
		},
	}
	if trip.Location != "" {
		data["location"] = map[string]string{
			"@type": "Place",
			"name":  trip.Location,
		}
	}
	if trip.FeaturedImage != "" {
		data["image"] = absoluteURL(cfg.URL, trip.FeaturedImage)
	}
	if trip.MaxParticipants > 0 {
		data["maximumAttendeeCapacity"] = trip.MaxParticipants
	}
	return marshalJsonLD(data)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post BlogPost, cfg SiteConfig) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.CreatedAt,
		"dateModified":  post.UpdatedAt,
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		},
	}
	if post.FeaturedImage != "" {
		data["image"] = absoluteURL(cfg.URL, post.FeaturedImage)
	}
	if post.CategoryName != "" {
		data["articleSection"] = post.CategoryName
	}
	return marshalJsonLD(data)
}

func marshalJsonLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// absoluteURL resolves a site-relative reference such as /public/uploads/x.jpg.
func absoluteURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

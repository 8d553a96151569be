package aktivnatura

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Category types. A category belongs either to trips or to blog posts.
const (
	CategoryBlog = "blog"
	CategoryTrip = "trip"
)

// Trip difficulty levels.
const (
	DifficultyEasy      = "easy"
	DifficultyModerate  = "moderate"
	DifficultyDemanding = "demanding"
	DifficultyAlpine    = "alpine"
)

// Difficulties lists the accepted difficulty values in display order.
var Difficulties = []string{DifficultyEasy, DifficultyModerate, DifficultyDemanding, DifficultyAlpine}

// RoleAdmin is the only role that grants dashboard access.
const RoleAdmin = "admin"

// Image buckets under public/uploads.
const (
	BucketTrips    = "trips"
	BucketBlog     = "blog"
	BucketFeatured = "featured"
	BucketEditor   = "editor"
)

// Buckets lists the accepted upload buckets.
var Buckets = []string{BucketTrips, BucketBlog, BucketFeatured, BucketEditor}

const dateLayout = "2006-01-02"

// Trip is a hiking excursion (izlet).
type Trip struct {
	ID              string     `db:"id"`
	Title           string     `db:"title"`
	Subtitle        string     `db:"subtitle"`
	Slug            string     `db:"slug"`
	Content         string     `db:"content"`
	CategoryID      string     `db:"category_id"`
	CategoryName    string     `db:"category_name"`
	CategorySlug    string     `db:"category_slug"`
	FeaturedImage   string     `db:"featured_image"`
	GalleryImages   StringList `db:"gallery_images"`
	Date            string     `db:"date"`
	MaxParticipants int        `db:"max_participants"`
	Location        string     `db:"location"`
	Difficulty      string     `db:"difficulty"`
	Duration        string     `db:"duration"`
	Published       bool       `db:"published"`
	CreatedAt       string     `db:"created_at"`
	UpdatedAt       string     `db:"updated_at"`
}

// Link returns the public path of the trip.
func (t Trip) Link() string { return "/izleti/" + t.Slug }

// Upcoming reports whether the trip date is today or later.
func (t Trip) Upcoming(now time.Time) bool {
	d, err := time.Parse(dateLayout, t.Date)
	if err != nil {
		return false
	}
	return !d.Before(truncateDay(now))
}

// BlogPost is an article with an optional category and date range.
type BlogPost struct {
	ID            string `db:"id"`
	Title         string `db:"title"`
	Slug          string `db:"slug"`
	Content       string `db:"content"`
	Excerpt       string `db:"excerpt"`
	FeaturedImage string `db:"featured_image"`
	CategoryID    string `db:"category_id"`
	CategoryName  string `db:"category_name"`
	CategorySlug  string `db:"category_slug"`
	StartDate     string `db:"start_date"`
	EndDate       string `db:"end_date"`
	Published     bool   `db:"published"`
	AuthorID      string `db:"author_id"`
	AuthorEmail   string `db:"author_email"`
	CreatedAt     string `db:"created_at"`
	UpdatedAt     string `db:"updated_at"`
}

// Link returns the public path of the post.
func (p BlogPost) Link() string { return "/blog/" + p.Slug }

// Category groups trips or blog posts.
type Category struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Description string `db:"description"`
	Type        string `db:"type"`
	CreatedAt   string `db:"created_at"`
}

// FeaturedTrip is the promotional record shown as a popup on the home page.
type FeaturedTrip struct {
	ID         string `db:"id"`
	Title      string `db:"title"`
	Date       string `db:"date"`
	CoverImage string `db:"cover_image"`
	Link       string `db:"link"`
	IsActive   bool   `db:"is_active"`
	CreatedAt  string `db:"created_at"`
	UpdatedAt  string `db:"updated_at"`
}

// User is an account that can sign in to the dashboard.
type User struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    string `db:"created_at"`
	Roles        []string
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	for _, r := range u.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}

// Image is metadata for an uploaded file.
type Image struct {
	Filename     string `db:"filename"`
	Bucket       string `db:"bucket"`
	OriginalName string `db:"original_name"`
	Width        int    `db:"width"`
	Height       int    `db:"height"`
	Size         int    `db:"size"`
	UploadedAt   string `db:"uploaded_at"`
}

// URL returns the public URL of the image.
func (i Image) URL() string {
	return "/public/" + uploadsSubdir + "/" + i.Bucket + "/" + i.Filename
}

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	Read      bool   `db:"read"`
	CreatedAt string `db:"created_at"`
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	Image       string
	OGType      string // "website" or "article"
}

// StringList is a list of strings stored as a JSON array column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("string list: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = out
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package aktivnatura

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// TripFilter narrows ListTrips results.
type TripFilter struct {
	PublishedOnly bool
	CategorySlug  string
	// FromDate keeps trips on or after this YYYY-MM-DD date when set.
	FromDate string
	Limit    int
}

const tripColumns = `t.id, t.title, t.subtitle, t.slug, t.content,
    COALESCE(t.category_id, '') AS category_id,
    COALESCE(c.name, '') AS category_name,
    COALESCE(c.slug, '') AS category_slug,
    t.featured_image, t.gallery_images, t.date, t.max_participants, t.location,
    t.difficulty, t.duration, t.published, t.created_at, t.updated_at`

const tripFrom = ` FROM trips t LEFT JOIN categories c ON c.id = t.category_id`

// ListTrips returns trips ordered by date descending.
func (s *Store) ListTrips(ctx context.Context, f TripFilter) ([]Trip, error) {
	var where []string
	var args []any
	if f.PublishedOnly {
		where = append(where, "t.published = 1")
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	if f.FromDate != "" {
		where = append(where, "t.date >= ?")
		args = append(args, f.FromDate)
	}
	q := `SELECT ` + tripColumns + tripFrom
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	if f.FromDate != "" {
		q += " ORDER BY t.date ASC"
	} else {
		q += " ORDER BY t.date DESC"
	}
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	var trips []Trip
	if err := s.db.SelectContext(ctx, &trips, q, args...); err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	return trips, nil
}

// GetTrip returns a trip by id regardless of published status.
func (s *Store) GetTrip(ctx context.Context, id string) (Trip, error) {
	var t Trip
	err := s.db.GetContext(ctx, &t, `SELECT `+tripColumns+tripFrom+` WHERE t.id = ?`, id)
	return t, translateError(err)
}

// GetTripBySlug returns a trip by slug. When publishedOnly is set, drafts
// are reported as ErrNotFound.
func (s *Store) GetTripBySlug(ctx context.Context, slug string, publishedOnly bool) (Trip, error) {
	q := `SELECT ` + tripColumns + tripFrom + ` WHERE t.slug = ?`
	if publishedOnly {
		q += ` AND t.published = 1`
	}
	var t Trip
	err := s.db.GetContext(ctx, &t, q, slug)
	return t, translateError(err)
}

// SaveTrip inserts t when its ID is empty and updates it otherwise.
// On insert the generated ID and timestamps are written back to t.
func (s *Store) SaveTrip(ctx context.Context, t *Trip) error {
	if t.GalleryImages == nil {
		t.GalleryImages = StringList{}
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkCategory(ctx, tx, t.CategoryID, CategoryTrip); err != nil {
			return err
		}
		now := s.timestamp()
		t.UpdatedAt = now
		if t.ID == "" {
			t.ID = newID()
			t.CreatedAt = now
			_, err := tx.NamedExecContext(ctx, `INSERT INTO trips
    (id, title, subtitle, slug, content, category_id, featured_image, gallery_images,
     date, max_participants, location, difficulty, duration, published, created_at, updated_at)
VALUES
    (:id, :title, :subtitle, :slug, :content, NULLIF(:category_id, ''), :featured_image, :gallery_images,
     :date, :max_participants, :location, :difficulty, :duration, :published, :created_at, :updated_at)`, t)
			if err != nil {
				t.ID = ""
			}
			return translateError(err)
		}
		return mustAffect(tx.NamedExecContext(ctx, `UPDATE trips SET
    title = :title, subtitle = :subtitle, slug = :slug, content = :content,
    category_id = NULLIF(:category_id, ''), featured_image = :featured_image,
    gallery_images = :gallery_images, date = :date, max_participants = :max_participants,
    location = :location, difficulty = :difficulty, duration = :duration,
    published = :published, updated_at = :updated_at
WHERE id = :id`, t))
	})
}

// SetTripPublished flips the published flag of a trip.
func (s *Store) SetTripPublished(ctx context.Context, id string, published bool) error {
	return mustAffect(s.db.ExecContext(ctx,
		`UPDATE trips SET published = ?, updated_at = ? WHERE id = ?`, published, s.timestamp(), id))
}

// DeleteTrip removes a trip by id.
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id))
}

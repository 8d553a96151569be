package aktivnatura

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const featuredColumns = `id, title, date, cover_image, link, is_active, created_at, updated_at`

// ActiveFeaturedTrip returns the single active featured trip, or ErrNotFound.
func (s *Store) ActiveFeaturedTrip(ctx context.Context) (FeaturedTrip, error) {
	var f FeaturedTrip
	err := s.db.GetContext(ctx, &f, `SELECT `+featuredColumns+` FROM featured_trip WHERE is_active = 1 LIMIT 1`)
	return f, translateError(err)
}

// ListFeaturedTrips returns all featured trip records, active first.
func (s *Store) ListFeaturedTrips(ctx context.Context) ([]FeaturedTrip, error) {
	var out []FeaturedTrip
	if err := s.db.SelectContext(ctx, &out,
		`SELECT `+featuredColumns+` FROM featured_trip ORDER BY is_active DESC, updated_at DESC`); err != nil {
		return nil, fmt.Errorf("list featured trips: %w", err)
	}
	return out, nil
}

// GetFeaturedTrip returns a featured trip by id.
func (s *Store) GetFeaturedTrip(ctx context.Context, id string) (FeaturedTrip, error) {
	var f FeaturedTrip
	err := s.db.GetContext(ctx, &f, `SELECT `+featuredColumns+` FROM featured_trip WHERE id = ?`, id)
	return f, translateError(err)
}

// SaveFeaturedTrip inserts or updates f. When f is active every other record
// is deactivated in the same transaction, so at most one is ever active.
func (s *Store) SaveFeaturedTrip(ctx context.Context, f *FeaturedTrip) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := s.timestamp()
		f.UpdatedAt = now
		insert := f.ID == ""
		if insert {
			f.ID = newID()
			f.CreatedAt = now
		}
		if f.IsActive {
			if _, err := tx.ExecContext(ctx,
				`UPDATE featured_trip SET is_active = 0, updated_at = ? WHERE is_active = 1 AND id != ?`, now, f.ID); err != nil {
				return err
			}
		}
		if insert {
			_, err := tx.NamedExecContext(ctx, `INSERT INTO featured_trip (`+featuredColumns+`)
VALUES (:id, :title, :date, :cover_image, :link, :is_active, :created_at, :updated_at)`, f)
			if err != nil {
				f.ID = ""
			}
			return translateError(err)
		}
		return mustAffect(tx.NamedExecContext(ctx, `UPDATE featured_trip SET
    title = :title, date = :date, cover_image = :cover_image, link = :link,
    is_active = :is_active, updated_at = :updated_at
WHERE id = :id`, f))
	})
}

// SetFeaturedTripActive activates or deactivates a featured trip. Activating
// one deactivates the rest.
func (s *Store) SetFeaturedTripActive(ctx context.Context, id string, active bool) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		now := s.timestamp()
		if active {
			if _, err := tx.ExecContext(ctx,
				`UPDATE featured_trip SET is_active = 0, updated_at = ? WHERE is_active = 1 AND id != ?`, now, id); err != nil {
				return err
			}
		}
		return mustAffect(tx.ExecContext(ctx,
			`UPDATE featured_trip SET is_active = ?, updated_at = ? WHERE id = ?`, active, now, id))
	})
}

// DeleteFeaturedTrip removes a featured trip record.
func (s *Store) DeleteFeaturedTrip(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM featured_trip WHERE id = ?`, id))
}

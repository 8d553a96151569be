package aktivnatura

import (
	"context"
	"fmt"
)

// ListCategories returns categories of the given type ordered by name.
// An empty type returns every category.
func (s *Store) ListCategories(ctx context.Context, typ string) ([]Category, error) {
	q := `SELECT id, name, slug, description, type, created_at FROM categories`
	var args []any
	if typ != "" {
		q += ` WHERE type = ?`
		args = append(args, typ)
	}
	q += ` ORDER BY type, name COLLATE NOCASE`
	var cats []Category
	if err := s.db.SelectContext(ctx, &cats, q, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// GetCategory returns a category by id.
func (s *Store) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := s.db.GetContext(ctx, &c,
		`SELECT id, name, slug, description, type, created_at FROM categories WHERE id = ?`, id)
	return c, translateError(err)
}

// SaveCategory inserts c when its ID is empty and updates it otherwise.
func (s *Store) SaveCategory(ctx context.Context, c *Category) error {
	if c.Type != CategoryBlog && c.Type != CategoryTrip {
		return ErrInvalidCategory
	}
	if c.ID == "" {
		c.ID = newID()
		c.CreatedAt = s.timestamp()
		_, err := s.db.NamedExecContext(ctx, `INSERT INTO categories (id, name, slug, description, type, created_at)
VALUES (:id, :name, :slug, :description, :type, :created_at)`, c)
		if err != nil {
			c.ID = ""
		}
		return translateError(err)
	}
	// Changing the type of a category in use would break the trip/blog split.
	var inUse int
	if err := s.db.GetContext(ctx, &inUse, `SELECT
    (SELECT COUNT(*) FROM trips WHERE category_id = ?) +
    (SELECT COUNT(*) FROM blog_posts WHERE category_id = ?)`, c.ID, c.ID); err != nil {
		return err
	}
	if inUse > 0 {
		current, err := s.GetCategory(ctx, c.ID)
		if err != nil {
			return err
		}
		if current.Type != c.Type {
			return ErrInvalidCategory
		}
	}
	return mustAffect(s.db.NamedExecContext(ctx, `UPDATE categories SET
    name = :name, slug = :slug, description = :description, type = :type
WHERE id = :id`, c))
}

// DeleteCategory removes a category. Trips and posts referencing it keep
// existing without a category.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id))
}

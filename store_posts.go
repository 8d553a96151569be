package aktivnatura

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// PostFilter narrows ListPosts results.
type PostFilter struct {
	PublishedOnly bool
	CategorySlug  string
	Limit         int
}

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
    COALESCE(p.category_id, '') AS category_id,
    COALESCE(c.name, '') AS category_name,
    COALESCE(c.slug, '') AS category_slug,
    p.start_date, p.end_date, p.published,
    COALESCE(p.author_id, '') AS author_id,
    COALESCE(u.email, '') AS author_email,
    p.created_at, p.updated_at`

const postFrom = ` FROM blog_posts p
    LEFT JOIN categories c ON c.id = p.category_id
    LEFT JOIN users u ON u.id = p.author_id`

// ListPosts returns blog posts, newest first.
func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]BlogPost, error) {
	var where []string
	var args []any
	if f.PublishedOnly {
		where = append(where, "p.published = 1")
	}
	if f.CategorySlug != "" {
		where = append(where, "c.slug = ?")
		args = append(args, f.CategorySlug)
	}
	q := `SELECT ` + postColumns + postFrom
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY p.created_at DESC"
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	var posts []BlogPost
	if err := s.db.SelectContext(ctx, &posts, q, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a blog post by id regardless of published status.
func (s *Store) GetPost(ctx context.Context, id string) (BlogPost, error) {
	var p BlogPost
	err := s.db.GetContext(ctx, &p, `SELECT `+postColumns+postFrom+` WHERE p.id = ?`, id)
	return p, translateError(err)
}

// GetPostBySlug returns a blog post by slug. When publishedOnly is set,
// drafts are reported as ErrNotFound.
func (s *Store) GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (BlogPost, error) {
	q := `SELECT ` + postColumns + postFrom + ` WHERE p.slug = ?`
	if publishedOnly {
		q += ` AND p.published = 1`
	}
	var p BlogPost
	err := s.db.GetContext(ctx, &p, q, slug)
	return p, translateError(err)
}

// SavePost inserts p when its ID is empty and updates it otherwise.
// The author is only recorded on insert.
func (s *Store) SavePost(ctx context.Context, p *BlogPost) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.checkCategory(ctx, tx, p.CategoryID, CategoryBlog); err != nil {
			return err
		}
		now := s.timestamp()
		p.UpdatedAt = now
		if p.ID == "" {
			p.ID = newID()
			p.CreatedAt = now
			_, err := tx.NamedExecContext(ctx, `INSERT INTO blog_posts
    (id, title, slug, content, excerpt, featured_image, category_id, start_date, end_date,
     published, author_id, created_at, updated_at)
VALUES
    (:id, :title, :slug, :content, :excerpt, :featured_image, NULLIF(:category_id, ''), :start_date, :end_date,
     :published, NULLIF(:author_id, ''), :created_at, :updated_at)`, p)
			if err != nil {
				p.ID = ""
			}
			return translateError(err)
		}
		return mustAffect(tx.NamedExecContext(ctx, `UPDATE blog_posts SET
    title = :title, slug = :slug, content = :content, excerpt = :excerpt,
    featured_image = :featured_image, category_id = NULLIF(:category_id, ''),
    start_date = :start_date, end_date = :end_date, published = :published,
    updated_at = :updated_at
WHERE id = :id`, p))
	})
}

// SetPostPublished flips the published flag of a post.
func (s *Store) SetPostPublished(ctx context.Context, id string, published bool) error {
	return mustAffect(s.db.ExecContext(ctx,
		`UPDATE blog_posts SET published = ?, updated_at = ? WHERE id = ?`, published, s.timestamp(), id))
}

// DeletePost removes a blog post by id.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id))
}

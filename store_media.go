package aktivnatura

import (
	"context"
	"fmt"
)

// SaveImage records metadata for an uploaded image.
func (s *Store) SaveImage(ctx context.Context, img Image) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO images
    (bucket, filename, original_name, width, height, size, uploaded_at)
VALUES (:bucket, :filename, :original_name, :width, :height, :size, :uploaded_at)`, img)
	return translateError(err)
}

// ListImages returns uploaded images, newest first. An empty bucket lists all.
func (s *Store) ListImages(ctx context.Context, bucket string) ([]Image, error) {
	q := `SELECT bucket, filename, original_name, width, height, size, uploaded_at FROM images`
	var args []any
	if bucket != "" {
		q += ` WHERE bucket = ?`
		args = append(args, bucket)
	}
	q += ` ORDER BY uploaded_at DESC, filename`
	var images []Image
	if err := s.db.SelectContext(ctx, &images, q, args...); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return images, nil
}

// ImageExists reports whether a file with that name is recorded in bucket.
func (s *Store) ImageExists(ctx context.Context, bucket, filename string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM images WHERE bucket = ? AND filename = ?`, bucket, filename)
	return n > 0, err
}

// DeleteImage removes image metadata.
func (s *Store) DeleteImage(ctx context.Context, bucket, filename string) error {
	return mustAffect(s.db.ExecContext(ctx,
		`DELETE FROM images WHERE bucket = ? AND filename = ?`, bucket, filename))
}

// SaveContactMessage stores a contact form submission.
func (s *Store) SaveContactMessage(ctx context.Context, m *ContactMessage) error {
	m.ID = newID()
	m.CreatedAt = s.timestamp()
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO contact_messages
    (id, name, email, subject, message, read, created_at)
VALUES (:id, :name, :email, :subject, :message, :read, :created_at)`, m)
	return translateError(err)
}

// ListContactMessages returns contact messages, newest first.
func (s *Store) ListContactMessages(ctx context.Context) ([]ContactMessage, error) {
	var out []ContactMessage
	if err := s.db.SelectContext(ctx, &out,
		`SELECT id, name, email, subject, message, read, created_at FROM contact_messages ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return out, nil
}

// CountUnreadMessages returns how many contact messages are unread.
func (s *Store) CountUnreadMessages(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM contact_messages WHERE read = 0`)
	return n, err
}

// MarkContactMessageRead flags a message as read.
func (s *Store) MarkContactMessageRead(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `UPDATE contact_messages SET read = 1 WHERE id = ?`, id))
}

// DeleteContactMessage removes a contact message.
func (s *Store) DeleteContactMessage(ctx context.Context, id string) error {
	return mustAffect(s.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id))
}

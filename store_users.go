package aktivnatura

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrLastAdmin is returned when removing a role would leave no administrator.
var ErrLastAdmin = errors.New("cannot remove the last administrator")

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. The email is stored lowercased and
// duplicates are reported as ErrConflict.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	u := User{
		ID:           newID(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    s.timestamp(),
	}
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_at) VALUES (:id, :email, :password_hash, :created_at)`, u)
	if err != nil {
		return User{}, translateError(err)
	}
	return u, nil
}

// GetUser returns a user with roles by id.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	if err := s.db.GetContext(ctx, &u,
		`SELECT id, email, password_hash, created_at FROM users WHERE id = ?`, id); err != nil {
		return User{}, translateError(err)
	}
	return s.withRoles(ctx, u)
}

// GetUserByEmail returns a user with roles by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	if err := s.db.GetContext(ctx, &u,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = ?`, normalizeEmail(email)); err != nil {
		return User{}, translateError(err)
	}
	return s.withRoles(ctx, u)
}

func (s *Store) withRoles(ctx context.Context, u User) (User, error) {
	var roles []string
	if err := s.db.SelectContext(ctx, &roles,
		`SELECT role FROM user_roles WHERE user_id = ? ORDER BY role`, u.ID); err != nil {
		return User{}, err
	}
	u.Roles = roles
	return u, nil
}

// ListUsers returns every account with its roles, oldest first.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := s.db.SelectContext(ctx, &users,
		`SELECT id, email, password_hash, created_at FROM users ORDER BY created_at, email`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var rows []struct {
		UserID string `db:"user_id"`
		Role   string `db:"role"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT user_id, role FROM user_roles ORDER BY role`); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	byUser := make(map[string][]string, len(rows))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.Role)
	}
	for i := range users {
		users[i].Roles = byUser[users[i].ID]
	}
	return users, nil
}

// HasRole reports whether the user holds role.
func (s *Store) HasRole(ctx context.Context, userID, role string) (bool, error) {
	return hasRole(ctx, s.db, userID, role)
}

func hasRole(ctx context.Context, q sqlx.QueryerContext, userID, role string) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM user_roles WHERE user_id = ? AND role = ?`, userID, role); err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountAdmins returns the number of users with the admin role.
func (s *Store) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM user_roles WHERE role = ?`, RoleAdmin)
	return n, err
}

// GrantRole gives userID the role without checking who asks. It is meant for
// bootstrap and command line use.
func (s *Store) GrantRole(ctx context.Context, userID, role string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return grantRole(ctx, tx, userID, role)
	})
}

func grantRole(ctx context.Context, tx *sqlx.Tx, userID, role string) error {
	var n int
	if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE id = ?`, userID); err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO user_roles (user_id, role) VALUES (?, ?)`, userID, role)
	return err
}

// RevokeRole removes role from userID without an actor check. The last
// administrator cannot be demoted.
func (s *Store) RevokeRole(ctx context.Context, userID, role string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return revokeRole(ctx, tx, userID, role)
	})
}

func revokeRole(ctx context.Context, tx *sqlx.Tx, userID, role string) error {
	if role == RoleAdmin {
		var admins int
		if err := tx.GetContext(ctx, &admins,
			`SELECT COUNT(*) FROM user_roles WHERE role = ? AND user_id != ?`, RoleAdmin, userID); err != nil {
			return err
		}
		if admins == 0 {
			return ErrLastAdmin
		}
	}
	return mustAffect(tx.ExecContext(ctx,
		`DELETE FROM user_roles WHERE user_id = ? AND role = ?`, userID, role))
}

// AssignAdminRole grants the admin role to targetID on behalf of actorID.
// The actor must be an administrator.
func (s *Store) AssignAdminRole(ctx context.Context, actorID, targetID string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := hasRole(ctx, tx, actorID, RoleAdmin)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		return grantRole(ctx, tx, targetID, RoleAdmin)
	})
}

// RemoveAdminRole revokes the admin role of targetID on behalf of actorID.
// The actor must be an administrator and cannot demote themselves.
func (s *Store) RemoveAdminRole(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return ErrForbidden
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		ok, err := hasRole(ctx, tx, actorID, RoleAdmin)
		if err != nil {
			return err
		}
		if !ok {
			return ErrForbidden
		}
		return revokeRole(ctx, tx, targetID, RoleAdmin)
	})
}

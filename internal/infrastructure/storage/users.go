package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Mashfooq/be-news-aggregator/internal/domain"
	"github.com/Mashfooq/be-news-aggregator/internal/ports"
)

var _ ports.UserStore = (*Store)(nil)

const uniqueViolation = "23505"

// CreateUser inserts a new account. Registering an email twice returns
// domain.ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, name, email, passwordHash string) (domain.User, error) {
	var user domain.User

	query := `INSERT INTO users (name, email, password_hash)
              VALUES ($1, $2, $3)
              RETURNING id`

	err := s.pool.QueryRow(ctx, query, name, email, passwordHash).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.User{}, domain.ErrDuplicate
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	user.Name = name
	user.Email = email
	user.PasswordHash = passwordHash

	return user, nil
}

// UserByEmail fetches an account by its unique email.
func (s *Store) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	query := `SELECT id, name, email, password_hash FROM users WHERE email = $1`

	err := s.pool.QueryRow(ctx, query, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("user by email: %w", err)
	}

	return user, nil
}

// UpdatePassword replaces the stored hash for the given email.
func (s *Store) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1 WHERE email = $2`, passwordHash, email)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iho/partledger/internal/domain"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	db querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, hashed_password, created_at) VALUES (?, ?, ?)",
		user.Username, user.HashedPassword, user.CreatedAt,
	)
	if mysqlErrorNumber(err) == errDuplicateEntry {
		return domain.ErrDuplicateUser
	}

	return err
}

// GetByUsername retrieves a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRowContext(ctx,
		"SELECT username, hashed_password, created_at FROM users WHERE username = ?", username,
	).Scan(&u.Username, &u.HashedPassword, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

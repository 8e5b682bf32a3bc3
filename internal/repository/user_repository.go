package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"helpconnect/internal/models"
)

const (
	queryInsertUser = `INSERT INTO users (username, email, password_hash, user_type, skills, rating, is_online, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	querySelectUserByID = `SELECT id, username, email, password_hash, user_type, skills, rating, is_online, created_at
		FROM users WHERE id = ?`
	querySelectUserByUsername = `SELECT id, username, email, password_hash, user_type, skills, rating, is_online, created_at
		FROM users WHERE username = ?`
	queryUpdateUserOnline   = `UPDATE users SET is_online = ? WHERE id = ?`
	queryUpdateUserPassword = `UPDATE users SET password_hash = ? WHERE id = ?`
)

type userRepository struct {
	db sqlx.ExtContext
}

func NewUserRepository(db sqlx.ExtContext) UserRepository {
	return &userRepository{db: db}
}

// Create inserts user and fills in its id. Duplicate usernames and emails are
// rejected by the unique constraints and reported as ErrUsernameTaken or
// ErrEmailTaken.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(ctx, r.db.Rebind(queryInsertUser),
		user.Username,
		user.Email,
		user.PasswordHash,
		user.UserType,
		user.Skills,
		user.Rating,
		user.IsOnline,
		user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		if conflict := classifyUserInsert(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User

	err := sqlx.GetContext(ctx, r.db, &user, r.db.Rebind(querySelectUserByID), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := sqlx.GetContext(ctx, r.db, &user, r.db.Rebind(querySelectUserByUsername), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) SetOnline(ctx context.Context, userID int64, online bool) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(queryUpdateUserOnline), online, userID)
	if err != nil {
		return fmt.Errorf("failed to update online status: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("user %d", userID))
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(queryUpdateUserPassword), passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return expectAffected(result, fmt.Sprintf("user %d", userID))
}

func expectAffected(result sql.Result, what string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}

	return nil
}

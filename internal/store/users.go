package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pharmacart/m/domain"
)

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts the user together with an initial profile row.
func (s *UserStore) Create(ctx context.Context, user *domain.User, hashedPassword string) error {
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO users (id, username, email, password, role) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, hashedPassword, user.Role)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO profiles (id, user_id, username, email) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), user.ID, user.Username, user.Email)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}

	return tx.Commit()
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, username, email, password, role, created_at FROM users WHERE email = ?`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) ByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.db.GetContext(ctx, &user, `SELECT id, username, email, role, created_at FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID, hashedPassword string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET password = ? WHERE id = ?`, hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *UserStore) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	var profile domain.Profile
	err := s.db.GetContext(ctx, &profile, `SELECT id, user_id, username, email, phone, address, license_no, created_at, updated_at FROM profiles WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return &profile, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, userID string, phone, address, licenseNo *string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE profiles SET phone = ?, address = ?, license_no = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?`,
		phone, address, licenseNo, userID)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/obadakatsha-ayatgroup/domecare-app/internal/model"
	apperrors "github.com/obadakatsha-ayatgroup/domecare-app/pkg/errors"
)

const userColumns = `
	id, full_name, email, phone_number, country_code, auth_method,
	password_hash, role, status, email_verified, phone_verified,
	profile_completed, last_login_at, created_at, updated_at
`

// Create inserts the account row and an empty role profile (doctors or
// patients) in one transaction.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			id, full_name, email, phone_number, country_code, auth_method,
			password_hash, role, status, email_verified, phone_verified,
			profile_completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			user.ID,
			user.FullName,
			user.Email,
			user.PhoneNumber,
			user.CountryCode,
			user.AuthMethod,
			user.PasswordHash,
			user.Role,
			user.Status,
			user.EmailVerified,
			user.PhoneVerified,
			user.ProfileCompleted,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return err
		}

		switch user.Role {
		case model.UserRoleDoctor:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO doctors (user_id, specialties, created_at, updated_at) VALUES ($1, '[]', $2, $2)`,
				user.ID, user.CreatedAt)
		case model.UserRolePatient:
			_, err = tx.ExecContext(ctx,
				`INSERT INTO patients (user_id, created_at, updated_at) VALUES ($1, $2, $2)`,
				user.ID, user.CreatedAt)
		}
		return err
	})
	if err != nil {
		if isUniqueViolation(err, "") {
			return apperrors.NewConflict("an account with this email or phone number already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByIdentifier looks a user up by email when the identifier contains an
// "@", by phone number otherwise.
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	column := "phone_number"
	if strings.Contains(identifier, "@") {
		column = "email"
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, identifier)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET full_name = $1, email = $2, phone_number = $3, status = $4,
			email_verified = $5, phone_verified = $6, profile_completed = $7,
			password_hash = $8, last_login_at = $9, updated_at = $10
		WHERE id = $11
	`
	user.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		user.FullName,
		user.Email,
		user.PhoneNumber,
		user.Status,
		user.EmailVerified,
		user.PhoneVerified,
		user.ProfileCompleted,
		user.PasswordHash,
		user.LastLoginAt,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NewNotFound("user")
	}
	return nil
}

func (r *userRepository) ResolveActive(ctx context.Context, id uuid.UUID, role string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND role = $2 AND status = $3`

	var user model.User
	err := r.db.GetContext(ctx, &user, query, id, role, model.UserStatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFound(role)
		}
		return nil, fmt.Errorf("failed to resolve active %s: %w", role, err)
	}
	return &user, nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/airauth/authstore/internal/auth"
)

const userColumns = `id, name, email, email_verified, image, role, created_at, updated_at`

// CreateUser persists a new user.
func (a *Adapter) CreateUser(ctx context.Context, user *auth.User) (*auth.User, error) {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO users (id, name, email, email_verified, image, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		user.ID.String(),
		user.Name,
		user.Email,
		user.EmailVerified,
		user.Image,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, oops.Code("USER_EMAIL_CONFLICT").
				With("operation", "insert user").
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrConflict)
		}
		return nil, oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("id", user.ID.String()).
			Wrap(err)
	}
	return user, nil
}

// GetUser retrieves a user by ID. Returns (nil, nil) when absent.
func (a *Adapter) GetUser(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id.String())

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id.String()).
			Wrap(err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
// Returns (nil, nil) when absent.
func (a *Adapter) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}
	return user, nil
}

// GetUserByAccount retrieves the user linked to an external identity.
// Returns (nil, nil) when no such link exists.
func (a *Adapter) GetUserByAccount(ctx context.Context, key auth.ProviderKey) (*auth.User, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT u.id, u.name, u.email, u.email_verified, u.image, u.role, u.created_at, u.updated_at
		FROM users u
		JOIN accounts a ON a.user_id = u.id
		WHERE a.provider = $1 AND a.provider_account_id = $2
	`, key.Provider, key.ProviderAccountID)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ACCOUNT_FAILED").
			With("operation", "get user by account").
			With("provider", key.Provider).
			Wrap(err)
	}
	return user, nil
}

// UpdateUser applies a partial update and returns the updated user. Fails
// with an ErrNotFound-wrapping error when the id does not exist. The read
// and write run in one transaction so concurrent patches never interleave.
func (a *Adapter) UpdateUser(ctx context.Context, id ulid.ULID, patch auth.UserPatch) (*auth.User, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "begin transaction").
			With("id", id.String()).
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id.String())

	current, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "read user for update").
			With("id", id.String()).
			Wrap(err)
	}

	updated := patch.Apply(*current)

	_, err = tx.Exec(ctx, `
		UPDATE users SET
			name = $2,
			email = $3,
			email_verified = $4,
			image = $5,
			role = $6,
			updated_at = $7
		WHERE id = $1
	`,
		id.String(),
		updated.Name,
		updated.Email,
		updated.EmailVerified,
		updated.Image,
		updated.Role,
		updated.UpdatedAt,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, oops.Code("USER_EMAIL_CONFLICT").
				With("operation", "update user").
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrConflict)
		}
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("id", id.String()).
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "commit transaction").
			With("id", id.String()).
			Wrap(err)
	}
	return &updated, nil
}

// DeleteUser removes a user. Accounts and sessions owned by the user go
// with it via the schema's ON DELETE CASCADE.
func (a *Adapter) DeleteUser(ctx context.Context, id ulid.ULID) error {
	result, err := a.pool.Exec(ctx, `
		DELETE FROM users WHERE id = $1
	`, id.String())
	if err != nil {
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanUser scans a single row into a User.
// Callers are responsible for handling pgx.ErrNoRows.
func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		idStr         string
		name          *string
		email         *string
		emailVerified *time.Time
		image         *string
		role          string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&idStr, &name, &email, &emailVerified, &image, &role, &createdAt, &updatedAt)
	if err != nil {
		// Propagate pgx.ErrNoRows unchanged for callers to handle with context.
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("USER_SCAN_FAILED").
			With("operation", "scan user").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("USER_INVALID_ID").
			With("operation", "parse user id").
			With("id", idStr).
			Wrap(err)
	}

	return &auth.User{
		ID:            id,
		Name:          name,
		Email:         email,
		EmailVerified: emailVerified,
		Image:         image,
		Role:          role,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

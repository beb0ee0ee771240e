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

// CreateSession stores a new session.
func (a *Adapter) CreateSession(ctx context.Context, session *auth.Session) (*auth.Session, error) {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO sessions (session_token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, session.SessionToken, session.UserID.String(), session.Expires)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, oops.Code("SESSION_TOKEN_CONFLICT").
				With("operation", "insert session").
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrConflict)
		}
		if constraint, ok := foreignKeyViolation(err); ok {
			return nil, oops.Code("SESSION_USER_MISSING").
				With("operation", "insert session").
				With("user_id", session.UserID.String()).
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrNotFound)
		}
		return nil, oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID.String()).
			Wrap(err)
	}
	return session, nil
}

// GetSessionAndUser retrieves a session together with its user in one query.
// Returns (nil, nil) when the token is unknown or the user is gone.
func (a *Adapter) GetSessionAndUser(ctx context.Context, sessionToken string) (*auth.SessionAndUser, error) {
	row := a.pool.QueryRow(ctx, `
		SELECT s.session_token, s.user_id, s.expires_at,
		       u.id, u.name, u.email, u.email_verified, u.image, u.role, u.created_at, u.updated_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.session_token = $1
	`, sessionToken)

	var (
		token         string
		sessUserIDStr string
		expires       time.Time
		idStr         string
		name          *string
		email         *string
		emailVerified *time.Time
		image         *string
		role          string
		createdAt     time.Time
		updatedAt     time.Time
	)

	err := row.Scan(&token, &sessUserIDStr, &expires,
		&idStr, &name, &email, &emailVerified, &image, &role, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session and user").
			Wrap(err)
	}

	userID, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", idStr).
			Wrap(err)
	}

	return &auth.SessionAndUser{
		Session: &auth.Session{
			SessionToken: token,
			UserID:       userID,
			Expires:      expires,
		},
		User: &auth.User{
			ID:            userID,
			Name:          name,
			Email:         email,
			EmailVerified: emailVerified,
			Image:         image,
			Role:          role,
			CreatedAt:     createdAt,
			UpdatedAt:     updatedAt,
		},
	}, nil
}

// UpdateSession applies a partial update keyed by session token and returns
// the updated session. Fails with an ErrNotFound-wrapping error when the
// token is unknown.
func (a *Adapter) UpdateSession(ctx context.Context, sessionToken string, patch auth.SessionPatch) (*auth.Session, error) {
	var userIDArg *string
	if patch.UserID != nil {
		s := patch.UserID.String()
		userIDArg = &s
	}

	row := a.pool.QueryRow(ctx, `
		UPDATE sessions SET
			expires_at = COALESCE($2, expires_at),
			user_id = COALESCE($3, user_id)
		WHERE session_token = $1
		RETURNING session_token, user_id, expires_at
	`, sessionToken, patch.Expires, userIDArg)

	var (
		token     string
		userIDStr string
		expires   time.Time
	)
	err := row.Scan(&token, &userIDStr, &expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		if constraint, ok := foreignKeyViolation(err); ok {
			return nil, oops.Code("SESSION_USER_MISSING").
				With("operation", "update session").
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrNotFound)
		}
		return nil, oops.Code("SESSION_UPDATE_FAILED").
			With("operation", "update session").
			Wrap(err)
	}

	userID, err := ulid.Parse(userIDStr)
	if err != nil {
		return nil, oops.Code("SESSION_INVALID_USER_ID").
			With("operation", "parse user id").
			With("user_id", userIDStr).
			Wrap(err)
	}

	return &auth.Session{
		SessionToken: token,
		UserID:       userID,
		Expires:      expires,
	}, nil
}

// DeleteSession removes a session. Unknown tokens are a silent no-op:
// a sign-out racing an expiry sweep must not fail the caller.
func (a *Adapter) DeleteSession(ctx context.Context, sessionToken string) error {
	_, err := a.pool.Exec(ctx, `
		DELETE FROM sessions WHERE session_token = $1
	`, sessionToken)
	if err != nil {
		return oops.Code("SESSION_DELETE_FAILED").
			With("operation", "delete session").
			Wrap(err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions and returns the count.
func (a *Adapter) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := a.pool.Exec(ctx, `
		DELETE FROM sessions WHERE expires_at < $1
	`, time.Now())
	if err != nil {
		return 0, oops.Code("SESSION_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired sessions").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

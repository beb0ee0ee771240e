// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/airauth/authstore/internal/auth"
)

// CreateVerificationToken stores a single-use token and echoes it back.
func (a *Adapter) CreateVerificationToken(ctx context.Context, token *auth.VerificationToken) (*auth.VerificationToken, error) {
	_, err := a.pool.Exec(ctx, `
		INSERT INTO verification_tokens (identifier, token, expires_at)
		VALUES ($1, $2, $3)
	`, token.Identifier, token.Token, token.Expires)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, oops.Code("TOKEN_ALREADY_EXISTS").
				With("operation", "insert verification_token").
				With("identifier", token.Identifier).
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrConflict)
		}
		return nil, oops.Code("TOKEN_CREATE_FAILED").
			With("operation", "insert verification_token").
			With("identifier", token.Identifier).
			Wrap(err)
	}
	return token, nil
}

// UseVerificationToken consumes a token exactly once. The delete-and-return
// is a single statement, so two callers racing on the same key are
// serialized by the row lock: one sees the row, the other sees no rows.
// Both "already consumed" and "never existed" collapse to (nil, nil) so the
// caller cannot learn whether a token ever existed. Store failures do NOT
// collapse to absence; they propagate as coded errors.
func (a *Adapter) UseVerificationToken(ctx context.Context, key auth.TokenKey) (*auth.VerificationToken, error) {
	row := a.pool.QueryRow(ctx, `
		DELETE FROM verification_tokens
		WHERE identifier = $1 AND token = $2
		RETURNING identifier, token, expires_at
	`, key.Identifier, key.Token)

	var (
		identifier string
		token      string
		expires    time.Time
	)
	err := row.Scan(&identifier, &token, &expires)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.Code("TOKEN_USE_FAILED").
			With("operation", "consume verification_token").
			With("identifier", key.Identifier).
			Wrap(err)
	}

	return &auth.VerificationToken{
		Identifier: identifier,
		Token:      token,
		Expires:    expires,
	}, nil
}

// DeleteExpiredVerificationTokens removes expired tokens and returns the count.
func (a *Adapter) DeleteExpiredVerificationTokens(ctx context.Context) (int64, error) {
	result, err := a.pool.Exec(ctx, `
		DELETE FROM verification_tokens WHERE expires_at < $1
	`, time.Now())
	if err != nil {
		return 0, oops.Code("TOKEN_DELETE_EXPIRED_FAILED").
			With("operation", "delete expired verification_tokens").
			Wrap(err)
	}
	return result.RowsAffected(), nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package postgres

import (
	"context"

	"github.com/samber/oops"

	"github.com/airauth/authstore/internal/auth"
)

// LinkAccount stores a provider link and echoes it back. Fails with an
// ErrConflict-wrapping error when (provider, provider_account_id) is already
// linked, and with a coded error when the owning user does not exist.
func (a *Adapter) LinkAccount(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}

	_, err := a.pool.Exec(ctx, `
		INSERT INTO accounts (
			user_id, type, provider, provider_account_id,
			refresh_token, access_token, expires_at, token_type,
			scope, id_token, session_state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		account.UserID.String(),
		account.Type,
		account.Provider,
		account.ProviderAccountID,
		account.RefreshToken,
		account.AccessToken,
		account.ExpiresAt,
		account.TokenType,
		account.Scope,
		account.IDToken,
		account.SessionState,
	)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, oops.Code("ACCOUNT_ALREADY_LINKED").
				With("operation", "insert account").
				With("provider", account.Provider).
				With("provider_account_id", account.ProviderAccountID).
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrConflict)
		}
		if constraint, ok := foreignKeyViolation(err); ok {
			return nil, oops.Code("ACCOUNT_USER_MISSING").
				With("operation", "insert account").
				With("user_id", account.UserID.String()).
				With("constraint", constraint).
				With("cause", err.Error()).
				Wrap(auth.ErrNotFound)
		}
		return nil, oops.Code("ACCOUNT_LINK_FAILED").
			With("operation", "insert account").
			With("provider", account.Provider).
			Wrap(err)
	}
	return account, nil
}

// UnlinkAccount removes a provider link. Fails with an ErrNotFound-wrapping
// error when no such link exists.
func (a *Adapter) UnlinkAccount(ctx context.Context, key auth.ProviderKey) error {
	result, err := a.pool.Exec(ctx, `
		DELETE FROM accounts
		WHERE provider = $1 AND provider_account_id = $2
	`, key.Provider, key.ProviderAccountID)
	if err != nil {
		return oops.Code("ACCOUNT_UNLINK_FAILED").
			With("operation", "delete account").
			With("provider", key.Provider).
			With("provider_account_id", key.ProviderAccountID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("ACCOUNT_NOT_FOUND").
			With("provider", key.Provider).
			With("provider_account_id", key.ProviderAccountID).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Account links a User to an external identity provider. The pair
// (Provider, ProviderAccountID) identifies one external identity and may be
// linked to at most one local user.
type Account struct {
	UserID            ulid.ULID
	Type              string // "oauth", "oidc", "email", "credentials"
	Provider          string
	ProviderAccountID string

	// OAuth token material, all optional.
	RefreshToken *string
	AccessToken  *string
	ExpiresAt    *int64 // unix seconds
	TokenType    *string
	Scope        *string
	IDToken      *string
	SessionState *string
}

// ProviderKey identifies an account by its external identity.
type ProviderKey struct {
	Provider          string
	ProviderAccountID string
}

// Validate checks the fields required to link an account.
func (a *Account) Validate() error {
	if a.UserID.Compare(ulid.ULID{}) == 0 {
		return oops.Code("ACCOUNT_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if a.Provider == "" {
		return oops.Code("ACCOUNT_INVALID_PROVIDER").Errorf("provider cannot be empty")
	}
	if a.ProviderAccountID == "" {
		return oops.Code("ACCOUNT_INVALID_PROVIDER_ACCOUNT").Errorf("provider account ID cannot be empty")
	}
	if a.Type == "" {
		return oops.Code("ACCOUNT_INVALID_TYPE").Errorf("type cannot be empty")
	}
	return nil
}

// Key returns the account's provider key.
func (a *Account) Key() ProviderKey {
	return ProviderKey{Provider: a.Provider, ProviderAccountID: a.ProviderAccountID}
}

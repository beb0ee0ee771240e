// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// SessionAndUser pairs a session with its owning user, as returned by
// per-request session validation.
type SessionAndUser struct {
	Session *Session
	User    *User
}

// Adapter is the storage contract the authentication engine calls into.
//
// Lookup methods (GetUser, GetUserByEmail, GetUserByAccount,
// GetSessionAndUser, UseVerificationToken) report absence as (nil, nil):
// not-found is data on these paths, never error control flow. Mutating
// methods that require an existing row (UpdateUser, UpdateSession,
// UnlinkAccount) fail with an error wrapping ErrNotFound when the row is
// missing. Uniqueness violations surface as errors wrapping ErrConflict.
//
// The adapter holds no in-process mutable state and performs no retries;
// all serialization needed for correctness is delegated to the backing
// store's transactional guarantees.
type Adapter interface {
	// CreateUser persists user and returns it. The caller supplies the
	// entity built by NewUser; the id travels with it.
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUser(ctx context.Context, id ulid.ULID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByAccount(ctx context.Context, key ProviderKey) (*User, error)
	UpdateUser(ctx context.Context, id ulid.ULID, patch UserPatch) (*User, error)
	// DeleteUser removes the user; its accounts and sessions go with it.
	DeleteUser(ctx context.Context, id ulid.ULID) error

	// LinkAccount stores account and echoes it back.
	LinkAccount(ctx context.Context, account *Account) (*Account, error)
	UnlinkAccount(ctx context.Context, key ProviderKey) error

	CreateSession(ctx context.Context, session *Session) (*Session, error)
	GetSessionAndUser(ctx context.Context, sessionToken string) (*SessionAndUser, error)
	UpdateSession(ctx context.Context, sessionToken string, patch SessionPatch) (*Session, error)
	// DeleteSession is a no-op for unknown tokens: sign-out must not fail
	// because the session already expired out from under the caller.
	DeleteSession(ctx context.Context, sessionToken string) error

	CreateVerificationToken(ctx context.Context, token *VerificationToken) (*VerificationToken, error)
	// UseVerificationToken atomically consumes the token. Under concurrent
	// use of the same key exactly one caller receives the record; every
	// other caller receives (nil, nil). "Already consumed" and "never
	// existed" are indistinguishable by design.
	UseVerificationToken(ctx context.Context, key TokenKey) (*VerificationToken, error)

	// Expiry sweeps. Both return the number of rows removed.
	DeleteExpiredSessions(ctx context.Context) (int64, error)
	DeleteExpiredVerificationTokens(ctx context.Context) (int64, error)
}

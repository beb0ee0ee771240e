// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Session token configuration.
const (
	SessionTokenBytes    = 32                  // 32 bytes = 64 hex chars
	DefaultSessionExpiry = 30 * 24 * time.Hour // 30 day expiry
)

// Session is a server-tracked login instance, used under the database
// session strategy. Stateless token strategies never touch this table.
type Session struct {
	SessionToken string // unique, opaque, unguessable
	UserID       ulid.ULID
	Expires      time.Time
}

// NewSession creates a validated Session.
func NewSession(sessionToken string, userID ulid.ULID, expires time.Time) (*Session, error) {
	if sessionToken == "" {
		return nil, oops.Code("SESSION_INVALID_TOKEN").Errorf("session token cannot be empty")
	}
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if expires.IsZero() {
		return nil, oops.Code("SESSION_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &Session{
		SessionToken: sessionToken,
		UserID:       userID,
		Expires:      expires,
	}, nil
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.Expires)
}

// IsExpiredAt returns true if the session would be expired at the given time.
// Useful for testing with deterministic time values.
func (s *Session) IsExpiredAt(t time.Time) bool {
	return t.After(s.Expires)
}

// SessionPatch carries the fields UpdateSession may change for an existing
// token. Nil pointers leave the stored value untouched.
type SessionPatch struct {
	Expires *time.Time
	UserID  *ulid.ULID
}

// GenerateSessionToken creates a secure random opaque session token.
func GenerateSessionToken() (string, error) {
	tokenBytes := make([]byte, SessionTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

// HashToken computes the SHA256 hex digest of an opaque token. Engines that
// store hashed tokens use this on both write and lookup.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

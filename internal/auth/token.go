// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Verification token configuration.
const (
	VerificationTokenBytes    = 32
	DefaultVerificationExpiry = 24 * time.Hour
)

// VerificationToken is a single-use secret proving control of an identifier,
// typically an email address. It is keyed by (Identifier, Token) and carries
// no foreign key to users: the identifier may not belong to any user yet.
type VerificationToken struct {
	Identifier string
	Token      string
	Expires    time.Time
}

// TokenKey identifies a verification token for consumption.
type TokenKey struct {
	Identifier string
	Token      string
}

// NewVerificationToken creates a validated VerificationToken.
func NewVerificationToken(identifier, token string, expires time.Time) (*VerificationToken, error) {
	if identifier == "" {
		return nil, oops.Code("TOKEN_INVALID_IDENTIFIER").Errorf("identifier cannot be empty")
	}
	if token == "" {
		return nil, oops.Code("TOKEN_INVALID_TOKEN").Errorf("token cannot be empty")
	}
	if expires.IsZero() {
		return nil, oops.Code("TOKEN_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}
	return &VerificationToken{
		Identifier: identifier,
		Token:      token,
		Expires:    expires,
	}, nil
}

// IsExpired returns true if the token has expired.
func (t *VerificationToken) IsExpired() bool {
	return time.Now().After(t.Expires)
}

// GenerateVerificationToken creates a secure random token secret.
func GenerateVerificationToken() (string, error) {
	tokenBytes := make([]byte, VerificationTokenBytes)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", oops.Code("TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", VerificationTokenBytes).
			Wrap(err)
	}
	return hex.EncodeToString(tokenBytes), nil
}

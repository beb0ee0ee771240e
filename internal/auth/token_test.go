// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airauth/authstore/pkg/errutil"
)

func TestNewVerificationToken(t *testing.T) {
	expires := time.Now().Add(DefaultVerificationExpiry)

	t.Run("valid token", func(t *testing.T) {
		tok, err := NewVerificationToken("a@example.com", "tok123", expires)
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", tok.Identifier)
		assert.Equal(t, "tok123", tok.Token)
	})

	t.Run("empty identifier rejected", func(t *testing.T) {
		_, err := NewVerificationToken("", "tok123", expires)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID_IDENTIFIER")
	})

	t.Run("empty token rejected", func(t *testing.T) {
		_, err := NewVerificationToken("a@example.com", "", expires)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID_TOKEN")
	})

	t.Run("zero expiry rejected", func(t *testing.T) {
		_, err := NewVerificationToken("a@example.com", "tok123", time.Time{})
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, "TOKEN_INVALID_EXPIRY")
	})
}

func TestVerificationToken_IsExpired(t *testing.T) {
	tok, err := NewVerificationToken("a@example.com", "tok123", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, tok.IsExpired())

	tok, err = NewVerificationToken("a@example.com", "tok123", time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, tok.IsExpired())
}

func TestGenerateVerificationToken(t *testing.T) {
	a, err := GenerateVerificationToken()
	require.NoError(t, err)
	b, err := GenerateVerificationToken()
	require.NoError(t, err)

	assert.Len(t, a, VerificationTokenBytes*2)
	assert.NotEqual(t, a, b)
}

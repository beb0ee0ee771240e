// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airauth/authstore/pkg/errutil"
)

func ptr[T any](v T) *T { return &v }

func TestNewUser(t *testing.T) {
	t.Run("generates a unique id", func(t *testing.T) {
		a := NewUser(nil, ptr("a@example.com"), nil, nil, "")
		b := NewUser(nil, ptr("b@example.com"), nil, nil, "")
		assert.NotEqual(t, a.ID, b.ID)
		assert.NotEqual(t, ulid.ULID{}, a.ID)
	})

	t.Run("empty role falls back to default", func(t *testing.T) {
		u := NewUser(nil, nil, nil, nil, "")
		assert.Equal(t, DefaultRole, u.Role)
	})

	t.Run("explicit role is kept", func(t *testing.T) {
		u := NewUser(nil, nil, nil, nil, "admin")
		assert.Equal(t, "admin", u.Role)
	})

	t.Run("timestamps are set", func(t *testing.T) {
		u := NewUser(nil, nil, nil, nil, "")
		assert.False(t, u.CreatedAt.IsZero())
		assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	})
}

func TestUserPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   UserPatch
		wantErr bool
	}{
		{name: "empty patch", patch: UserPatch{}},
		{name: "set name", patch: UserPatch{Name: ptr("Ada")}},
		{name: "clear name", patch: UserPatch{ClearName: true}},
		{name: "set and clear name", patch: UserPatch{Name: ptr("Ada"), ClearName: true}, wantErr: true},
		{name: "set and clear email", patch: UserPatch{Email: ptr("a@b.c"), ClearEmail: true}, wantErr: true},
		{name: "set and clear image", patch: UserPatch{Image: ptr("x"), ClearImage: true}, wantErr: true},
		{
			name:    "set and clear emailVerified",
			patch:   UserPatch{EmailVerified: ptr(time.Now()), ClearEmailVerified: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "USER_PATCH_INVALID")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserPatch_Apply(t *testing.T) {
	base := func() User {
		return User{
			ID:    ulid.Make(),
			Name:  ptr("Ada"),
			Email: ptr("ada@example.com"),
			Role:  "user",
		}
	}

	t.Run("nil pointers leave fields untouched", func(t *testing.T) {
		u := base()
		got := UserPatch{}.Apply(u)
		assert.Equal(t, u.Name, got.Name)
		assert.Equal(t, u.Email, got.Email)
		assert.Equal(t, u.Role, got.Role)
	})

	t.Run("set fields replace values", func(t *testing.T) {
		verified := time.Now().UTC()
		got := UserPatch{
			Name:          ptr("Grace"),
			EmailVerified: &verified,
			Role:          ptr("admin"),
		}.Apply(base())
		assert.Equal(t, "Grace", *got.Name)
		assert.Equal(t, verified, *got.EmailVerified)
		assert.Equal(t, "admin", got.Role)
		assert.Equal(t, "ada@example.com", *got.Email)
	})

	t.Run("clear flags null fields", func(t *testing.T) {
		got := UserPatch{ClearName: true, ClearEmail: true}.Apply(base())
		assert.Nil(t, got.Name)
		assert.Nil(t, got.Email)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		u := base()
		_ = UserPatch{ClearName: true}.Apply(u)
		assert.NotNil(t, u.Name)
	})

	t.Run("bumps updated_at", func(t *testing.T) {
		u := base()
		got := UserPatch{Name: ptr("Grace")}.Apply(u)
		assert.True(t, got.UpdatedAt.After(u.UpdatedAt) || u.UpdatedAt.IsZero())
	})
}

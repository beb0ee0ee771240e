// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// DefaultRole is assigned to users created without an explicit role.
const DefaultRole = "user"

// User is the root identity record. Accounts and Sessions are owned by
// exactly one User and are removed when the user is deleted.
type User struct {
	ID            ulid.ULID
	Name          *string
	Email         *string
	EmailVerified *time.Time
	Image         *string
	Role          string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewUser creates a User with a generated ID. Name, email, and image are
// optional; an empty role falls back to DefaultRole.
func NewUser(name, email, image *string, emailVerified *time.Time, role string) *User {
	if role == "" {
		role = DefaultRole
	}
	now := time.Now().UTC()
	return &User{
		ID:            ulid.Make(),
		Name:          name,
		Email:         email,
		EmailVerified: emailVerified,
		Image:         image,
		Role:          role,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// UserPatch carries the fields UpdateUser may change. Nil pointers leave the
// stored value untouched; SetEmailVerified/SetName/etc. distinguish "clear the
// field" from "leave unchanged" for the nullable columns.
type UserPatch struct {
	Name          *string
	Email         *string
	Image         *string
	Role          *string
	EmailVerified *time.Time

	// Clear* flags null out the corresponding nullable column. A Clear flag
	// and a value for the same field cannot both be set.
	ClearName          bool
	ClearEmail         bool
	ClearImage         bool
	ClearEmailVerified bool
}

// Validate rejects patches that both set and clear the same field.
func (p UserPatch) Validate() error {
	switch {
	case p.ClearName && p.Name != nil:
		return oops.Code("USER_PATCH_INVALID").Errorf("name cannot be both set and cleared")
	case p.ClearEmail && p.Email != nil:
		return oops.Code("USER_PATCH_INVALID").Errorf("email cannot be both set and cleared")
	case p.ClearImage && p.Image != nil:
		return oops.Code("USER_PATCH_INVALID").Errorf("image cannot be both set and cleared")
	case p.ClearEmailVerified && p.EmailVerified != nil:
		return oops.Code("USER_PATCH_INVALID").Errorf("emailVerified cannot be both set and cleared")
	}
	return nil
}

// Apply produces the post-patch value of u without mutating it.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = p.Name
	}
	if p.ClearName {
		u.Name = nil
	}
	if p.Email != nil {
		u.Email = p.Email
	}
	if p.ClearEmail {
		u.Email = nil
	}
	if p.Image != nil {
		u.Image = p.Image
	}
	if p.ClearImage {
		u.Image = nil
	}
	if p.EmailVerified != nil {
		u.EmailVerified = p.EmailVerified
	}
	if p.ClearEmailVerified {
		u.EmailVerified = nil
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	u.UpdatedAt = time.Now().UTC()
	return u
}

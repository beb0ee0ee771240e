// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package observability

import (
	"context"

	"github.com/oklog/ulid/v2"

	"github.com/airauth/authstore/internal/auth"
)

// InstrumentedAdapter wraps an auth.Adapter and counts every call in
// authstore_operations_total, labeled by operation name and outcome.
type InstrumentedAdapter struct {
	next    auth.Adapter
	metrics *Metrics
}

var _ auth.Adapter = (*InstrumentedAdapter)(nil)

// Instrument wraps next so every adapter call is recorded in metrics.
func Instrument(next auth.Adapter, metrics *Metrics) *InstrumentedAdapter {
	return &InstrumentedAdapter{next: next, metrics: metrics}
}

func (a *InstrumentedAdapter) CreateUser(ctx context.Context, user *auth.User) (*auth.User, error) {
	out, err := a.next.CreateUser(ctx, user)
	a.metrics.recordOperation("create_user", err)
	return out, err
}

func (a *InstrumentedAdapter) GetUser(ctx context.Context, id ulid.ULID) (*auth.User, error) {
	out, err := a.next.GetUser(ctx, id)
	a.metrics.recordOperation("get_user", err)
	return out, err
}

func (a *InstrumentedAdapter) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	out, err := a.next.GetUserByEmail(ctx, email)
	a.metrics.recordOperation("get_user_by_email", err)
	return out, err
}

func (a *InstrumentedAdapter) GetUserByAccount(ctx context.Context, key auth.ProviderKey) (*auth.User, error) {
	out, err := a.next.GetUserByAccount(ctx, key)
	a.metrics.recordOperation("get_user_by_account", err)
	return out, err
}

func (a *InstrumentedAdapter) UpdateUser(ctx context.Context, id ulid.ULID, patch auth.UserPatch) (*auth.User, error) {
	out, err := a.next.UpdateUser(ctx, id, patch)
	a.metrics.recordOperation("update_user", err)
	return out, err
}

func (a *InstrumentedAdapter) DeleteUser(ctx context.Context, id ulid.ULID) error {
	err := a.next.DeleteUser(ctx, id)
	a.metrics.recordOperation("delete_user", err)
	return err
}

func (a *InstrumentedAdapter) LinkAccount(ctx context.Context, account *auth.Account) (*auth.Account, error) {
	out, err := a.next.LinkAccount(ctx, account)
	a.metrics.recordOperation("link_account", err)
	return out, err
}

func (a *InstrumentedAdapter) UnlinkAccount(ctx context.Context, key auth.ProviderKey) error {
	err := a.next.UnlinkAccount(ctx, key)
	a.metrics.recordOperation("unlink_account", err)
	return err
}

func (a *InstrumentedAdapter) CreateSession(ctx context.Context, session *auth.Session) (*auth.Session, error) {
	out, err := a.next.CreateSession(ctx, session)
	a.metrics.recordOperation("create_session", err)
	return out, err
}

func (a *InstrumentedAdapter) GetSessionAndUser(ctx context.Context, sessionToken string) (*auth.SessionAndUser, error) {
	out, err := a.next.GetSessionAndUser(ctx, sessionToken)
	a.metrics.recordOperation("get_session_and_user", err)
	return out, err
}

func (a *InstrumentedAdapter) UpdateSession(ctx context.Context, sessionToken string, patch auth.SessionPatch) (*auth.Session, error) {
	out, err := a.next.UpdateSession(ctx, sessionToken, patch)
	a.metrics.recordOperation("update_session", err)
	return out, err
}

func (a *InstrumentedAdapter) DeleteSession(ctx context.Context, sessionToken string) error {
	err := a.next.DeleteSession(ctx, sessionToken)
	a.metrics.recordOperation("delete_session", err)
	return err
}

func (a *InstrumentedAdapter) CreateVerificationToken(ctx context.Context, token *auth.VerificationToken) (*auth.VerificationToken, error) {
	out, err := a.next.CreateVerificationToken(ctx, token)
	a.metrics.recordOperation("create_verification_token", err)
	return out, err
}

func (a *InstrumentedAdapter) UseVerificationToken(ctx context.Context, key auth.TokenKey) (*auth.VerificationToken, error) {
	out, err := a.next.UseVerificationToken(ctx, key)
	a.metrics.recordOperation("use_verification_token", err)
	return out, err
}

func (a *InstrumentedAdapter) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	n, err := a.next.DeleteExpiredSessions(ctx)
	a.metrics.recordOperation("delete_expired_sessions", err)
	if err == nil && n > 0 {
		a.metrics.ExpiredRowsDeleted.WithLabelValues("session").Add(float64(n))
	}
	return n, err
}

func (a *InstrumentedAdapter) DeleteExpiredVerificationTokens(ctx context.Context) (int64, error) {
	n, err := a.next.DeleteExpiredVerificationTokens(ctx)
	a.metrics.recordOperation("delete_expired_verification_tokens", err)
	if err == nil && n > 0 {
		a.metrics.ExpiredRowsDeleted.WithLabelValues("verification_token").Add(float64(n))
	}
	return n, err
}

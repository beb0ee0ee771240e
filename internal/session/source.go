// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package session exposes the current authentication state as an observable
// value. A Source wraps one session token, refetches its backing row on
// demand, and fans state changes out to subscribers so callers can react to
// sign-in and sign-out without polling the store themselves.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/airauth/authstore/internal/auth"
)

// Status classifies the current authentication state.
type Status string

const (
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
	StatusError           Status = "error"
)

// State is a snapshot of the session source. Session and User are set only
// when Status is StatusAuthenticated; Err is set only when Status is
// StatusError.
type State struct {
	Status  Status
	Session *auth.Session
	User    *auth.User
	Err     error
}

// Source tracks the authentication state for a single session token. It
// holds no connection of its own; every refetch goes through the adapter.
type Source struct {
	adapter auth.Adapter
	token   string

	mu    sync.RWMutex
	state State
	subs  []chan State
}

// NewSource creates a source for the given session token. The initial state
// is unauthenticated until Refetch is called.
func NewSource(adapter auth.Adapter, sessionToken string) *Source {
	return &Source{
		adapter: adapter,
		token:   sessionToken,
		state:   State{Status: StatusUnauthenticated},
	}
}

// State returns a copy of the current state.
func (s *Source) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyState(s.state)
}

// Subscribe creates a channel that receives every subsequent state change.
// The channel is buffered; a subscriber that falls behind misses updates.
func (s *Source) Subscribe() chan State {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan State, 16)
	s.subs = append(s.subs, ch)
	return ch
}

// Unsubscribe removes and closes a channel returned by Subscribe.
func (s *Source) Unsubscribe(ch chan State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Refetch loads the session and its user from the store and publishes the
// resulting state. An absent or expired session yields unauthenticated; a
// store failure yields an error state and is also returned.
func (s *Source) Refetch(ctx context.Context) (State, error) {
	pair, err := s.adapter.GetSessionAndUser(ctx, s.token)
	if err != nil {
		wrapped := oops.Code("SESSION_REFETCH_FAILED").Wrap(err)
		return s.publish(State{Status: StatusError, Err: wrapped}), wrapped
	}
	if pair == nil {
		return s.publish(State{Status: StatusUnauthenticated}), nil
	}
	if pair.Session.IsExpiredAt(time.Now()) {
		// Expired rows are garbage; clear the row so the sweep doesn't
		// have to.
		if err := s.adapter.DeleteSession(ctx, s.token); err != nil {
			slog.Warn("failed to delete expired session",
				"error", err,
			)
		}
		return s.publish(State{Status: StatusUnauthenticated}), nil
	}

	return s.publish(State{
		Status:  StatusAuthenticated,
		Session: pair.Session,
		User:    pair.User,
	}), nil
}

// SignOut deletes the backing session row and publishes unauthenticated.
func (s *Source) SignOut(ctx context.Context) error {
	if err := s.adapter.DeleteSession(ctx, s.token); err != nil {
		return oops.Code("SESSION_SIGNOUT_FAILED").Wrap(err)
	}
	s.publish(State{Status: StatusUnauthenticated})
	return nil
}

// publish stores the new state and fans it out to subscribers. Returns a
// copy of the published state.
func (s *Source) publish(next State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = next
	for _, ch := range s.subs {
		select {
		case ch <- copyState(next):
		default:
			slog.Warn("session state dropped: subscriber buffer full",
				"status", next.Status,
			)
		}
	}
	return copyState(next)
}

// copyState returns a defensive copy so callers cannot mutate the source's
// records through the returned pointers.
func copyState(st State) State {
	out := State{Status: st.Status, Err: st.Err}
	if st.Session != nil {
		sess := *st.Session
		out.Session = &sess
	}
	if st.User != nil {
		user := *st.User
		out.User = &user
	}
	return out
}

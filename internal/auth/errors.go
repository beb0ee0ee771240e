// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

package auth

import "errors"

// ErrNotFound is returned when an operation requires an entity that does not
// exist (update of an unknown id, unlink of an unknown account). Plain
// lookups never return it: absence there is a nil result, not an error.
var ErrNotFound = errors.New("not found")

// ErrConflict is wrapped into errors caused by a uniqueness violation, so
// callers can distinguish "email already in use" from infrastructure failure.
var ErrConflict = errors.New("unique constraint violation")

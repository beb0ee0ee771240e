// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 AirAuth Contributors

// Package auth defines the persistence contract an authentication engine
// depends on.
//
// # Domain Types
//
// Domain types (User, Account, Session, VerificationToken) should be created
// using their respective constructors:
//   - NewUser - creates a User with a generated ID and timestamps
//   - NewSession - creates a Session with validated token and expiry
//   - NewVerificationToken - creates a VerificationToken with validated expiry
//
// Direct struct initialization bypasses validation and may create invalid state.
// Adapter implementations receive pre-validated types from these constructors.
//
// # Adapter
//
// The Adapter interface is the full surface the engine calls. Lookups report
// absence as a nil result with a nil error; only constraint violations and
// store failures are errors. Any compliant implementation is interchangeable;
// the canonical one lives in the postgres subpackage.
package auth

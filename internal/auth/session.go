// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
)

// =============================================================================
// TYPES
// =============================================================================

// Identity is the signed-in user as known to the provider.
type Identity struct {
	ID    string
	Email string
}

// Profile holds display data for the signed-in user.
type Profile struct {
	Username string
}

// Credentials are submitted by the login and sign-up forms. Username is only
// used for sign-up.
type Credentials struct {
	Email    string
	Password string
	Username string
}

// Snapshot is the provider state at one instant. Values are never mutated
// after publication.
type Snapshot struct {
	User    *Identity
	Profile *Profile
	Loading bool
}

// Authenticated reports whether a user is present and resolution finished.
func (s Snapshot) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// Username returns the profile username, or "" without a profile.
func (s Snapshot) Username() string {
	if s.Profile == nil {
		return ""
	}
	return s.Profile.Username
}

// Errors returned by Session implementations.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("an account with this email already exists")
	ErrRateLimited        = errors.New("too many sign-in attempts, try again shortly")
	ErrInvalidInput       = errors.New("please fill in all fields")
)

// Session is the identity-provider boundary.
type Session interface {
	// Snapshot returns the current state.
	Snapshot() Snapshot

	// Subscribe returns a channel that receives every later snapshot, newest
	// wins when the reader falls behind, and a function that ends the
	// subscription and closes the channel.
	Subscribe() (<-chan Snapshot, func())

	SignIn(ctx context.Context, creds Credentials) error
	SignUp(ctx context.Context, creds Credentials) error

	// SignOut clears the user. The absent-user snapshot is current when
	// SignOut returns.
	SignOut(ctx context.Context) error
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/storage"
)

func newTestSession(t *testing.T, cfg LocalConfig) (*LocalSession, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.MemoryPath, storage.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewLocalSession(store, cfg), store
}

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
		return Snapshot{}
	}
}

func TestLocalSession_StartsLoading(t *testing.T) {
	s, _ := newTestSession(t, LocalConfig{})
	snap := s.Snapshot()
	require.True(t, snap.Loading)
	require.False(t, snap.Authenticated())
}

func TestLocalSession_RestoreWithoutRememberedUser(t *testing.T) {
	s, _ := newTestSession(t, LocalConfig{Remember: true})
	require.NoError(t, s.Restore(context.Background()))

	snap := s.Snapshot()
	require.False(t, snap.Loading)
	require.Nil(t, snap.User)
}

func TestLocalSession_SignUpSignOutSignIn(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, LocalConfig{})
	require.NoError(t, s.Restore(ctx))

	err := s.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "ada"})
	require.NoError(t, err)
	snap := s.Snapshot()
	require.True(t, snap.Authenticated())
	require.Equal(t, "ada", snap.Username())
	require.Equal(t, "ada@example.com", snap.User.Email)

	require.NoError(t, s.SignOut(ctx))
	require.False(t, s.Snapshot().Authenticated())
	require.False(t, s.Snapshot().Loading)

	require.NoError(t, s.SignIn(ctx, Credentials{Email: "ADA@example.com", Password: "s3cret!"}))
	require.True(t, s.Snapshot().Authenticated())
}

func TestLocalSession_Errors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, LocalConfig{SignInPerMinute: 100})
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "ada"}))
	require.NoError(t, s.SignOut(ctx))

	err := s.SignIn(ctx, Credentials{Email: "ada@example.com", Password: "nope123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.False(t, s.Snapshot().Loading, "failed sign-in must finish resolving")

	err = s.SignIn(ctx, Credentials{Email: "ghost@example.com", Password: "s3cret!"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = s.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "again"})
	require.ErrorIs(t, err, ErrUserExists)

	err = s.SignIn(ctx, Credentials{Email: "", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)

	err = s.SignUp(ctx, Credentials{Email: "b@example.com", Password: "1", Username: "b"})
	require.ErrorIs(t, err, ErrInvalidInput)

	long := strings.Repeat("x", storage.MaxPasswordBytes+1)
	err = s.SignUp(ctx, Credentials{Email: "c@example.com", Password: long, Username: "c"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestLocalSession_RateLimited(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, LocalConfig{SignInPerMinute: 2})
	require.NoError(t, s.Restore(ctx))

	creds := Credentials{Email: "ghost@example.com", Password: "whatever"}
	require.ErrorIs(t, s.SignIn(ctx, creds), ErrInvalidCredentials)
	require.ErrorIs(t, s.SignIn(ctx, creds), ErrInvalidCredentials)
	require.ErrorIs(t, s.SignIn(ctx, creds), ErrRateLimited)
}

func TestLocalSession_Remember(t *testing.T) {
	ctx := context.Background()
	s, store := newTestSession(t, LocalConfig{Remember: true})
	require.NoError(t, s.Restore(ctx))
	require.NoError(t, s.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "ada"}))

	// A second session over the same store resolves straight to the user.
	next := NewLocalSession(store, LocalConfig{Remember: true})
	require.NoError(t, next.Restore(ctx))
	require.True(t, next.Snapshot().Authenticated())
	require.Equal(t, "ada", next.Snapshot().Username())

	// Signing out forgets the user for the next start.
	require.NoError(t, next.SignOut(ctx))
	again := NewLocalSession(store, LocalConfig{Remember: true})
	require.NoError(t, again.Restore(ctx))
	require.False(t, again.Snapshot().Authenticated())
}

func TestLocalSession_SubscribeNewestWins(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, LocalConfig{})
	ch, cancel := s.Subscribe()
	defer cancel()

	// Restore publishes loading then the resolved state; an idle reader
	// only sees the latest.
	require.NoError(t, s.Restore(ctx))
	snap := recv(t, ch)
	require.False(t, snap.Loading)
	require.Nil(t, snap.User)

	require.NoError(t, s.SignUp(ctx, Credentials{Email: "ada@example.com", Password: "s3cret!", Username: "ada"}))
	require.True(t, recv(t, ch).Authenticated())

	require.NoError(t, s.SignOut(ctx))
	require.False(t, recv(t, ch).Authenticated())
}

func TestLocalSession_CancelClosesChannel(t *testing.T) {
	s, _ := newTestSession(t, LocalConfig{})
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	// Publishing after cancel must not panic.
	require.NoError(t, s.Restore(context.Background()))
}

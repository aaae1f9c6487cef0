// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ada@example.com", "ada@example.com"},
		{"  Ada@Example.COM ", "ada@example.com"},
		{"ａｄａ@example.com", "ada@example.com"}, // fullwidth letters
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, NormalizeEmail(tc.in), "NormalizeEmail(%q)", tc.in)
	}
}

func TestStore_CreateAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.CreateUser(ctx, "Ada@Example.com", " ada ", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", created.Email)
	require.Equal(t, "ada", created.Username)
	require.NotEmpty(t, created.ID)

	got, err := s.Authenticate(ctx, "ADA@example.com", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = s.Authenticate(ctx, "ada@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrBadPassword)

	_, err = s.Authenticate(ctx, "nobody@example.com", "s3cret!")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_CreateUserValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	tests := []struct {
		name, email, username, password string
	}{
		{"empty email", "", "ada", "s3cret!"},
		{"no at sign", "ada.example.com", "ada", "s3cret!"},
		{"blank username", "ada@example.com", "   ", "s3cret!"},
		{"short password", "ada@example.com", "ada", "123"},
		{"password over bcrypt limit", "ada@example.com", "ada", strings.Repeat("p", MaxPasswordBytes+1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateUser(ctx, tc.email, tc.username, tc.password)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestStore_PasswordAtBcryptLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	password := strings.Repeat("p", MaxPasswordBytes)
	_, err := s.CreateUser(ctx, "ada@example.com", "ada", password)
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, "ada@example.com", password)
	require.NoError(t, err)
}

func TestStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.CreateUser(ctx, "ada@example.com", "ada", "s3cret!")
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, "ADA@example.com", "ada2", "another1")
	require.True(t, errors.Is(err, ErrDuplicateEmail))
}

func TestStore_Session(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LoadSession(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	a, err := s.CreateUser(ctx, "a@example.com", "a", "password")
	require.NoError(t, err)
	b, err := s.CreateUser(ctx, "b@example.com", "b", "password")
	require.NoError(t, err)

	require.NoError(t, s.SaveSession(ctx, a.ID))
	require.NoError(t, s.SaveSession(ctx, b.ID))

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	require.NoError(t, s.ClearSession(ctx))
	_, err = s.LoadSession(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "users.db")

	s, err := Open(path, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	u, err := s.CreateUser(ctx, "ada@example.com", "ada", "s3cret!")
	require.NoError(t, err)
	require.NoError(t, s.SaveSession(ctx, u.ID))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadSession(ctx)
	require.NoError(t, err)
	require.Equal(t, u.Email, got.Email)
}

func TestStore_UserByIDNotFound(t *testing.T) {
	_, err := newTestStore(t).UserByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the account store behind the local identity
// provider.
//
// Accounts and the remembered session live in a single SQLite database
// (pure Go driver, no cgo). Chat history is never stored.
//
// # Schema
//
//   - users: id, email (normalized, unique), username, password_hash, created_at
//   - session: a single row pointing at the remembered user
//
// # Usage
//
//	store, err := storage.Open(storage.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	user, err := store.CreateUser(ctx, "ada@example.com", "ada", "s3cret!")
//	user, err = store.Authenticate(ctx, "ADA@example.com", "s3cret!")
package storage

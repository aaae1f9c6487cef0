// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth defines the identity-provider boundary the client reacts to.
//
// The rest of the program never inspects provider state directly. It reads
// immutable Snapshot values, either on demand with Session.Snapshot or as a
// stream from Session.Subscribe, and only mutates the session through
// SignIn, SignUp and SignOut.
//
// LocalSession is the bundled provider. It keeps accounts in the SQLite
// store from package storage, throttles sign-in attempts and can remember
// the last signed-in user across restarts.
package auth

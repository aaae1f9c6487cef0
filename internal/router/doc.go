// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router selects the top-level view from the auth session state.
//
// # Key Types
//
//   - View: closed set of screens (resolving, login, sign-up, chat)
//   - Router: derives the View from each auth.Snapshot plus the login/sign-up
//     navigation preference
//
// # Rules
//
//   - Loading always shows the resolving screen.
//   - No user shows login, or sign-up if the user navigated there.
//   - A user shows chat.
//   - Leaving chat for the unauthenticated state always lands on login.
//
// # Usage
//
//	r := router.New()
//	view := r.Apply(session.Snapshot())
//	switch view {
//	case router.ViewChat:
//	    // mount the chat view
//	}
package router

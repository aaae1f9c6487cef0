// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
)

// =============================================================================
// VIEW TYPE
// =============================================================================

// View is the visible top-level screen.
type View int

const (
	ViewResolving View = iota // Session still resolving
	ViewLogin                 // Unauthenticated, login form
	ViewSignUp                // Unauthenticated, sign-up form
	ViewChat                  // Authenticated
)

// String returns the view name.
func (v View) String() string {
	switch v {
	case ViewResolving:
		return "resolving"
	case ViewLogin:
		return "login"
	case ViewSignUp:
		return "signup"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Authenticated reports whether the view requires a signed-in user.
func (v View) Authenticated() bool {
	return v == ViewChat
}

// Unauthenticated reports whether the view is one of the auth forms.
func (v View) Unauthenticated() bool {
	return v == ViewLogin || v == ViewSignUp
}

// =============================================================================
// ROUTER
// =============================================================================

// Router derives the visible view. The zero value is ready to use and shows
// ViewResolving until the first Apply.
type Router struct {
	current    View
	wantSignUp bool
}

// New creates a router.
func New() *Router {
	return &Router{current: ViewResolving}
}

// Current returns the view selected by the last Apply or navigation.
func (r *Router) Current() View {
	return r.current
}

// Apply selects the view for snap and returns it.
func (r *Router) Apply(snap auth.Snapshot) View {
	switch {
	case snap.Loading:
		r.current = ViewResolving
	case snap.User == nil:
		r.current = r.unauthenticatedView()
	default:
		// Reaching the chat ends any sign-up navigation, so the next
		// sign-out lands on login even if it passes through loading.
		r.wantSignUp = false
		r.current = ViewChat
	}
	return r.current
}

// ShowSignUp navigates to the sign-up form. It has no effect unless an auth
// form is showing.
func (r *Router) ShowSignUp() View {
	if r.current.Unauthenticated() {
		r.wantSignUp = true
		r.current = ViewSignUp
	}
	return r.current
}

// ShowLogin navigates to the login form. It has no effect unless an auth form
// is showing.
func (r *Router) ShowLogin() View {
	if r.current.Unauthenticated() {
		r.wantSignUp = false
		r.current = ViewLogin
	}
	return r.current
}

// Toggle switches between the login and sign-up forms.
func (r *Router) Toggle() View {
	if r.current == ViewSignUp {
		return r.ShowLogin()
	}
	return r.ShowSignUp()
}

func (r *Router) unauthenticatedView() View {
	if r.wantSignUp {
		return ViewSignUp
	}
	return ViewLogin
}

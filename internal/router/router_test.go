// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/auth"
)

var (
	loading  = auth.Snapshot{Loading: true}
	signedIn = auth.Snapshot{
		User:    &auth.Identity{ID: "u1", Email: "ada@example.com"},
		Profile: &auth.Profile{Username: "ada"},
	}
	signedOut = auth.Snapshot{}
)

func TestRouter_Apply(t *testing.T) {
	tests := []struct {
		name string
		snap auth.Snapshot
		want View
	}{
		{"loading", loading, ViewResolving},
		{"loading with user", auth.Snapshot{User: signedIn.User, Loading: true}, ViewResolving},
		{"no user", signedOut, ViewLogin},
		{"user", signedIn, ViewChat},
		{"user without profile", auth.Snapshot{User: signedIn.User}, ViewChat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := New().Apply(tc.snap); got != tc.want {
				t.Errorf("Apply() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestRouter_ZeroValue(t *testing.T) {
	var r Router
	if r.Current() != ViewResolving {
		t.Errorf("zero Router shows %s, want resolving", r.Current())
	}
}

func TestRouter_SignUpPreferenceSurvivesLoading(t *testing.T) {
	r := New()
	r.Apply(signedOut)
	if got := r.ShowSignUp(); got != ViewSignUp {
		t.Fatalf("ShowSignUp() = %s", got)
	}

	// A failed sign-up attempt goes through loading and back.
	r.Apply(loading)
	if got := r.Apply(signedOut); got != ViewSignUp {
		t.Errorf("after failed attempt = %s, want signup", got)
	}
}

func TestRouter_SignOutLandsOnLogin(t *testing.T) {
	r := New()
	r.Apply(signedOut)
	r.ShowSignUp()
	r.Apply(signedIn)

	if got := r.Apply(signedOut); got != ViewLogin {
		t.Errorf("after sign-out = %s, want login", got)
	}
}

func TestRouter_SignOutThroughLoadingLandsOnLogin(t *testing.T) {
	r := New()
	r.Apply(signedOut)
	r.ShowSignUp()
	r.Apply(loading)
	if got := r.Apply(signedIn); got != ViewChat {
		t.Fatalf("after sign-up = %s, want chat", got)
	}

	r.Apply(loading)
	if got := r.Apply(signedOut); got != ViewLogin {
		t.Errorf("after sign-out through loading = %s, want login", got)
	}
}

func TestRouter_NavigationIgnoredOutsideForms(t *testing.T) {
	r := New()
	if got := r.ShowSignUp(); got != ViewResolving {
		t.Errorf("ShowSignUp while resolving = %s", got)
	}

	r.Apply(signedIn)
	if got := r.ShowSignUp(); got != ViewChat {
		t.Errorf("ShowSignUp while authenticated = %s", got)
	}
	if got := r.Apply(signedOut); got != ViewLogin {
		t.Errorf("ignored navigation leaked into preference: %s", got)
	}
}

func TestRouter_Toggle(t *testing.T) {
	r := New()
	r.Apply(signedOut)
	if r.Toggle() != ViewSignUp || r.Toggle() != ViewLogin {
		t.Error("Toggle should alternate between signup and login")
	}
}

func TestView_Predicates(t *testing.T) {
	for _, v := range []View{ViewResolving, ViewLogin, ViewSignUp, ViewChat} {
		if v.Authenticated() && v.Unauthenticated() {
			t.Errorf("%s is both authenticated and unauthenticated", v)
		}
	}
	if !ViewChat.Authenticated() || !ViewLogin.Unauthenticated() || !ViewSignUp.Unauthenticated() {
		t.Error("predicate mismatch")
	}
	if View(99).String() != "unknown" {
		t.Error("unknown view name")
	}
}

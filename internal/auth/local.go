// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/divviya-ainavi/chatbot-salesgenius/internal/logging"
	"github.com/divviya-ainavi/chatbot-salesgenius/internal/storage"
)

// LocalConfig configures a LocalSession.
type LocalConfig struct {
	// SignInPerMinute throttles SignIn and SignUp (default: 10)
	SignInPerMinute int

	// Remember persists the signed-in user for the next start.
	Remember bool
}

// LocalSession is a Session backed by the local account store.
type LocalSession struct {
	store    *storage.Store
	remember bool
	limiter  *rate.Limiter

	mu     sync.Mutex
	snap   Snapshot
	subs   map[int]chan Snapshot
	nextID int
}

// NewLocalSession creates a session in the loading state. Call Restore to
// resolve it.
func NewLocalSession(store *storage.Store, cfg LocalConfig) *LocalSession {
	perMin := cfg.SignInPerMinute
	if perMin <= 0 {
		perMin = 10
	}
	return &LocalSession{
		store:    store,
		remember: cfg.Remember,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin),
		snap:     Snapshot{Loading: true},
		subs:     make(map[int]chan Snapshot),
	}
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Snapshot returns the current state.
func (s *LocalSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe implements Session.
func (s *LocalSession) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publish replaces the current snapshot and hands it to every subscriber.
// A subscriber that has not read the previous value gets it replaced.
func (s *LocalSession) publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func snapshotFor(u storage.User) Snapshot {
	return Snapshot{
		User:    &Identity{ID: u.ID, Email: u.Email},
		Profile: &Profile{Username: u.Username},
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Restore resolves the startup state from the remembered session.
func (s *LocalSession) Restore(ctx context.Context) error {
	log := logging.For("auth")
	s.publish(Snapshot{Loading: true})

	if !s.remember {
		s.publish(Snapshot{})
		return nil
	}

	u, err := s.store.LoadSession(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		s.publish(Snapshot{})
		return nil
	}
	if err != nil {
		s.publish(Snapshot{})
		return fmt.Errorf("restore session: %w", err)
	}

	log.Info("auth_restored", "user_id", u.ID)
	s.publish(snapshotFor(u))
	return nil
}

// SignIn authenticates with email and password.
func (s *LocalSession) SignIn(ctx context.Context, creds Credentials) error {
	log := logging.For("auth")
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return ErrInvalidInput
	}
	if !s.limiter.Allow() {
		log.Warn("auth_rate_limited", "op", "sign_in")
		return ErrRateLimited
	}

	prev := s.Snapshot()
	s.publish(Snapshot{Loading: true})

	u, err := s.store.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		s.publish(Snapshot{User: prev.User, Profile: prev.Profile})
		log.Info("auth_sign_in", "ok", false)
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrBadPassword) {
			return ErrInvalidCredentials
		}
		return fmt.Errorf("sign in: %w", err)
	}

	s.rememberUser(ctx, u.ID)
	log.Info("auth_sign_in", "ok", true, "user_id", u.ID)
	s.publish(snapshotFor(u))
	return nil
}

// SignUp creates an account and signs it in.
func (s *LocalSession) SignUp(ctx context.Context, creds Credentials) error {
	log := logging.For("auth")
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" || strings.TrimSpace(creds.Username) == "" {
		return ErrInvalidInput
	}
	if !s.limiter.Allow() {
		log.Warn("auth_rate_limited", "op", "sign_up")
		return ErrRateLimited
	}

	prev := s.Snapshot()
	s.publish(Snapshot{Loading: true})

	u, err := s.store.CreateUser(ctx, creds.Email, creds.Username, creds.Password)
	if err != nil {
		s.publish(Snapshot{User: prev.User, Profile: prev.Profile})
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return ErrUserExists
		case errors.Is(err, storage.ErrInvalidInput):
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			return fmt.Errorf("sign up: %w", err)
		}
	}

	s.rememberUser(ctx, u.ID)
	log.Info("auth_sign_up", "user_id", u.ID)
	s.publish(snapshotFor(u))
	return nil
}

// SignOut clears the user. The absent-user snapshot is published before the
// store is touched, so a store failure never leaves the user signed in.
func (s *LocalSession) SignOut(ctx context.Context) error {
	s.publish(Snapshot{})
	logging.For("auth").Info("auth_sign_out")

	if err := s.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (s *LocalSession) rememberUser(ctx context.Context, userID string) {
	if !s.remember {
		return
	}
	if err := s.store.SaveSession(ctx, userID); err != nil {
		logging.For("auth").Warn("auth_remember_failed", "error", err.Error())
	}
}

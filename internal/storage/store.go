// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// MemoryPath opens a private in-memory database. Used by tests.
const MemoryPath = ":memory:"

// Password length bounds accepted by CreateUser. bcrypt only hashes the
// first 72 bytes and rejects anything longer.
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var (
	// ErrNotFound is returned when no matching row exists.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an account already uses the email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrBadPassword is returned when the password does not match.
	ErrBadPassword = errors.New("password mismatch")
	// ErrInvalidInput is returned for empty emails or usernames and for
	// passwords outside the length bounds.
	ErrInvalidInput = errors.New("invalid input")
)

// User is an account row without its password hash.
type User struct {
	ID        string
	Email     string
	Username  string
	CreatedAt time.Time
}

// Store is the SQLite account store. It is safe for concurrent use.
type Store struct {
	db   *sql.DB
	cost int
}

// Option configures a Store.
type Option func(*Store)

// WithBcryptCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// Open opens (creating if needed) the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps an in-memory
	// database alive for the store's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return err
	}
	_, err := s.db.Exec(InitMetadata)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NormalizeEmail returns the canonical form used for storage and lookup:
// trimmed, NFKC-normalized and case-folded.
func NormalizeEmail(email string) string {
	email = norm.NFKC.String(strings.TrimSpace(email))
	return cases.Fold().String(email)
}

// =============================================================================
// USERS
// =============================================================================

// CreateUser registers a new account.
func (s *Store) CreateUser(ctx context.Context, email, username, password string) (User, error) {
	email = NormalizeEmail(email)
	username = strings.TrimSpace(username)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("%w: email", ErrInvalidInput)
	}
	if username == "" {
		return User{}, fmt.Errorf("%w: username", ErrInvalidInput)
	}
	if len(password) < MinPasswordLength {
		return User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return User{}, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{
		ID:        uuid.NewString(),
		Email:     email,
		Username:  username,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&exists)
	if err != nil {
		return User{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists > 0 {
		return User{}, ErrDuplicateEmail
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, username, password_hash, created_at) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, user.Username, hash, user.CreatedAt.Unix())
	if err != nil {
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("failed to commit: %w", err)
	}
	return user, nil
}

// Authenticate checks an email and password.
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	var (
		user    User
		hash    []byte
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, username, password_hash, created_at FROM users WHERE email = ?",
		NormalizeEmail(email),
	).Scan(&user.ID, &user.Email, &user.Username, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return User{}, ErrBadPassword
	}
	user.CreatedAt = time.Unix(created, 0).UTC()
	return user, nil
}

// UserByID loads an account.
func (s *Store) UserByID(ctx context.Context, id string) (User, error) {
	var (
		user    User
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, username, created_at FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Email, &user.Username, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	user.CreatedAt = time.Unix(created, 0).UTC()
	return user, nil
}

// =============================================================================
// REMEMBERED SESSION
// =============================================================================

// SaveSession remembers userID as the signed-in user.
func (s *Store) SaveSession(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (id, user_id, saved_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, saved_at = excluded.saved_at`,
		userID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession returns the remembered user, or ErrNotFound.
func (s *Store) LoadSession(ctx context.Context) (User, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, "SELECT user_id FROM session WHERE id = 1").Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to load session: %w", err)
	}
	return s.UserByID(ctx, userID)
}

// ClearSession forgets the remembered user.
func (s *Store) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session"); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
